//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestProfile_List(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	env := NewTestEnv(t)
	env.WriteProfile(t, "Default", "Personal")
	env.WriteProfile(t, "Profile 1", "Work")

	stdout, stderr, err := env.Run(ctx, "profile", "list")
	if err != nil {
		t.Fatalf("profile list failed: %v\nstderr: %s", err, stderr)
	}

	for _, want := range []string{"Default", "Personal", "Profile 1", "Work", "2 profiles"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output, got:\n%s", want, stdout)
		}
	}
}

func TestProfile_ListJSON(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	env := NewTestEnv(t)
	env.WriteProfile(t, "Default", "Personal")

	stdout, stderr, err := env.Run(ctx, "profile", "list", "-o", "json")
	if err != nil {
		t.Fatalf("profile list -o json failed: %v\nstderr: %s", err, stderr)
	}

	var out struct {
		Root     string `json:"root"`
		Profiles []struct {
			ID            string `json:"id"`
			DisplayName   string `json:"display_name"`
			BookmarkCount int    `json:"bookmark_count"`
		} `json:"profiles"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, stdout)
	}

	if len(out.Profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(out.Profiles))
	}
	if out.Profiles[0].DisplayName != "Personal" {
		t.Errorf("display name = %q, want Personal", out.Profiles[0].DisplayName)
	}
	if out.Profiles[0].BookmarkCount != 2 {
		t.Errorf("bookmark count = %d, want 2", out.Profiles[0].BookmarkCount)
	}
}

func TestProfile_Show(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	env := NewTestEnv(t)
	env.WriteProfile(t, "Profile 2", "Testing")

	stdout, stderr, err := env.Run(ctx, "profile", "show", "Profile 2", "--size")
	if err != nil {
		t.Fatalf("profile show failed: %v\nstderr: %s", err, stderr)
	}

	if !strings.Contains(stdout, "Testing") {
		t.Errorf("expected display name in output, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Size:") {
		t.Errorf("expected size with --size, got:\n%s", stdout)
	}
}

func TestProfile_ShowUnknown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	env := NewTestEnv(t)
	env.WriteProfile(t, "Default", "Personal")

	_, stderr, err := env.Run(ctx, "profile", "show", "Profile 9")
	if err == nil {
		t.Fatal("expected profile show to fail for unknown profile")
	}
	if !strings.Contains(stderr, "Profile 9") {
		t.Errorf("expected profile id in error, got: %s", stderr)
	}
}

func TestProfile_Du(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	env := NewTestEnv(t)
	env.WriteProfile(t, "Default", "Personal")

	stdout, stderr, err := env.Run(ctx, "profile", "du")
	if err != nil {
		t.Fatalf("profile du failed: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, "Total:") {
		t.Errorf("expected total in output, got:\n%s", stdout)
	}
}
