//go:build integration

package integration

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestLaunch_StopRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	env := NewTestEnv(t)
	env.WriteProfile(t, "Default", "Personal")

	stdout, stderr, err := env.Run(ctx, "launch", "Default")
	if err != nil {
		t.Fatalf("launch failed: %v\nstdout: %s\nstderr: %s", err, stdout, stderr)
	}
	if !strings.Contains(stdout, "Launched") {
		t.Errorf("expected launch confirmation, got:\n%s", stdout)
	}

	// A separate invocation must rediscover the detached instance.
	stdout, stderr, err = env.Run(ctx, "ps")
	if err != nil {
		t.Fatalf("ps failed: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, "Default") || !strings.Contains(stdout, "running") {
		t.Errorf("expected a running instance in ps output, got:\n%s", stdout)
	}

	stdout, stderr, err = env.Run(ctx, "stop", "Default", "--force")
	if err != nil {
		t.Fatalf("stop failed: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, "Stopped") {
		t.Errorf("expected stop confirmation, got:\n%s", stdout)
	}

	stdout, _, err = env.Run(ctx, "ps")
	if err != nil {
		t.Fatalf("ps after stop failed: %v", err)
	}
	if !strings.Contains(stdout, "No running instances") {
		t.Errorf("expected no instances after stop, got:\n%s", stdout)
	}
}

func TestLaunch_RejectsSecondInstance(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	env := NewTestEnv(t)
	env.WriteProfile(t, "Default", "Personal")

	if _, stderr, err := env.Run(ctx, "launch", "Default"); err != nil {
		t.Fatalf("first launch failed: %v\nstderr: %s", err, stderr)
	}

	_, stderr, err := env.Run(ctx, "launch", "Default")
	if err == nil {
		t.Fatal("expected second launch to fail")
	}
	if !strings.Contains(stderr, "already running") {
		t.Errorf("expected already-running error, got: %s", stderr)
	}
}

func TestLaunch_InvalidConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	env := NewTestEnv(t)
	env.WriteProfile(t, "Default", "Personal")

	_, stderr, err := env.Run(ctx, "launch", "Default", "--window", "0x600")
	if err == nil {
		t.Fatal("expected launch with zero width to fail")
	}
	if !strings.Contains(stderr, "invalid launch configuration") {
		t.Errorf("expected validation error, got: %s", stderr)
	}

	_, stderr, err = env.Run(ctx, "launch", "Default", "--proxy", "ftp://proxy:8080")
	if err == nil {
		t.Fatal("expected launch with unsupported proxy scheme to fail")
	}
	if !strings.Contains(stderr, "proxy scheme") {
		t.Errorf("expected proxy scheme error, got: %s", stderr)
	}
}

func TestLaunch_UnknownProfile(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	env := NewTestEnv(t)
	env.WriteProfile(t, "Default", "Personal")

	_, stderr, err := env.Run(ctx, "launch", "Profile 9")
	if err == nil {
		t.Fatal("expected launch of unknown profile to fail")
	}
	if !strings.Contains(stderr, "Profile 9") {
		t.Errorf("expected profile id in error, got: %s", stderr)
	}
}
