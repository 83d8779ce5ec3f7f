//go:build integration

// Package integration provides integration tests for Chromedock.
package integration

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestEnv is an isolated chromedock environment: its own config directory,
// a fixture browser data directory and a fake browser executable.
type TestEnv struct {
	BinaryPath  string
	ConfigDir   string
	DataDir     string
	FakeBrowser string
}

// NewTestEnv builds an isolated environment with a config file pointing at
// the fixture data directory and the fake browser.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake browser script requires a Unix shell")
	}

	tmpDir := t.TempDir()
	env := &TestEnv{
		BinaryPath: ChromedockBinaryPath(t),
		ConfigDir:  filepath.Join(tmpDir, "config"),
		DataDir:    filepath.Join(tmpDir, "chrome"),
	}
	if err := os.MkdirAll(env.ConfigDir, 0700); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.MkdirAll(env.DataDir, 0755); err != nil {
		t.Fatalf("failed to create data dir: %v", err)
	}

	// The fake browser just stays alive until killed. It is named chrome
	// so external discovery recognizes it.
	binDir := filepath.Join(tmpDir, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatalf("failed to create bin dir: %v", err)
	}
	env.FakeBrowser = filepath.Join(binDir, "chrome")
	script := "#!/bin/sh\nsleep 300\n"
	if err := os.WriteFile(env.FakeBrowser, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write fake browser: %v", err)
	}

	configContent := "browser:\n" +
		"  data_dir: " + env.DataDir + "\n" +
		"  executable: " + env.FakeBrowser + "\n" +
		"launch:\n" +
		"  start_timeout: 5s\n" +
		"  grace_period: 2s\n"
	configFile := filepath.Join(env.ConfigDir, "config.yaml")
	if err := os.WriteFile(configFile, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	// Whatever happens in the test, no fake browser survives it.
	t.Cleanup(func() {
		ctx := context.Background()
		_, _, _ = env.Run(ctx, "stop", "--all", "--force")
	})

	return env
}

// WriteProfile creates a profile fixture under the data directory.
func (e *TestEnv) WriteProfile(t *testing.T, id, name string) {
	t.Helper()

	dir := filepath.Join(e.DataDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create profile dir: %v", err)
	}

	prefs := `{"profile":{"name":"` + name + `"}}`
	if err := os.WriteFile(filepath.Join(dir, "Preferences"), []byte(prefs), 0600); err != nil {
		t.Fatalf("failed to write Preferences: %v", err)
	}

	bookmarks := `{"roots":{"bookmark_bar":{"type":"folder","children":[` +
		`{"type":"url","name":"a","url":"https://a.example"},` +
		`{"type":"url","name":"b","url":"https://b.example"}]}}}`
	if err := os.WriteFile(filepath.Join(dir, "Bookmarks"), []byte(bookmarks), 0600); err != nil {
		t.Fatalf("failed to write Bookmarks: %v", err)
	}
}

// Run executes chromedock against this environment.
func (e *TestEnv) Run(ctx context.Context, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, e.BinaryPath, args...)
	cmd.Env = append(os.Environ(), "CHROMEDOCK_CONFIG_DIR="+e.ConfigDir)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// ChromedockBinaryPath returns the path to the chromedock binary.
func ChromedockBinaryPath(t *testing.T) string {
	t.Helper()

	// Check if CHROMEDOCK_BINARY is set
	if path := os.Getenv("CHROMEDOCK_BINARY"); path != "" {
		return path
	}

	// Try to find it relative to the test directory
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to get caller information")
	}

	// Go up from test/integration to project root
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	binaryPath := filepath.Join(projectRoot, "bin", "chromedock")

	if runtime.GOOS == "windows" {
		binaryPath += ".exe"
	}

	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Fatalf("chromedock binary not found at %s - build it first", binaryPath)
	}

	return binaryPath
}
