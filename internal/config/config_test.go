package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() on missing file should return defaults, got error: %v", err)
	}

	if cfg.Monitor.Interval != 2*time.Second {
		t.Errorf("default Monitor.Interval = %v, want 2s", cfg.Monitor.Interval)
	}
	if cfg.Launch.StartTimeout != 10*time.Second {
		t.Errorf("default Launch.StartTimeout = %v, want 10s", cfg.Launch.StartTimeout)
	}
	if cfg.Launch.GracePeriod != 10*time.Second {
		t.Errorf("default Launch.GracePeriod = %v, want 10s", cfg.Launch.GracePeriod)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `browser:
  data_dir: /tmp/chrome-data
  executable: /usr/bin/google-chrome
launch:
  language: ja
  window_preset: laptop
  start_timeout: 5s
monitor:
  interval: 1s
  notifications:
    enabled: true
    on_crash: true
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.Browser.DataDir != "/tmp/chrome-data" {
		t.Errorf("Browser.DataDir = %q, want /tmp/chrome-data", cfg.Browser.DataDir)
	}
	if cfg.ProfileRoot() != "/tmp/chrome-data" {
		t.Errorf("ProfileRoot() = %q, want the configured override", cfg.ProfileRoot())
	}
	if cfg.Launch.Language != "ja" {
		t.Errorf("Launch.Language = %q, want ja", cfg.Launch.Language)
	}
	if cfg.Launch.StartTimeout != 5*time.Second {
		t.Errorf("Launch.StartTimeout = %v, want 5s", cfg.Launch.StartTimeout)
	}
	if cfg.Monitor.Interval != time.Second {
		t.Errorf("Monitor.Interval = %v, want 1s", cfg.Monitor.Interval)
	}
	if !cfg.Monitor.Notifications.Enabled {
		t.Error("Monitor.Notifications.Enabled should be true")
	}
	// GracePeriod not in file, default applies
	if cfg.Launch.GracePeriod != 10*time.Second {
		t.Errorf("Launch.GracePeriod = %v, want default 10s", cfg.Launch.GracePeriod)
	}
}

func TestLoadFromMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("browser: [not a map"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should fail on malformed YAML")
	}
}

func TestValidateExecutablePath(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "chrome")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"empty override is fine", "", false},
		{"existing executable", exe, false},
		{"relative path", "chrome", true},
		{"traversal", filepath.Join(dir, "..", "chrome"), true},
		{"missing file", filepath.Join(dir, "nope"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Browser.Executable = tt.path
			err := cfg.ValidateExecutablePath()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExecutablePath() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDirOverride(t *testing.T) {
	t.Setenv("CHROMEDOCK_CONFIG_DIR", "/tmp/custom-config")
	paths := GetPaths()
	if paths.ConfigDir != "/tmp/custom-config" {
		t.Errorf("ConfigDir = %q, want /tmp/custom-config", paths.ConfigDir)
	}
}
