package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidExecutablePath indicates the browser executable path is not valid.
var ErrInvalidExecutablePath = errors.New("invalid executable path")

// BrowserConfig holds settings for locating the browser installation.
type BrowserConfig struct {
	// DataDir overrides the platform's Chrome user data directory.
	DataDir string `yaml:"data_dir,omitempty"`
	// Executable overrides the Chrome binary path.
	Executable string `yaml:"executable,omitempty"`
}

// LaunchConfig holds default settings applied to every launch.
type LaunchConfig struct {
	// Language is the default UI language passed to the browser.
	Language string `yaml:"language,omitempty"`
	// WindowPreset is the default named window size preset.
	WindowPreset string `yaml:"window_preset,omitempty"`
	// ExtraArgs are extra arguments appended to every launch.
	ExtraArgs []string `yaml:"extra_args,omitempty"`
	// StartTimeout bounds the liveness wait after spawning a browser.
	StartTimeout time.Duration `yaml:"start_timeout,omitempty"`
	// GracePeriod bounds the wait for voluntary exit on graceful shutdown.
	GracePeriod time.Duration `yaml:"grace_period,omitempty"`
}

// MonitorConfig holds settings for the status watch loop.
type MonitorConfig struct {
	// Interval is how often the watch loop polls running instances.
	Interval time.Duration `yaml:"interval,omitempty"`
	// PIDFile is the path to the watch loop PID file.
	PIDFile string `yaml:"pid_file,omitempty"`
	// LogFile is the path to the watch loop log file.
	LogFile string `yaml:"log_file,omitempty"`
	// LogLevel is the logging level (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`
	// LogJSON enables JSON-formatted logging.
	LogJSON bool `yaml:"log_json,omitempty"`
	// LogMaxSize is the maximum log file size in MB before rotation.
	LogMaxSize int `yaml:"log_max_size,omitempty"`
	// Notifications holds notification settings.
	Notifications NotificationConfig `yaml:"notifications,omitempty"`
}

// NotificationConfig holds settings for desktop notifications.
type NotificationConfig struct {
	// Enabled enables desktop notifications.
	Enabled bool `yaml:"enabled,omitempty"`
	// OnCrash sends a notification when an instance dies unexpectedly.
	OnCrash bool `yaml:"on_crash,omitempty"`
	// OnStop sends a notification when an instance exits normally.
	OnStop bool `yaml:"on_stop,omitempty"`
}

// Config represents the chromedock configuration.
type Config struct {
	// Browser holds browser installation settings.
	Browser BrowserConfig `yaml:"browser,omitempty"`
	// Launch holds launch defaults.
	Launch LaunchConfig `yaml:"launch,omitempty"`
	// Monitor holds watch loop settings.
	Monitor MonitorConfig `yaml:"monitor,omitempty"`

	// filePath is the path where this config was loaded from.
	filePath string `yaml:"-"`
}

// Default returns a new Config with default values.
func Default() *Config {
	paths := GetPaths()
	return &Config{
		Launch: LaunchConfig{
			StartTimeout: 10 * time.Second,
			GracePeriod:  10 * time.Second,
		},
		Monitor: MonitorConfig{
			Interval: 2 * time.Second,
			Notifications: NotificationConfig{
				Enabled: false,
				OnCrash: true,
				OnStop:  false,
			},
		},
		filePath: paths.ConfigFile,
	}
}

// Load loads the configuration from the default path.
func Load() (*Config, error) {
	paths := GetPaths()
	return LoadFrom(paths.ConfigFile)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.filePath = path

	// #nosec G304 - path is the config file path (controlled, from user config directory)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for missing values
	if cfg.Launch.StartTimeout == 0 {
		cfg.Launch.StartTimeout = 10 * time.Second
	}
	if cfg.Launch.GracePeriod == 0 {
		cfg.Launch.GracePeriod = 10 * time.Second
	}
	if cfg.Monitor.Interval == 0 {
		cfg.Monitor.Interval = 2 * time.Second
	}

	return cfg, nil
}

// Save writes the configuration to its file path.
func (c *Config) Save() error {
	if c.filePath == "" {
		return errors.New("config file path not set")
	}

	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ProfileRoot returns the effective Chrome user data directory.
func (c *Config) ProfileRoot() string {
	if c.Browser.DataDir != "" {
		return c.Browser.DataDir
	}
	return BrowserDataDir()
}

// ValidateExecutablePath validates that a configured executable override is
// safe to spawn. This prevents command injection via a tampered config file.
func (c *Config) ValidateExecutablePath() error {
	path := c.Browser.Executable
	if path == "" {
		return nil
	}

	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: executable override must be absolute, got %q", ErrInvalidExecutablePath, path)
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("%w: executable path contains suspicious components (path traversal)", ErrInvalidExecutablePath)
	}
	if clean := filepath.Clean(path); clean != path {
		return fmt.Errorf("%w: executable path contains suspicious components", ErrInvalidExecutablePath)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: executable not found at %q", ErrInvalidExecutablePath, path)
		}
		return fmt.Errorf("%w: cannot access executable at %q: %v", ErrInvalidExecutablePath, path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %q is not a regular file", ErrInvalidExecutablePath, path)
	}
	if runtime.GOOS != "windows" {
		if info.Mode().Perm()&0111 == 0 {
			return fmt.Errorf("%w: %q is not executable", ErrInvalidExecutablePath, path)
		}
	}

	return nil
}

// FilePath returns the path where this config was loaded from.
func (c *Config) FilePath() string {
	return c.filePath
}
