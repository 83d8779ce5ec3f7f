package browser

import (
	"errors"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/chromedock/chromedock/internal/profile"
)

func testProfile() profile.Info {
	return profile.Info{
		ID:          "Profile 1",
		DisplayName: "Work",
		Path:        filepath.Join("/home/user/.config/google-chrome", "Profile 1"),
	}
}

func TestBuildArgsOrdering(t *testing.T) {
	prof := testProfile()
	cfg := LaunchConfig{
		ProfileID: "Profile 1",
		Language:  "ja",
		Proxy:     &Proxy{Scheme: "socks5", Host: "127.0.0.1", Port: 1080},
		Window:    &WindowSize{Width: 1280, Height: 720},
		ExtraArgs: []string{"--incognito", "--mute-audio"},
	}

	args, err := BuildArgs(prof, cfg)
	if err != nil {
		t.Fatalf("BuildArgs() error: %v", err)
	}

	want := []string{
		"--user-data-dir=" + InstanceDataDir(prof),
		"--profile-directory=Default",
		"--lang=ja",
		"--proxy-server=socks5://127.0.0.1:1080",
		"--window-size=1280,720",
		"--no-first-run",
		"--no-default-browser-check",
		"--incognito",
		"--mute-audio",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("BuildArgs() = %v, want %v", args, want)
	}
}

func TestBuildArgsOptionalFieldsOmitted(t *testing.T) {
	args, err := BuildArgs(testProfile(), LaunchConfig{ProfileID: "Profile 1"})
	if err != nil {
		t.Fatalf("BuildArgs() error: %v", err)
	}

	for _, arg := range args {
		for _, prefix := range []string{"--lang=", "--proxy-server=", "--window-size="} {
			if strings.HasPrefix(arg, prefix) {
				t.Errorf("unset field emitted flag %q", arg)
			}
		}
	}
}

func TestBuildArgsPreset(t *testing.T) {
	cfg := LaunchConfig{ProfileID: "Profile 1", WindowPreset: "laptop"}
	args, err := BuildArgs(testProfile(), cfg)
	if err != nil {
		t.Fatalf("BuildArgs() error: %v", err)
	}

	found := false
	for _, arg := range args {
		if arg == "--window-size=1366,768" {
			found = true
		}
	}
	if !found {
		t.Errorf("preset window size not emitted, args = %v", args)
	}
}

func TestBuildArgsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  LaunchConfig
	}{
		{"missing profile id", LaunchConfig{}},
		{"negative width", LaunchConfig{ProfileID: "Profile 1", Window: &WindowSize{Width: -1, Height: 800}}},
		{"zero height", LaunchConfig{ProfileID: "Profile 1", Window: &WindowSize{Width: 800, Height: 0}}},
		{"port too low", LaunchConfig{ProfileID: "Profile 1", Proxy: &Proxy{Scheme: "http", Host: "h", Port: 0}}},
		{"port too high", LaunchConfig{ProfileID: "Profile 1", Proxy: &Proxy{Scheme: "http", Host: "h", Port: 65536}}},
		{"bad scheme", LaunchConfig{ProfileID: "Profile 1", Proxy: &Proxy{Scheme: "ftp", Host: "h", Port: 8080}}},
		{"empty proxy host", LaunchConfig{ProfileID: "Profile 1", Proxy: &Proxy{Scheme: "http", Port: 8080}}},
		{"bad language", LaunchConfig{ProfileID: "Profile 1", Language: "tlh"}},
		{"unknown preset", LaunchConfig{ProfileID: "Profile 1", WindowPreset: "cinema"}},
		{"profile mismatch", LaunchConfig{ProfileID: "Profile 2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildArgs(testProfile(), tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("BuildArgs() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

// parseArgs recovers the supported fields from a composed argument list.
func parseArgs(t *testing.T, args []string) LaunchConfig {
	t.Helper()
	var cfg LaunchConfig
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--user-data-dir="):
			// The profile binds through its dedicated data directory.
			base := filepath.Base(strings.TrimPrefix(arg, "--user-data-dir="))
			cfg.ProfileID = strings.TrimPrefix(base, "Chrome_Instance_")
		case strings.HasPrefix(arg, "--lang="):
			cfg.Language = strings.TrimPrefix(arg, "--lang=")
		case strings.HasPrefix(arg, "--proxy-server="):
			value := strings.TrimPrefix(arg, "--proxy-server=")
			scheme, rest, ok := strings.Cut(value, "://")
			if !ok {
				t.Fatalf("unparseable proxy flag %q", arg)
			}
			host, portStr, ok := strings.Cut(rest, ":")
			if !ok {
				t.Fatalf("unparseable proxy flag %q", arg)
			}
			port, err := strconv.Atoi(portStr)
			if err != nil {
				t.Fatalf("unparseable proxy port in %q", arg)
			}
			cfg.Proxy = &Proxy{Scheme: scheme, Host: host, Port: port}
		case strings.HasPrefix(arg, "--window-size="):
			value := strings.TrimPrefix(arg, "--window-size=")
			wStr, hStr, ok := strings.Cut(value, ",")
			if !ok {
				t.Fatalf("unparseable window flag %q", arg)
			}
			w, err1 := strconv.Atoi(wStr)
			h, err2 := strconv.Atoi(hStr)
			if err1 != nil || err2 != nil {
				t.Fatalf("unparseable window flag %q", arg)
			}
			cfg.Window = &WindowSize{Width: w, Height: h}
		}
	}
	return cfg
}

func TestBuildArgsRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cfg  LaunchConfig
	}{
		{
			name: "all fields",
			cfg: LaunchConfig{
				ProfileID: "Profile 1",
				Language:  "zh-CN",
				Proxy:     &Proxy{Scheme: "http", Host: "proxy.local", Port: 3128},
				Window:    &WindowSize{Width: 1920, Height: 1080},
			},
		},
		{
			name: "proxy only",
			cfg: LaunchConfig{
				ProfileID: "Profile 1",
				Proxy:     &Proxy{Scheme: "socks4", Host: "10.0.0.1", Port: 9050},
			},
		},
		{
			name: "language only",
			cfg:  LaunchConfig{ProfileID: "Profile 1", Language: "ko"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := BuildArgs(testProfile(), tt.cfg)
			if err != nil {
				t.Fatalf("BuildArgs() error: %v", err)
			}

			got := parseArgs(t, args)
			if got.ProfileID != tt.cfg.ProfileID {
				t.Errorf("round-trip ProfileID = %q, want %q", got.ProfileID, tt.cfg.ProfileID)
			}
			if got.Language != tt.cfg.Language {
				t.Errorf("round-trip Language = %q, want %q", got.Language, tt.cfg.Language)
			}
			if !reflect.DeepEqual(got.Proxy, tt.cfg.Proxy) {
				t.Errorf("round-trip Proxy = %+v, want %+v", got.Proxy, tt.cfg.Proxy)
			}
			if !reflect.DeepEqual(got.Window, tt.cfg.Window) {
				t.Errorf("round-trip Window = %+v, want %+v", got.Window, tt.cfg.Window)
			}
		})
	}
}

func TestFindExecutableOverride(t *testing.T) {
	if _, err := FindExecutable(filepath.Join(t.TempDir(), "missing-chrome")); !errors.Is(err, ErrExecutableNotFound) {
		t.Errorf("FindExecutable(missing override) error = %v, want ErrExecutableNotFound", err)
	}
}
