// Package browser translates launch settings into a browser command line
// and locates the browser installation.
package browser

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates a malformed launch configuration.
var ErrInvalidConfig = errors.New("invalid launch configuration")

// Languages supported by the --lang flag.
var supportedLanguages = map[string]bool{
	"zh-CN": true,
	"en-US": true,
	"ja":    true,
	"ko":    true,
}

// Proxy schemes the browser accepts in --proxy-server.
var supportedProxySchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"socks4": true,
	"socks5": true,
}

// WindowPresets maps preset names to window dimensions.
var WindowPresets = map[string]WindowSize{
	"small":   {Width: 1024, Height: 768},
	"laptop":  {Width: 1366, Height: 768},
	"desktop": {Width: 1920, Height: 1080},
}

// Proxy describes an upstream proxy for one launch. The browser does not
// accept proxy credentials on the command line, so there are no credential
// fields; authenticated proxies are unsupported.
type Proxy struct {
	Scheme string `json:"scheme" yaml:"scheme"`
	Host   string `json:"host" yaml:"host"`
	Port   int    `json:"port" yaml:"port"`
}

// String renders the proxy as the single composed scheme://host:port flag value.
func (p Proxy) String() string {
	return fmt.Sprintf("%s://%s:%d", p.Scheme, p.Host, p.Port)
}

// WindowSize holds explicit window dimensions.
type WindowSize struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// LaunchConfig holds the user-chosen settings for one launch. Values are
// session scoped; nothing here is persisted by chromedock itself.
type LaunchConfig struct {
	// ProfileID must resolve to a discovered profile.
	ProfileID string `json:"profile_id"`
	// Language is one of the supported UI languages, or empty to inherit
	// the browser default.
	Language string `json:"language,omitempty"`
	// Proxy is the optional upstream proxy.
	Proxy *Proxy `json:"proxy,omitempty"`
	// Window is the optional explicit window size.
	Window *WindowSize `json:"window,omitempty"`
	// WindowPreset names a preset from WindowPresets; ignored when Window
	// is set explicitly.
	WindowPreset string `json:"window_preset,omitempty"`
	// ExtraArgs are appended verbatim after all composed flags.
	ExtraArgs []string `json:"extra_args,omitempty"`
}

// Validate checks all field constraints. It is called before any process
// is spawned.
func (c *LaunchConfig) Validate() error {
	if c.ProfileID == "" {
		return fmt.Errorf("%w: profile id is required", ErrInvalidConfig)
	}
	if c.Language != "" && !supportedLanguages[c.Language] {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalidConfig, c.Language)
	}
	if c.Proxy != nil {
		if !supportedProxySchemes[c.Proxy.Scheme] {
			return fmt.Errorf("%w: unsupported proxy scheme %q", ErrInvalidConfig, c.Proxy.Scheme)
		}
		if c.Proxy.Host == "" {
			return fmt.Errorf("%w: proxy host is required", ErrInvalidConfig)
		}
		if c.Proxy.Port < 1 || c.Proxy.Port > 65535 {
			return fmt.Errorf("%w: proxy port %d outside 1-65535", ErrInvalidConfig, c.Proxy.Port)
		}
	}
	if c.Window != nil {
		if c.Window.Width <= 0 || c.Window.Height <= 0 {
			return fmt.Errorf("%w: window dimensions must be positive, got %dx%d",
				ErrInvalidConfig, c.Window.Width, c.Window.Height)
		}
	} else if c.WindowPreset != "" {
		if _, ok := WindowPresets[c.WindowPreset]; !ok {
			return fmt.Errorf("%w: unknown window preset %q", ErrInvalidConfig, c.WindowPreset)
		}
	}
	return nil
}

// windowSize resolves the effective window dimensions, nil when unset.
func (c *LaunchConfig) windowSize() *WindowSize {
	if c.Window != nil {
		return c.Window
	}
	if c.WindowPreset != "" {
		if preset, ok := WindowPresets[c.WindowPreset]; ok {
			return &preset
		}
	}
	return nil
}
