package browser

import (
	"fmt"

	"github.com/chromedock/chromedock/internal/profile"
)

// BuildArgs composes the browser argument list for launching a profile.
// It is a pure function with deterministic ordering: the data directory
// binding comes first, then language, proxy, window size, the stable
// multi-instance flags, and finally ExtraArgs verbatim. Determinism keeps
// launches reproducible and log comparison meaningful.
//
// The binding points at the profile's dedicated instance data directory
// (see InstanceDataDir) whose seeded profile always lives under Default.
func BuildArgs(prof profile.Info, cfg LaunchConfig) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ProfileID != prof.ID {
		return nil, fmt.Errorf("%w: config targets profile %q but was given %q",
			ErrInvalidConfig, cfg.ProfileID, prof.ID)
	}

	args := []string{
		"--user-data-dir=" + InstanceDataDir(prof),
		"--profile-directory=Default",
	}

	if cfg.Language != "" {
		args = append(args, "--lang="+cfg.Language)
	}
	if cfg.Proxy != nil {
		args = append(args, "--proxy-server="+cfg.Proxy.String())
	}
	if size := cfg.windowSize(); size != nil {
		args = append(args, fmt.Sprintf("--window-size=%d,%d", size.Width, size.Height))
	}

	// Keep each launch self-contained: no first-run wizard and no default
	// browser prompt stealing focus from a freshly spawned instance.
	args = append(args, "--no-first-run", "--no-default-browser-check")

	args = append(args, cfg.ExtraArgs...)
	return args, nil
}
