package supervisor

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedock/chromedock/internal/browser"
	"github.com/chromedock/chromedock/internal/config"
	"github.com/chromedock/chromedock/internal/profile"
)

// DiscoverExternal scans the OS process table for browser main processes
// that bind one of the given profiles but were launched outside this
// supervisor, and adopts them as Running instances so they show up in
// status listings and can be shut down. Returns the newly adopted
// snapshots.
func (s *Supervisor) DiscoverExternal(profiles []profile.Info) []Instance {
	procs, err := s.procs.Snapshot()
	if err != nil {
		return nil
	}

	var adopted []Instance
	for _, info := range procs {
		if !isBrowserMain(info) {
			continue
		}
		dataDir, profileDir := profileBinding(info.Cmdline)

		for _, prof := range profiles {
			if !bindsProfile(prof, dataDir, profileDir) {
				continue
			}
			if snap, ok := s.adopt(prof.ID, info); ok {
				adopted = append(adopted, snap)
			}
			break
		}
	}
	return adopted
}

// adopt records an externally launched instance unless the profile already
// has a non-terminal one.
func (s *Supervisor) adopt(id string, info ProcInfo) (Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.instances[id]; ok && !existing.state.Terminal() {
		return Instance{}, false
	}

	startTime := info.CreateTime
	if startTime.IsZero() {
		startTime = time.Now()
	}
	inst := &instance{
		profileID: id,
		pid:       info.PID,
		startTime: startTime,
		state:     StateRunning,
		adopted:   true,
	}
	s.instances[id] = inst
	return inst.snapshot(), true
}

// bindsProfile reports whether a browser command line binding belongs to
// the given profile. Three launch shapes occur in the wild: our own
// detached instances point at the profile's dedicated data directory, an
// operator-launched browser with explicit flags points at the shared
// root, and a flag-less browser runs against the platform default root.
func bindsProfile(prof profile.Info, dataDir, profileDir string) bool {
	if dataDir == "" {
		dataDir = config.BrowserDataDir()
		if dataDir == "" {
			return false
		}
	}
	if dataDir == browser.InstanceDataDir(prof) {
		return true
	}
	return profileDir == prof.ID && dataDir == filepath.Dir(prof.Path)
}

// isBrowserMain reports whether the process is a browser main process.
// Helper, renderer and GPU children all carry a --type= argument and are
// skipped so one window never counts twice.
func isBrowserMain(info ProcInfo) bool {
	name := strings.ToLower(info.Name)
	if !strings.Contains(name, "chrome") && !strings.Contains(name, "chromium") {
		return false
	}
	for _, arg := range info.Cmdline {
		if strings.HasPrefix(arg, "--type=") {
			return false
		}
	}
	return true
}

// profileBinding extracts the user data directory and profile directory
// from a browser command line. The profile directory defaults to "Default"
// when the flag is absent, matching the browser's own behavior.
func profileBinding(args []string) (dataDir, profileDir string) {
	profileDir = "Default"
	for i, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--user-data-dir="):
			dataDir = strings.TrimPrefix(arg, "--user-data-dir=")
		case arg == "--user-data-dir" && i+1 < len(args):
			dataDir = args[i+1]
		case strings.HasPrefix(arg, "--profile-directory="):
			profileDir = strings.TrimPrefix(arg, "--profile-directory=")
		case arg == "--profile-directory" && i+1 < len(args):
			profileDir = args[i+1]
		}
	}
	return dataDir, profileDir
}
