package browser

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ErrExecutableNotFound indicates no browser installation could be located.
var ErrExecutableNotFound = errors.New("browser executable not found")

// executableCandidates returns the standard install locations per platform.
func executableCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
		}
	case "windows":
		candidates := []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		}
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			candidates = append(candidates, filepath.Join(localAppData, "Google", "Chrome", "Application", "chrome.exe"))
		}
		return candidates
	default:
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium-browser",
			"/usr/bin/chromium",
		}
	}
}

// lookupNames are binary names tried in PATH when no fixed location matches.
func lookupNames() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{"chrome.exe"}
	case "darwin":
		return nil
	default:
		return []string{"google-chrome", "google-chrome-stable", "chromium-browser", "chromium"}
	}
}

// FindExecutable locates the browser binary. A non-empty override wins and
// must exist; otherwise the standard per-platform install locations are
// probed, then PATH. Failure is the distinct ErrExecutableNotFound
// condition so callers can surface it as a setup error.
func FindExecutable(override string) (string, error) {
	if override != "" {
		info, err := os.Stat(override)
		if err != nil || !info.Mode().IsRegular() {
			return "", fmt.Errorf("%w: configured executable %q is not usable", ErrExecutableNotFound, override)
		}
		return override, nil
	}

	for _, candidate := range executableCandidates() {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}

	for _, name := range lookupNames() {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", ErrExecutableNotFound
}
