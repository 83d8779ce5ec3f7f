package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/chromedock/chromedock/internal/utils"
)

// markerFiles are the state files that identify a directory as a profile.
// A directory is a candidate only if it contains at least one of them.
var markerFiles = []string{"Preferences", "Bookmarks", "History"}

// excludedDirs are browser-internal directories that carry profile state
// files but are not user profiles.
var excludedDirs = map[string]bool{
	"System Profile": true,
	"Guest Profile":  true,
}

// Scanner locates candidate profile directories under the browser data root.
type Scanner struct {
	root string
}

// NewScanner creates a Scanner for the given browser data root.
func NewScanner(root string) *Scanner {
	return &Scanner{root: root}
}

// Root returns the browser data root this scanner walks.
func (s *Scanner) Root() string {
	return s.root
}

// Scan returns the absolute paths of candidate profile directories, sorted
// by directory name. The walk is one level deep. A missing root is not an
// error; it yields an empty result.
func (s *Scanner) Scan() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read browser data directory: %w", err)
	}

	var candidates []string
	for _, entry := range entries {
		if !entry.IsDir() || excludedDirs[entry.Name()] {
			continue
		}
		if !utils.IsValidProfileID(entry.Name()) {
			continue
		}
		dir := filepath.Join(s.root, entry.Name())
		if hasMarkerFile(dir) {
			candidates = append(candidates, dir)
		}
	}

	sort.Strings(candidates)
	return candidates, nil
}

// hasMarkerFile reports whether dir contains at least one recognized
// profile state file.
func hasMarkerFile(dir string) bool {
	for _, name := range markerFiles {
		info, err := os.Stat(filepath.Join(dir, name))
		if err == nil && info.Mode().IsRegular() {
			return true
		}
	}
	return false
}
