package profile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

const (
	preferencesFile = "Preferences"
	bookmarksFile   = "Bookmarks"
	extensionsDir   = "Extensions"

	// maxBookmarkDepth bounds recursion over the bookmark tree. Well-formed
	// data never gets close; hitting the bound means the file is corrupt.
	maxBookmarkDepth = 128
)

// errBookmarkTreeTooDeep reports a bookmark tree exceeding maxBookmarkDepth.
var errBookmarkTreeTooDeep = errors.New("bookmark tree exceeds maximum depth")

// Extractor derives profile metadata from the profile's state files.
// Extraction never fails as a whole: a parse error on an individual file
// degrades only the corresponding field to its zero value.
type Extractor struct {
	// Logf receives diagnostics about degraded fields. Nil disables logging.
	Logf func(format string, args ...any)
}

// Extract builds an Info snapshot for the profile directory at path.
// The on-disk size is not computed here; see DirSize.
func (e *Extractor) Extract(path string) Info {
	id := filepath.Base(path)
	info := Info{
		ID:          id,
		DisplayName: id,
		Path:        path,
	}

	if prefs, err := os.ReadFile(filepath.Join(path, preferencesFile)); err == nil {
		if name := gjson.GetBytes(prefs, "profile.name"); name.Type == gjson.String && name.Str != "" {
			info.DisplayName = name.Str
		}
	} else if !os.IsNotExist(err) {
		e.logf("profile %s: cannot read preferences: %v", id, err)
	}

	if stat, err := os.Stat(filepath.Join(path, preferencesFile)); err == nil {
		mtime := stat.ModTime()
		info.LastUsed = &mtime
	}

	count, err := e.countBookmarks(path)
	if err != nil {
		e.logf("profile %s: bookmark counting degraded: %v", id, err)
		count = 0
	}
	info.BookmarkCount = count

	info.ExtensionCount = e.countExtensions(path)

	return info
}

// countBookmarks counts leaf bookmark entries in the profile's Bookmarks
// file. A missing file yields zero; corrupt structure yields an error and
// the caller degrades the count to zero.
func (e *Extractor) countBookmarks(path string) (int, error) {
	data, err := os.ReadFile(filepath.Join(path, bookmarksFile))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	if !gjson.ValidBytes(data) {
		return 0, errors.New("bookmarks file is not valid JSON")
	}

	total := 0
	var countErr error
	gjson.GetBytes(data, "roots").ForEach(func(_, root gjson.Result) bool {
		if !root.IsObject() {
			return true
		}
		n, err := countBookmarkNodes(root, 0)
		if err != nil {
			countErr = err
			return false
		}
		total += n
		return true
	})
	if countErr != nil {
		return 0, countErr
	}
	return total, nil
}

// countBookmarkNodes recursively counts "url" leaves under a bookmark node.
func countBookmarkNodes(node gjson.Result, depth int) (int, error) {
	if depth > maxBookmarkDepth {
		return 0, errBookmarkTreeTooDeep
	}

	switch node.Get("type").String() {
	case "url":
		return 1, nil
	case "folder":
	default:
		// Root nodes carry no explicit type; treat anything with children
		// as a folder and ignore the rest.
		if !node.Get("children").Exists() {
			return 0, nil
		}
	}

	total := 0
	var countErr error
	node.Get("children").ForEach(func(_, child gjson.Result) bool {
		n, err := countBookmarkNodes(child, depth+1)
		if err != nil {
			countErr = err
			return false
		}
		total += n
		return true
	})
	if countErr != nil {
		return 0, countErr
	}
	return total, nil
}

// countExtensions counts per-extension subdirectories holding at least one
// version directory with a valid manifest. Malformed entries are skipped.
func (e *Extractor) countExtensions(path string) int {
	dir := filepath.Join(path, extensionsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == "Temp" {
			continue
		}
		if hasValidManifest(filepath.Join(dir, entry.Name())) {
			count++
		}
	}
	return count
}

// hasValidManifest reports whether any version directory under the
// extension directory contains a parseable manifest.json.
func hasValidManifest(extDir string) bool {
	versions, err := os.ReadDir(extDir)
	if err != nil {
		return false
	}
	for _, version := range versions {
		if !version.IsDir() {
			continue
		}
		manifest := filepath.Join(extDir, version.Name(), "manifest.json")
		data, err := os.ReadFile(manifest)
		if err != nil {
			continue
		}
		if gjson.ValidBytes(data) {
			return true
		}
	}
	return false
}

// DirSize computes the recursive on-disk size of a profile directory.
// Symbolic links are not followed and unreadable subpaths are skipped, so
// the result is always usable even on partially restricted trees.
func DirSize(path string) int64 {
	var total int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			// Permission denied or concurrent deletion: skip, not fatal.
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

func (e *Extractor) logf(format string, args ...any) {
	if e.Logf != nil {
		e.Logf(format, args...)
	}
}
