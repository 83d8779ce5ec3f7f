// Package profile discovers Chrome profiles on disk and maintains the
// in-memory catalog of their metadata.
package profile

import "time"

// Info is an immutable snapshot of one discovered browser profile.
// A re-scan produces a new Info that replaces the old one by ID; records
// are never mutated in place.
type Info struct {
	// ID is the profile directory name, e.g. "Default" or "Profile 1".
	ID string `json:"id"`
	// DisplayName is the human label from the profile preferences, or ID
	// when the preferences carry no name.
	DisplayName string `json:"display_name"`
	// Path is the absolute filesystem location of the profile directory.
	Path string `json:"path"`
	// BookmarkCount is the number of leaf bookmark entries.
	BookmarkCount int `json:"bookmark_count"`
	// ExtensionCount is the number of installed extensions with a valid manifest.
	ExtensionCount int `json:"extension_count"`
	// SizeBytes is the recursive on-disk size. Valid only when SizeKnown is
	// set; size is computed on demand, not on every scan.
	SizeBytes int64 `json:"size_bytes,omitempty"`
	// SizeKnown reports whether SizeBytes has been computed for this snapshot.
	SizeKnown bool `json:"size_known"`
	// LastUsed is the last time the profile was used, nil if unknown.
	LastUsed *time.Time `json:"last_used,omitempty"`
}
