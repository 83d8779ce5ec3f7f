// Package utils provides small shared helpers for formatting and validation.
package utils

// IsValidProfileID checks if a profile directory name contains only safe characters.
// Chrome profile directories are names like "Default" or "Profile 2"; anything
// with path separators or control characters is rejected before it reaches a
// command line or a log message.
func IsValidProfileID(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	if id == "." || id == ".." {
		return false
	}
	for _, r := range id {
		if r < 0x20 || r == 0x7f {
			return false
		}
		if r == '/' || r == '\\' {
			return false
		}
	}
	return true
}
