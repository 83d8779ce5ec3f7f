package utils

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		expected string
	}{
		{"zero", 0, "0s"},
		{"negative", -time.Second, "0s"},
		{"seconds only", 45 * time.Second, "45s"},
		{"minutes and seconds", 2*time.Minute + 30*time.Second, "2m 30s"},
		{"hours and minutes", 2*time.Hour + 30*time.Minute, "2h 30m"},
		{"days and hours", 5*24*time.Hour + 3*time.Hour, "5d 3h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.d); got != tt.expected {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.expected)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{"zero", 0, "0 B"},
		{"bytes", 512, "512 B"},
		{"kilobytes", 1536, "1.5 KB"},
		{"megabytes", 5 * 1024 * 1024, "5.0 MB"},
		{"gigabytes", 3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSize(tt.bytes); got != tt.expected {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.expected)
			}
		})
	}
}

func TestIsValidProfileID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		expected bool
	}{
		{"default profile", "Default", true},
		{"numbered profile", "Profile 2", true},
		{"empty", "", false},
		{"dot", ".", false},
		{"dotdot", "..", false},
		{"path separator", "Profile/2", false},
		{"backslash", "Profile\\2", false},
		{"control character", "Profile\x00", false},
		{"too long", string(make([]byte, 129)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidProfileID(tt.id); got != tt.expected {
				t.Errorf("IsValidProfileID(%q) = %v, want %v", tt.id, got, tt.expected)
			}
		})
	}
}
