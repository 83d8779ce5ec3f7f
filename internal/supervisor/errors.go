package supervisor

import "errors"

// Typed launch/shutdown outcomes. Nothing in this package is fatal to the
// hosting process; every failure path surfaces as one of these or a
// wrapped error around them.
var (
	// ErrNotFound indicates no tracked instance exists for the profile.
	ErrNotFound = errors.New("no instance for profile")
	// ErrAlreadyRunning indicates a non-terminal instance already exists
	// for the profile.
	ErrAlreadyRunning = errors.New("profile already running")
	// ErrProfileLocked indicates the profile directory is held by a
	// browser process outside this supervisor's control.
	ErrProfileLocked = errors.New("profile locked by another browser process")
	// ErrLaunchTimeout indicates the spawned process could not be
	// confirmed alive within the liveness window.
	ErrLaunchTimeout = errors.New("timed out waiting for browser to start")
	// ErrLaunchAborted indicates the caller's context ended before the
	// spawn was confirmed alive.
	ErrLaunchAborted = errors.New("launch aborted before startup completed")
	// ErrLaunchFailed indicates the spawned process exited immediately
	// for a reason other than a profile lock.
	ErrLaunchFailed = errors.New("browser exited during startup")
)
