package notify

import "github.com/gen2brain/beeep"

// Backend delivers desktop notifications about browser lifecycle events.
// The default implementation talks to the platform notification service
// through beeep; tests swap in a recording mock.
type Backend interface {
	// Notify sends an informational notification.
	Notify(title, message, iconPath string) error
	// Alert sends an attention-demanding notification.
	Alert(title, message, iconPath string) error
}

// desktopBackend is the beeep-backed Backend used outside of tests.
type desktopBackend struct{}

func (desktopBackend) Notify(title, message, iconPath string) error {
	return beeep.Notify(title, message, iconPath)
}

func (desktopBackend) Alert(title, message, iconPath string) error {
	return beeep.Alert(title, message, iconPath)
}

func newDesktopBackend() Backend {
	return desktopBackend{}
}
