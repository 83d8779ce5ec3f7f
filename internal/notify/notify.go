// Package notify provides desktop notification support for Chromedock.
package notify

import (
	"fmt"
	"time"

	"github.com/chromedock/chromedock/internal/config"
	"github.com/chromedock/chromedock/internal/utils"
)

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	// NotifyCrash sends a notification about an unexpected browser exit.
	NotifyCrash(profile string, uptime time.Duration) error
	// NotifyStop sends a notification about a completed shutdown.
	NotifyStop(profile string) error
}

// Option configures a Notifier.
type Option func(*notifier)

// WithBackend sets a custom notification backend (for testing).
func WithBackend(backend Backend) Option {
	return func(n *notifier) {
		n.backend = backend
	}
}

// notifier sends desktop notifications using the system notification service.
type notifier struct {
	onCrash bool
	onStop  bool
	backend Backend
}

// NotifyCrash sends a notification about an unexpected browser exit.
func (n *notifier) NotifyCrash(profile string, uptime time.Duration) error {
	if !n.onCrash {
		return nil
	}

	title := "Chromedock: Browser Crashed"
	message := fmt.Sprintf("Browser for '%s' exited unexpectedly.\nUptime: %s", profile, utils.FormatDuration(uptime))

	return n.backend.Alert(title, message, "")
}

// NotifyStop sends a notification about a completed shutdown.
func (n *notifier) NotifyStop(profile string) error {
	if !n.onStop {
		return nil
	}

	title := "Chromedock: Browser Stopped"
	message := fmt.Sprintf("Browser for '%s' was shut down.", profile)

	return n.backend.Notify(title, message, "")
}

// New creates a new Notifier based on the configuration.
func New(cfg config.NotificationConfig, opts ...Option) Notifier {
	n := &notifier{
		onCrash: cfg.Enabled && cfg.OnCrash,
		onStop:  cfg.Enabled && cfg.OnStop,
		backend: newDesktopBackend(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}
