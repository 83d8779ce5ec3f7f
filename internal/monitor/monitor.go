// Package monitor provides the background watch loop over browser instances.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/chromedock/chromedock/internal/config"
	"github.com/chromedock/chromedock/internal/notify"
	"github.com/chromedock/chromedock/internal/profile"
	"github.com/chromedock/chromedock/internal/supervisor"
)

// ProfileSource is the profile catalog surface the watch loop needs.
type ProfileSource interface {
	// Refresh rescans the profile root.
	Refresh() error
	// List returns the cataloged profiles.
	List() []profile.Info
}

// InstanceSource is the supervisor surface the watch loop needs.
type InstanceSource interface {
	// PollAll refreshes every tracked instance and returns the snapshots.
	PollAll() []supervisor.Instance
	// DiscoverExternal adopts externally launched browsers bound to the
	// given profiles.
	DiscoverExternal(profiles []profile.Info) []supervisor.Instance
}

// Monitor periodically polls browser instances, adopts external ones and
// dispatches desktop notifications on state transitions.
type Monitor struct {
	config    *config.Config
	profiles  ProfileSource
	instances InstanceSource
	logger    *Logger
	notifier  notify.Notifier

	mu        sync.Mutex
	running   bool
	stopChan  chan struct{}
	lastState map[string]supervisor.State
}

// New creates a new Monitor instance.
func New(cfg *config.Config, profiles ProfileSource, instances InstanceSource) *Monitor {
	// Create default logger
	logger, err := NewLogger(LoggerConfig{
		Level:    LogLevelInfo,
		JSONMode: false,
	})
	if err != nil {
		// Fall back to stderr logger if file logger fails
		logger = &Logger{writer: os.Stderr}
	}

	return &Monitor{
		config:    cfg,
		profiles:  profiles,
		instances: instances,
		logger:    logger,
		notifier:  notify.New(cfg.Monitor.Notifications),
		lastState: make(map[string]supervisor.State),
	}
}

// SetLogger sets a custom logger for the monitor.
func (m *Monitor) SetLogger(logger *Logger) {
	m.logger = logger
}

// SetNotifier sets a custom notifier (for testing).
func (m *Monitor) SetNotifier(n notify.Notifier) {
	m.notifier = n
}

// Run starts the watch loop and blocks until it's stopped.
func (m *Monitor) Run(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("monitor is already running")
	}
	m.running = true
	m.stopChan = make(chan struct{})
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	// Check if another instance is already running
	if IsRunningFromPID(m.config) {
		return fmt.Errorf("monitor is already running (another instance detected)")
	}

	m.logger.Info("Starting browser watch loop")
	m.logger.Info(fmt.Sprintf("Poll interval: %s", m.config.Monitor.Interval))
	m.logger.Info(fmt.Sprintf("Profile root: %s", m.config.ProfileRoot()))

	// Write PID file for tracking (with exclusive creation to prevent races)
	if err := m.writePIDFile(); err != nil {
		return fmt.Errorf("failed to acquire monitor lock (another instance may be starting): %w", err)
	}
	defer m.removePIDFile()

	// Close logger on exit
	defer func() {
		if err := m.logger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close logger: %v\n", err)
		}
	}()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(m.config.Monitor.Interval)
	defer ticker.Stop()

	// Do an initial pass
	m.tick()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Context canceled, shutting down")
			return ctx.Err()
		case <-m.stopChan:
			m.logger.Info("Stop signal received, shutting down")
			return nil
		case sig := <-sigChan:
			m.logger.Info(fmt.Sprintf("Received signal %v, shutting down", sig))
			return nil
		case <-ticker.C:
			m.tick()
		}
	}
}

// Stop signals the monitor to stop.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running && m.stopChan != nil {
		close(m.stopChan)
	}
}

// IsRunning returns whether the monitor is running.
func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// tick runs one watch pass: rescan profiles, adopt external browsers, poll
// every tracked instance and notify on crash or stop transitions.
func (m *Monitor) tick() {
	if err := m.profiles.Refresh(); err != nil {
		m.logger.Warn(fmt.Sprintf("Profile rescan failed: %v", err))
	}

	for _, inst := range m.instances.DiscoverExternal(m.profiles.List()) {
		m.logger.Info(fmt.Sprintf("Profile %s: adopted external browser (PID: %d)", inst.ProfileID, inst.PID))
	}

	snapshots := m.instances.PollAll()

	seen := make(map[string]supervisor.State, len(snapshots))
	for _, inst := range snapshots {
		seen[inst.ProfileID] = inst.State
		m.observe(inst)
	}

	m.mu.Lock()
	m.lastState = seen
	m.mu.Unlock()
}

// observe compares an instance snapshot against its previously seen state
// and dispatches notifications for terminal transitions.
func (m *Monitor) observe(inst supervisor.Instance) {
	m.mu.Lock()
	prev, known := m.lastState[inst.ProfileID]
	m.mu.Unlock()

	if known && prev == inst.State {
		return
	}

	switch inst.State {
	case supervisor.StateRunning:
		m.logger.Info(fmt.Sprintf("Profile %s: browser running (PID: %d)", inst.ProfileID, inst.PID))
	case supervisor.StateCrashed:
		if !known || prev.Terminal() {
			return
		}
		uptime := time.Since(inst.StartTime)
		m.logger.Error(fmt.Sprintf("Profile %s: browser crashed after %s (PID: %d)",
			inst.ProfileID, uptime.Round(time.Second), inst.PID))
		if err := m.notifier.NotifyCrash(inst.ProfileID, uptime); err != nil {
			m.logger.Debug(fmt.Sprintf("Failed to send notification: %v", err))
		}
	case supervisor.StateStopped:
		if !known || prev.Terminal() {
			return
		}
		m.logger.Info(fmt.Sprintf("Profile %s: browser stopped", inst.ProfileID))
		if err := m.notifier.NotifyStop(inst.ProfileID); err != nil {
			m.logger.Debug(fmt.Sprintf("Failed to send notification: %v", err))
		}
	}
}

// writePIDFile writes the current process ID to the configured PID file.
// It uses exclusive file creation to prevent multiple instances from
// starting simultaneously.
func (m *Monitor) writePIDFile() error {
	pidFile := pidFilePath(m.config)

	if err := os.MkdirAll(filepath.Dir(pidFile), 0700); err != nil {
		return err
	}

	// Retry logic: try up to 3 times to handle race conditions
	const maxRetries = 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		// Try to create the PID file exclusively (fails if it already exists)
		// #nosec G304 - pidFile is from config paths (controlled)
		file, err := os.OpenFile(pidFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err != nil {
			if !os.IsExist(err) {
				return fmt.Errorf("failed to create PID file: %w", err)
			}

			// PID file exists - check if the process is still running
			existingPID, readErr := GetPID(m.config)
			if readErr != nil {
				// PID file exists but can't read it - remove and retry
				_ = os.Remove(pidFile)
				continue
			}

			if IsRunningFromPID(m.config) {
				return fmt.Errorf("monitor is already running (PID: %d)", existingPID)
			}

			// Process is not running - remove stale PID file and retry
			_ = os.Remove(pidFile)
			continue
		}

		defer file.Close()

		if _, err := file.WriteString(strconv.Itoa(os.Getpid())); err != nil {
			_ = os.Remove(pidFile)
			return fmt.Errorf("failed to write PID: %w", err)
		}
		if err := file.Sync(); err != nil {
			_ = os.Remove(pidFile)
			return fmt.Errorf("failed to sync PID file: %w", err)
		}

		return nil
	}

	return fmt.Errorf("failed to acquire monitor lock after %d attempts", maxRetries)
}

// removePIDFile removes the PID file.
func (m *Monitor) removePIDFile() {
	_ = os.Remove(pidFilePath(m.config))
}

func pidFilePath(cfg *config.Config) string {
	if cfg.Monitor.PIDFile != "" {
		return cfg.Monitor.PIDFile
	}
	paths := config.GetPaths()
	return filepath.Join(paths.DataDir, "chromedock.pid")
}

// GetPID reads the PID from the PID file, if it exists.
func GetPID(cfg *config.Config) (int, error) {
	// #nosec G304 - pidFile is from config paths (controlled)
	data, err := os.ReadFile(pidFilePath(cfg))
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(string(data))
}

// IsRunningFromPID checks if a monitor is running based on the PID file.
func IsRunningFromPID(cfg *config.Config) bool {
	pid, err := GetPID(cfg)
	if err != nil {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix, FindProcess always succeeds. Send signal 0 to check if the
	// process exists.
	err = process.Signal(syscall.Signal(0))
	return err == nil
}
