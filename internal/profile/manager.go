package profile

import (
	"errors"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrNotFound indicates the requested profile id is not in the catalog.
var ErrNotFound = errors.New("profile not found")

// Manager orchestrates the scanner and extractor and answers catalog
// queries. The catalog is replaced wholesale on refresh so deleted
// profiles never linger.
type Manager struct {
	scanner   *Scanner
	extractor *Extractor

	mu      sync.RWMutex
	catalog map[string]Info

	refreshGroup singleflight.Group
}

// NewManager creates a Manager scanning the given browser data root.
func NewManager(root string) *Manager {
	return &Manager{
		scanner:   NewScanner(root),
		extractor: &Extractor{},
		catalog:   make(map[string]Info),
	}
}

// SetLogf routes extraction diagnostics to the given function.
func (m *Manager) SetLogf(logf func(format string, args ...any)) {
	m.extractor.Logf = logf
}

// Root returns the browser data root being scanned.
func (m *Manager) Root() string {
	return m.scanner.Root()
}

// List returns all known profiles ordered by id ascending.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := make([]Info, 0, len(m.catalog))
	for _, info := range m.catalog {
		profiles = append(profiles, info)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })
	return profiles
}

// Get returns the profile with the given id, or ErrNotFound.
func (m *Manager) Get(id string) (Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.catalog[id]
	if !ok {
		return Info{}, ErrNotFound
	}
	return info, nil
}

// Refresh re-runs scan and extraction and atomically replaces the catalog.
// Concurrent callers share a single in-flight refresh instead of racing.
func (m *Manager) Refresh() error {
	_, err, _ := m.refreshGroup.Do("refresh", func() (any, error) {
		return nil, m.refresh()
	})
	return err
}

func (m *Manager) refresh() error {
	paths, err := m.scanner.Scan()
	if err != nil {
		return err
	}

	next := make(map[string]Info, len(paths))
	for _, path := range paths {
		info := m.extractor.Extract(path)
		next[info.ID] = info
	}

	m.mu.Lock()
	m.catalog = next
	m.mu.Unlock()
	return nil
}

// ComputeSize computes the on-disk size for one profile and stores it on
// the catalog snapshot. Size computation is the slow path and is kept off
// List and Refresh so the catalog stays responsive.
func (m *Manager) ComputeSize(id string) (int64, error) {
	m.mu.RLock()
	info, ok := m.catalog[id]
	m.mu.RUnlock()
	if !ok {
		return 0, ErrNotFound
	}

	size := DirSize(info.Path)

	m.mu.Lock()
	// The catalog may have been refreshed while we walked the tree; only
	// annotate the record if the profile still exists.
	if current, ok := m.catalog[id]; ok {
		current.SizeBytes = size
		current.SizeKnown = true
		m.catalog[id] = current
	}
	m.mu.Unlock()

	return size, nil
}
