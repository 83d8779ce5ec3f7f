// Package supervisor owns the mapping from profile id to live browser
// process. It launches, polls, and terminates processes and hands out
// immutable status snapshots.
package supervisor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chromedock/chromedock/internal/browser"
	"github.com/chromedock/chromedock/internal/profile"
)

// Supervisor tracks at most one non-terminal browser instance per profile.
// A single coarse mutex guards the instance table; instance counts are low
// and none of the guarded sections block.
type Supervisor struct {
	runner     Runner
	procs      ProcTable
	executable string

	startTimeout time.Duration
	gracePeriod  time.Duration
	pollTick     time.Duration

	mu        sync.Mutex
	instances map[string]*instance
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithRunner sets the process runner (for testing).
func WithRunner(r Runner) Option {
	return func(s *Supervisor) {
		s.runner = r
	}
}

// WithProcTable sets the process table backend (for testing).
func WithProcTable(t ProcTable) Option {
	return func(s *Supervisor) {
		s.procs = t
	}
}

// WithExecutable sets an explicit browser executable path.
func WithExecutable(path string) Option {
	return func(s *Supervisor) {
		s.executable = path
	}
}

// WithStartTimeout bounds the liveness wait after spawning.
func WithStartTimeout(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.startTimeout = d
		}
	}
}

// WithGracePeriod bounds the voluntary-exit wait on graceful shutdown.
func WithGracePeriod(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.gracePeriod = d
		}
	}
}

// New creates a Supervisor.
func New(opts ...Option) *Supervisor {
	s := &Supervisor{
		runner:       NewRunner(),
		procs:        NewProcTable(),
		startTimeout: 10 * time.Second,
		gracePeriod:  10 * time.Second,
		pollTick:     100 * time.Millisecond,
		instances:    make(map[string]*instance),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Launch spawns a browser bound to the given profile. The configuration is
// validated before anything is spawned; a non-terminal instance for the
// profile fails the call with ErrAlreadyRunning. On success the instance
// has been confirmed alive and is in the Running state.
func (s *Supervisor) Launch(ctx context.Context, prof profile.Info, cfg browser.LaunchConfig) (Instance, error) {
	args, err := browser.BuildArgs(prof, cfg)
	if err != nil {
		return Instance{}, err
	}

	exe, err := browser.FindExecutable(s.executable)
	if err != nil {
		return Instance{}, err
	}

	s.mu.Lock()
	if existing, ok := s.instances[prof.ID]; ok && !existing.state.Terminal() {
		s.mu.Unlock()
		return Instance{}, fmt.Errorf("%w: %s", ErrAlreadyRunning, prof.ID)
	}
	inst := &instance{
		profileID: prof.ID,
		state:     StateStarting,
		startTime: time.Now(),
	}
	s.instances[prof.ID] = inst
	s.mu.Unlock()

	if err := browser.PrepareInstanceDir(prof); err != nil {
		s.transition(inst, StateStopped)
		return Instance{}, fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}

	proc, err := s.runner.Start(exe, args...)
	if err != nil {
		s.transition(inst, StateStopped)
		return Instance{}, fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}

	s.mu.Lock()
	inst.proc = proc
	inst.pid = proc.Pid()
	s.mu.Unlock()

	if err := s.awaitStartup(ctx, inst, proc); err != nil {
		return Instance{}, err
	}
	return s.snapshotOf(inst), nil
}

// awaitStartup polls the process table until the spawn is confirmed
// running or confirmed dead, bounded by the start timeout. On timeout or
// cancellation the instance stays in Starting; the caller abandons it
// via Shutdown.
func (s *Supervisor) awaitStartup(ctx context.Context, inst *instance, proc Proc) error {
	deadline := time.NewTimer(s.startTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(s.pollTick)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrLaunchAborted, ctx.Err())
		case <-proc.Done():
			s.transition(inst, StateStopped)
			return classifyStartupExit(proc)
		case <-deadline.C:
			return fmt.Errorf("%w after %s", ErrLaunchTimeout, s.startTimeout)
		case <-tick.C:
			handle, err := s.procs.Find(proc.Pid())
			if err != nil {
				// Process table hiccup or exit race; the Done channel
				// settles the dead case.
				continue
			}
			alive, err := handle.IsRunning()
			if err != nil || !alive {
				continue
			}
			s.transition(inst, StateRunning)
			return nil
		}
	}
}

// lockSignatures are stderr fragments the browser emits when the profile
// directory is held by another process.
var lockSignatures = []string{
	"SingletonLock",
	"ProcessSingleton",
	"profile is already in use",
	"The profile appears to be in use",
}

// classifyStartupExit inspects an immediate exit and distinguishes a held
// profile from a genuine launch failure.
func classifyStartupExit(proc Proc) error {
	stderr := proc.Stderr()
	for _, sig := range lockSignatures {
		if strings.Contains(stderr, sig) {
			return fmt.Errorf("%w: %s", ErrProfileLocked, firstLine(stderr))
		}
	}
	if exitErr := proc.ExitErr(); exitErr != nil {
		return fmt.Errorf("%w: %v", ErrLaunchFailed, exitErr)
	}
	// A clean immediate exit means the browser handed the launch off to
	// an instance already holding the data directory.
	return fmt.Errorf("%w: browser delegated to an already running instance", ErrProfileLocked)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}

// Poll refreshes liveness and resource samples for one profile's instance.
func (s *Supervisor) Poll(id string) (Instance, error) {
	s.mu.Lock()
	inst, ok := s.instances[id]
	s.mu.Unlock()
	if !ok {
		return Instance{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.pollInstance(inst)
	return s.snapshotOf(inst), nil
}

// PollAll refreshes every tracked instance and returns the snapshots.
func (s *Supervisor) PollAll() []Instance {
	s.mu.Lock()
	tracked := make([]*instance, 0, len(s.instances))
	for _, inst := range s.instances {
		tracked = append(tracked, inst)
	}
	s.mu.Unlock()

	for _, inst := range tracked {
		s.pollInstance(inst)
	}
	return s.ListRunning()
}

// pollInstance checks one instance against the OS and updates state and
// resource samples. A process found dead while Running becomes Crashed; a
// transient sampling failure clears the samples without touching state.
func (s *Supervisor) pollInstance(inst *instance) {
	s.mu.Lock()
	state := inst.state
	pid := inst.pid
	owned := inst.proc != nil
	adopted := inst.adopted
	s.mu.Unlock()

	if state.Terminal() {
		return
	}
	// A record with no process handle and no adoption mark is a spawn
	// still in flight; Launch settles its fate.
	if !owned && !adopted {
		return
	}

	alive := true
	sampled := false
	var cpu float64
	var mem uint64
	var cpuOK, memOK bool

	if owned && inst.exited() {
		alive = false
	} else if handle, err := s.procs.Find(pid); err != nil {
		if owned {
			alive = !inst.exited()
		} else {
			// Adopted instances have no wait channel; absence from the
			// process table is the only death signal.
			alive = false
		}
	} else if running, err := handle.IsRunning(); err == nil {
		alive = running
		if alive {
			sampled = true
			if v, err := handle.CPUPercent(); err == nil {
				cpu, cpuOK = v, true
			}
			if v, err := handle.MemoryRSS(); err == nil {
				mem, memOK = v, true
			}
		}
	}
	// A transient IsRunning error leaves alive=true and samples absent.

	s.mu.Lock()
	defer s.mu.Unlock()
	if !alive {
		switch inst.state {
		case StateRunning:
			inst.state = StateCrashed
		case StateStarting, StateStopping:
			inst.state = StateStopped
		}
		inst.cpuPercent = nil
		inst.memoryBytes = nil
		return
	}
	if sampled {
		inst.cpuPercent = nil
		inst.memoryBytes = nil
		if cpuOK {
			inst.cpuPercent = &cpu
		}
		if memOK {
			inst.memoryBytes = &mem
		}
	}
}

// Shutdown ends the instance for a profile. Graceful shutdown sends a
// terminate signal and waits up to the grace period before killing; a
// non-graceful shutdown kills immediately. Shutting down a profile with no
// live instance is a no-op.
func (s *Supervisor) Shutdown(id string, graceful bool) error {
	s.mu.Lock()
	inst, ok := s.instances[id]
	if !ok || inst.state.Terminal() {
		s.mu.Unlock()
		return nil
	}
	inst.state = StateStopping
	pid := inst.pid
	proc := inst.proc
	s.mu.Unlock()

	handle, err := s.procs.Find(pid)
	if err != nil {
		// Already gone.
		s.transition(inst, StateStopped)
		return nil
	}

	if graceful {
		if err := handle.Terminate(); err == nil {
			if s.waitExit(proc, handle, s.gracePeriod) {
				s.transition(inst, StateStopped)
				return nil
			}
		}
	}

	_ = handle.Kill()
	s.waitExit(proc, handle, s.gracePeriod)
	s.transition(inst, StateStopped)
	return nil
}

// StopAll shuts down every non-terminal instance.
func (s *Supervisor) StopAll(graceful bool) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.instances))
	for id, inst := range s.instances {
		if !inst.state.Terminal() {
			ids = append(ids, id)
		}
	}
	s.mu.Unlock()

	for _, id := range ids {
		_ = s.Shutdown(id, graceful)
	}
}

// waitExit waits for the process to end, bounded by timeout. Owned
// processes are waited on through their reap channel; adopted ones are
// polled against the process table.
func (s *Supervisor) waitExit(proc Proc, handle ProcHandle, timeout time.Duration) bool {
	if proc != nil {
		select {
		case <-proc.Done():
			return true
		case <-time.After(timeout):
			return false
		}
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		alive, err := handle.IsRunning()
		if err != nil || !alive {
			return true
		}
		time.Sleep(s.pollTick)
	}
	return false
}

// ListRunning returns snapshots of every tracked instance, ordered by
// profile id. The internal records are never exposed.
func (s *Supervisor) ListRunning() []Instance {
	s.mu.Lock()
	defer s.mu.Unlock()

	snaps := make([]Instance, 0, len(s.instances))
	for _, inst := range s.instances {
		snaps = append(snaps, inst.snapshot())
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ProfileID < snaps[j].ProfileID })
	return snaps
}

// Get returns the snapshot for one profile's instance.
func (s *Supervisor) Get(id string) (Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.instances[id]
	if !ok {
		return Instance{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return inst.snapshot(), nil
}

func (s *Supervisor) transition(inst *instance, state State) {
	s.mu.Lock()
	inst.state = state
	if state.Terminal() {
		inst.cpuPercent = nil
		inst.memoryBytes = nil
	}
	s.mu.Unlock()
}

func (s *Supervisor) snapshotOf(inst *instance) Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return inst.snapshot()
}
