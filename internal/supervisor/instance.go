package supervisor

import "time"

// State is the lifecycle state of a supervised browser instance.
type State string

const (
	// StateStarting means the process was spawned but not yet confirmed alive.
	StateStarting State = "starting"
	// StateRunning means the process is confirmed alive.
	StateRunning State = "running"
	// StateStopping means a graceful shutdown is in progress.
	StateStopping State = "stopping"
	// StateStopped means the process exited on request or failed to start.
	StateStopped State = "stopped"
	// StateCrashed means the process died without being asked to stop.
	StateCrashed State = "crashed"
)

// Terminal reports whether the state is final. A profile with only a
// terminal instance may be launched again.
func (s State) Terminal() bool {
	return s == StateStopped || s == StateCrashed
}

// Instance is a read-only snapshot of one supervised process. The
// supervisor owns the live record; callers only ever see copies.
type Instance struct {
	ProfileID string    `json:"profile_id"`
	PID       int       `json:"pid"`
	StartTime time.Time `json:"start_time"`
	State     State     `json:"state"`
	// CPUPercent and MemoryBytes are the last sampled resource figures,
	// nil when the most recent OS query failed or none has run yet.
	CPUPercent  *float64 `json:"cpu_percent,omitempty"`
	MemoryBytes *uint64  `json:"memory_bytes,omitempty"`
	// Adopted marks instances discovered in the OS process table rather
	// than launched by this supervisor.
	Adopted bool `json:"adopted,omitempty"`
}

// instance is the mutable internal record. All fields are guarded by the
// supervisor mutex except proc, which is immutable after launch.
type instance struct {
	profileID string
	pid       int
	startTime time.Time
	state     State

	cpuPercent  *float64
	memoryBytes *uint64
	adopted     bool

	// proc is the owned process handle; nil for adopted instances.
	proc Proc
}

// snapshot copies the record into an immutable Instance.
func (in *instance) snapshot() Instance {
	snap := Instance{
		ProfileID: in.profileID,
		PID:       in.pid,
		StartTime: in.startTime,
		State:     in.state,
		Adopted:   in.adopted,
	}
	if in.cpuPercent != nil {
		v := *in.cpuPercent
		snap.CPUPercent = &v
	}
	if in.memoryBytes != nil {
		v := *in.memoryBytes
		snap.MemoryBytes = &v
	}
	return snap
}

// exited reports whether an owned process has been reaped. Adopted
// instances have no wait channel and always report false here; their
// liveness comes from the process table.
func (in *instance) exited() bool {
	if in.proc == nil {
		return false
	}
	select {
	case <-in.proc.Done():
		return true
	default:
		return false
	}
}
