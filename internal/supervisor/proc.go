package supervisor

import (
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcHandle queries and signals one OS process. Backed by gopsutil in
// production; tests substitute fakes.
type ProcHandle interface {
	// IsRunning reports whether the process still exists.
	IsRunning() (bool, error)
	// CPUPercent returns the process CPU usage percentage.
	CPUPercent() (float64, error)
	// MemoryRSS returns the resident set size in bytes.
	MemoryRSS() (uint64, error)
	// Terminate requests a graceful exit (SIGTERM on Unix).
	Terminate() error
	// Kill forcibly ends the process.
	Kill() error
}

// ProcInfo describes one entry of the OS process table.
type ProcInfo struct {
	PID        int
	Name       string
	Cmdline    []string
	CreateTime time.Time
}

// ProcTable is the supervisor's view of the OS process table.
type ProcTable interface {
	// Find returns a handle for the given pid.
	Find(pid int) (ProcHandle, error)
	// Snapshot lists all visible processes. Entries whose attributes
	// cannot be read are omitted rather than failing the listing.
	Snapshot() ([]ProcInfo, error)
}

// NewProcTable creates the real gopsutil backed process table.
func NewProcTable() ProcTable {
	return &psTable{}
}

type psTable struct{}

func (t *psTable) Find(pid int) (ProcHandle, error) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, err
	}
	return &psHandle{proc: p}, nil
}

func (t *psTable) Snapshot() ([]ProcInfo, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	infos := make([]ProcInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		cmdline, err := p.CmdlineSlice()
		if err != nil {
			continue
		}
		info := ProcInfo{
			PID:     int(p.Pid),
			Name:    name,
			Cmdline: cmdline,
		}
		if created, err := p.CreateTime(); err == nil {
			info.CreateTime = time.UnixMilli(created)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

type psHandle struct {
	proc *process.Process
}

func (h *psHandle) IsRunning() (bool, error) {
	return h.proc.IsRunning()
}

func (h *psHandle) CPUPercent() (float64, error) {
	return h.proc.CPUPercent()
}

func (h *psHandle) MemoryRSS() (uint64, error) {
	info, err := h.proc.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return info.RSS, nil
}

func (h *psHandle) Terminate() error {
	return h.proc.Terminate()
}

func (h *psHandle) Kill() error {
	return h.proc.Kill()
}
