package supervisor

import (
	"bytes"
	"os/exec"
	"sync"
)

// Runner spawns detached browser processes. The interface exists so tests
// can substitute a fake without executing binaries.
type Runner interface {
	// Start spawns the executable detached from the current session and
	// begins reaping it in the background.
	Start(name string, args ...string) (Proc, error)
}

// Proc is a spawned process owned by the supervisor.
type Proc interface {
	// Pid returns the OS process id.
	Pid() int
	// Done is closed once the process has exited and been reaped.
	Done() <-chan struct{}
	// ExitErr returns the wait error; only valid after Done is closed.
	ExitErr() error
	// Stderr returns the captured standard error output so far.
	Stderr() string
}

// NewRunner creates the real os/exec backed runner.
func NewRunner() Runner {
	return &execRunner{}
}

type execRunner struct{}

func (r *execRunner) Start(name string, args ...string) (Proc, error) {
	cmd := exec.Command(name, args...)
	cmd.SysProcAttr = detachedProcAttr()

	stderr := &lockedBuffer{}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	p := &execProc{
		pid:    cmd.Process.Pid,
		stderr: stderr,
		done:   make(chan struct{}),
	}
	go func() {
		p.exitErr = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

type execProc struct {
	pid     int
	stderr  *lockedBuffer
	done    chan struct{}
	exitErr error
}

func (p *execProc) Pid() int              { return p.pid }
func (p *execProc) Done() <-chan struct{} { return p.done }
func (p *execProc) ExitErr() error        { return p.exitErr }
func (p *execProc) Stderr() string        { return p.stderr.String() }

// lockedBuffer is a mutex-guarded buffer; the child writes stderr from the
// reaper goroutine while the launch path reads it for classification.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	// Cap the capture; Chrome can be chatty and only the first lines
	// matter for failure classification.
	const maxCapture = 64 * 1024
	if b.buf.Len() >= maxCapture {
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
