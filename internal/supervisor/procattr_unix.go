//go:build !windows

package supervisor

import "syscall"

// detachedProcAttr starts the browser in its own session so it survives
// the CLI process and never shares our controlling terminal.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
