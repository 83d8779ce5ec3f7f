//go:build windows

package supervisor

import "syscall"

const createNewProcessGroup = 0x00000200

// detachedProcAttr starts the browser in its own process group so console
// signals aimed at the CLI never reach it.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: createNewProcessGroup}
}
