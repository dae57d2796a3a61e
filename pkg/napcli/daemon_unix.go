//go:build !windows

package napcli

import "syscall"

// daemonSysProcAttr puts the spawned daemon in its own process group
// so shell job control and the CLI's exit never signal it.
func daemonSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}
