//go:build windows

package napcli

import "syscall"

// daemonSysProcAttr needs no process-group detach on Windows; a
// started process is already independent of the launching console.
func daemonSysProcAttr() *syscall.SysProcAttr {
	return nil
}
