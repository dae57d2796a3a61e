//go:build windows

package instance

import (
	"os"

	"golang.org/x/sys/windows"
)

// Guard holds the single-instance claim until Release.
type Guard struct {
	path  string
	mutex windows.Handle
}

// Acquire claims the named instance via a named mutex. The mutex is
// the authoritative primitive; the pid file is still written so
// stop-daemon can find the process.
func Acquire(dir, name string) (*Guard, error) {
	mname, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, err
	}
	h, err := windows.CreateMutex(nil, false, mname)
	if err != nil {
		if h != 0 {
			windows.CloseHandle(h)
		}
		if err == windows.ERROR_ALREADY_EXISTS {
			return nil, ErrAlreadyRunning
		}
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		windows.CloseHandle(h)
		return nil, err
	}
	path := PidPath(dir, name)
	if err := writePidFile(path); err != nil {
		windows.CloseHandle(h)
		return nil, err
	}
	return &Guard{path: path, mutex: h}, nil
}

// Release drops the claim. Safe to call on an already-released guard.
func (g *Guard) Release() error {
	if g.mutex != 0 {
		windows.CloseHandle(g.mutex)
		g.mutex = 0
	}
	err := os.Remove(g.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// ProcessRunning checks if a process with the given pid is still
// running by opening it with minimal access rights.
func ProcessRunning(pid int) bool {
	handle, err := windows.OpenProcess(windows.SYNCHRONIZE, false, uint32(pid))
	if err != nil {
		return false
	}
	windows.CloseHandle(handle)
	return true
}
