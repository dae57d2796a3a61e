//go:build !windows

package instance

import (
	"os"
	"strconv"
	"syscall"
)

// Guard holds the single-instance claim until Release.
type Guard struct {
	path string
}

// Acquire claims the named instance by creating its pid file
// exclusively. A leftover file whose recorded pid is no longer alive
// is treated as stale, removed, and the claim retried once.
func Acquire(dir, name string) (*Guard, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	path := PidPath(dir, name)
	for attempt := 0; attempt < 2; attempt++ {
		err := createPidFile(path)
		if err == nil {
			return &Guard{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, err
		}
		pid, rerr := readPidFile(path)
		if rerr == nil && ProcessRunning(pid) {
			return nil, ErrAlreadyRunning
		}
		// Stale or unreadable leftover from a dead daemon; reclaim it
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			return nil, rmErr
		}
	}
	return nil, ErrAlreadyRunning
}

func createPidFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	_, werr := f.WriteString(strconv.Itoa(os.Getpid()))
	cerr := f.Close()
	if werr != nil {
		os.Remove(path)
		return werr
	}
	if cerr != nil {
		os.Remove(path)
		return cerr
	}
	return nil
}

// Release drops the claim. Safe to call on an already-released guard.
func (g *Guard) Release() error {
	err := os.Remove(g.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// ProcessRunning checks if a process with the given pid is still
// running. Signal 0 doesn't actually send a signal but checks if the
// process exists.
func ProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
