// Package instance enforces the one-daemon-per-user rule. Acquire
// claims a named OS primitive (an exclusive pid file on Unix, a named
// mutex on Windows) and holds it for the process lifetime; a second
// daemon sees ErrAlreadyRunning before any scheduler state exists.
//
// The pid file doubles as the stop-daemon lookup: ReadPid tells the
// CLI which process to signal.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrAlreadyRunning is returned when the named instance primitive is
// held by a live process.
var ErrAlreadyRunning = errors.New("daemon is already running")

// PidPath returns the pid file path for the named instance under dir.
func PidPath(dir, name string) string {
	return filepath.Join(dir, name+".pid")
}

// ReadPid reads the pid recorded for the named instance.
func ReadPid(dir, name string) (int, error) {
	return readPidFile(PidPath(dir, name))
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid pid in %s: %w", path, err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid pid: %d", pid)
	}
	return pid, nil
}

func writePidFile(path string) error {
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644)
}
