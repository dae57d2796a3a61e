//go:build windows

package cmd

import (
	"fmt"
	"os"
	"time"
)

// killDaemon interrupts the daemon and waits for it to exit. Windows
// cannot deliver SIGTERM, so interrupt is tried first with Kill as the
// fallback.
func killDaemon(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("process not found: %w", err)
	}

	if err := process.Signal(os.Interrupt); err != nil {
		// Interrupt delivery is not supported for every process
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to stop daemon: %w", err)
		}
		return nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := process.Wait()
		done <- err
	}()

	select {
	case <-done:
		return nil
	case <-time.After(DEF_STOP_TIMEOUT):
		fmt.Println("Graceful shutdown timeout, forcing kill...")
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill daemon: %w", err)
		}
		return nil
	}
}
