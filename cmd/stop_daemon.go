package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/tasknap/tasknap/internal/config"
	"github.com/tasknap/tasknap/internal/instance"
	"github.com/tasknap/tasknap/pkg/napcli"
)

func stopDaemon(ctx *cli.Context) error {
	// Graceful path first: ask the daemon over its socket
	if client, err := napcli.NewClientIfRunning(); err == nil {
		ok, serr := client.StopDaemon()
		client.Close()
		if serr == nil && ok {
			fmt.Println("Stop request sent, waiting for daemon to exit...")
			if waitForDaemonExit() {
				fmt.Println("Daemon stopped successfully")
				return nil
			}
			fmt.Println("Daemon still running after stop request, falling back to signal")
		}
	}

	dir, err := config.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating config dir: %v\n", err)
		return nil
	}
	pid, err := instance.ReadPid(dir, daemonProcName)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("Daemon is not running (PID file not found)")
			return nil
		}
		fmt.Fprintf(os.Stderr, "Error reading PID file: %v\n", err)
		return nil
	}

	fmt.Printf("Stopping daemon (PID %d)...\n", pid)

	if err := killDaemon(pid); err != nil {
		fmt.Fprintf(os.Stderr, "Error stopping daemon: %v\n", err)
		return nil
	}

	// The daemon removes its own pid file on the way out
	fmt.Println("Daemon stopped successfully")
	return nil
}

// waitForDaemonExit polls the pid file until the daemon exits or the
// stop timeout passes.
func waitForDaemonExit() bool {
	dir, err := config.DefaultDir()
	if err != nil {
		return false
	}
	deadline := time.Now().Add(DEF_STOP_TIMEOUT)
	for time.Now().Before(deadline) {
		pid, err := instance.ReadPid(dir, daemonProcName)
		if err != nil || !instance.ProcessRunning(pid) {
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}
