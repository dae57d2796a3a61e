package napcli

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/tasknap/tasknap/common"
)

const (
	defaultDaemonStartTimeout = 10 * time.Second
	socketPollInterval        = 50 * time.Millisecond
	socketDialTimeout         = 100 * time.Millisecond
)

// getDaemonStartTimeout returns how long to wait for a spawned daemon.
// The TASKNAP_DAEMON_TIMEOUT environment variable overrides the default;
// invalid or non-positive values fall back to it.
func getDaemonStartTimeout() time.Duration {
	if v := os.Getenv(common.DaemonTimeoutEnv); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return defaultDaemonStartTimeout
}

// ensureDaemon checks if the daemon is running and spawns it if not.
// Returns nil if daemon is running or was successfully started.
func ensureDaemon() error {
	if os.Getenv(common.SkipSpawnEnv) != "" {
		return nil
	}

	path := getConnectionPath()

	// Quick check: can we connect?
	if isDaemonRunning(path) {
		return nil
	}

	// Spawn daemon
	if err := spawnDaemon(); err != nil {
		return err
	}

	// Wait for socket to become available
	return waitForSocket(path, getDaemonStartTimeout())
}

// spawnDaemon re-execs the current binary with the daemon argument,
// detached so it outlives the CLI invocation that started it.
func spawnDaemon() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	cmd := exec.Command(exe, "daemon")
	cmd.SysProcAttr = daemonSysProcAttr()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	// Drop our handle on the child so the CLI never has to reap it.
	return cmd.Process.Release()
}

// waitForSocket polls until the socket/pipe becomes available or timeout expires.
func waitForSocket(path string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if isDaemonRunning(path) {
			return nil
		}
		time.Sleep(socketPollInterval)
	}
	return fmt.Errorf("daemon failed to start within %v", timeout)
}
