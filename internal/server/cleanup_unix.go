//go:build !windows

package server

import "os"

// cleanupSocket removes the socket file when the daemon stops. A file
// left behind is not fatal (the next start unlinks it before binding)
// but it would make isDaemonRunning probes dial a dead socket.
func cleanupSocket() error {
	err := os.Remove(socketPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
