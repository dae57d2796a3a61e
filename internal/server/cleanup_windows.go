//go:build windows

package server

// cleanupSocket is a no-op on Windows. The named pipe disappears with
// its last handle, so there is never a stale endpoint to remove.
func cleanupSocket() error {
	return nil
}
