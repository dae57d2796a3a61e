//go:build !windows

package server

import "os"

// setSocketPermissions restricts the socket to its owner. Anyone who
// can write the socket can schedule a shutdown.
func setSocketPermissions(path string) {
	_ = os.Chmod(path, 0700)
}
