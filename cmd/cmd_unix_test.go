//go:build !windows

package cmd

import (
	"net"
	"os"
	"testing"
)

// createTestListener backs the fake daemon with a Unix socket, the
// transport the real daemon prefers off Windows. A stale socket file
// from a previous run would fail the bind, so it is removed first.
func createTestListener(t *testing.T, socketPath string) (net.Listener, error) {
	t.Helper()
	_ = os.Remove(socketPath)
	return net.Listen("unix", socketPath)
}

func TestGetPlatformCommands_NonWindows(t *testing.T) {
	cmds := getPlatformCommands()
	if len(cmds) != 0 {
		t.Fatalf("service management is windows-only, got %d extra commands", len(cmds))
	}
}
