//go:build windows

package napcli

import (
	"fmt"
	"net"
	"strconv"
	"testing"

	"github.com/tasknap/tasknap/common"
)

// createTestListener stands in for a daemon endpoint. Windows tests run
// everything over loopback TCP, so the returned path is empty and the
// env pins clients to the listener's port.
func createTestListener(t *testing.T) (net.Listener, string, error) {
	t.Helper()

	listener, err := net.Listen("tcp", fmt.Sprintf("%s:0", common.TCPHost))
	if err != nil {
		return nil, "", err
	}

	t.Setenv(common.ForceTCPEnv, "1")
	t.Setenv(common.TCPPortEnv, strconv.Itoa(listener.Addr().(*net.TCPAddr).Port))

	return listener, "", nil
}
