//go:build !windows

package server

import (
	"fmt"
	"net"
	"os"

	"github.com/tasknap/tasknap/common"
)

// createListener binds the daemon's unix socket, falling back to
// loopback TCP when the socket cannot be created (no writable runtime
// dir, restricted container). TASKNAP_FORCE_TCP=1 skips the socket
// outright.
func (s *Server) createListener() (net.Listener, error) {
	if forceTCP() {
		s.log.Println("TCP transport forced by environment")
		return net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
	}

	path := socketPath()
	// A previous daemon that crashed leaves the socket file behind and
	// the fresh bind fails with "address already in use".
	_ = os.Remove(path)

	l, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		s.log.Println("unix socket bind failed:", err.Error())
		s.log.Println("falling back to TCP")
		tl, tcpErr := net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
		if tcpErr != nil {
			return nil, fmt.Errorf("error listening: %s", tcpErr.Error())
		}
		return tl, nil
	}

	setSocketPermissions(path)
	return l, nil
}
