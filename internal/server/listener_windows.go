//go:build windows

package server

import (
	"fmt"
	"net"

	"github.com/Microsoft/go-winio"
	"github.com/tasknap/tasknap/common"
)

// pipeSecurityDescriptor limits pipe access to SYSTEM, the builtin
// Administrators group and the creator owner. Anyone who can open the
// pipe can schedule a shutdown, so the default Everyone ACL is too
// wide.
const pipeSecurityDescriptor = "D:(A;;GA;;;SY)(A;;GA;;;BA)(A;;GA;;;CO)"

// createListener binds the daemon's named pipe, falling back to
// loopback TCP when pipe creation fails. TASKNAP_FORCE_TCP=1 skips the
// pipe outright.
func (s *Server) createListener() (net.Listener, error) {
	if forceTCP() {
		s.log.Println("TCP transport forced by environment")
		return net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
	}

	cfg := &winio.PipeConfig{SecurityDescriptor: pipeSecurityDescriptor}
	l, err := winio.ListenPipe(pipePath(), cfg)
	if err != nil {
		s.log.Println("named pipe creation failed:", err.Error())
		s.log.Println("falling back to TCP (firewall prompts may occur)")
		tl, tcpErr := net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
		if tcpErr != nil {
			return nil, fmt.Errorf("error listening: %s", tcpErr.Error())
		}
		return tl, nil
	}
	return l, nil
}
