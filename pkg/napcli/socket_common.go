package napcli

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"

	"github.com/tasknap/tasknap/common"
)

// tcpPort returns the TCP fallback port, honoring TASKNAP_TCP_PORT.
func tcpPort() int {
	v := os.Getenv(common.TCPPortEnv)
	if v == "" {
		return common.DefaultTCPPort
	}
	if p, err := strconv.Atoi(v); err == nil && p >= 1 && p <= 65535 {
		return p
	}
	debugLog("ignoring invalid TCP port %q, using %d", v, common.DefaultTCPPort)
	return common.DefaultTCPPort
}

// tcpAddress returns the loopback fallback endpoint, "{host}:{port}".
func tcpAddress() string {
	return fmt.Sprintf("%s:%d", common.TCPHost, tcpPort())
}

// forceTCP reports whether TASKNAP_FORCE_TCP=1 disables the native
// socket or pipe transport.
func forceTCP() bool {
	return os.Getenv(common.ForceTCPEnv) == "1"
}

func debugMode() bool {
	return os.Getenv(common.DebugEnv) == "1"
}

// debugLog prints connection tracing when TASKNAP_DEBUG=1.
func debugLog(format string, args ...any) {
	if debugMode() {
		log.Printf(format, args...)
	}
}

// dialScheme dials one explicit transport for dialURI, wrapping
// failures with the transport name.
func dialScheme(network, addr string) (net.Conn, error) {
	debugLog("connecting via %s to %s", network, addr)
	conn, err := dialFunc(network, addr)
	if err != nil {
		return nil, fmt.Errorf("%s connection failed: %w", network, err)
	}
	debugLog("connected via %s", network)
	return conn, nil
}
