//go:build windows

package napcli

import (
	"fmt"
	"net"

	"github.com/tasknap/tasknap/common"
)

// dialURI connects to an explicitly addressed daemon. Windows builds
// handle the pipe and tcp schemes; unix URIs never parse here.
func dialURI(uri *DaemonURI) (net.Conn, error) {
	switch uri.Scheme {
	case SchemePipe:
		debugLog("connecting via named pipe to %s", uri.Address)
		timeout := common.DefaultDialTimeout
		conn, err := dialPipeFunc(uri.Address, &timeout)
		if err != nil {
			return nil, fmt.Errorf("pipe connection failed: %w", err)
		}
		return conn, nil
	case SchemeTCP:
		return dialScheme(SchemeTCP, uri.Address)
	case SchemeUnix:
		return nil, ErrUnixNotSupported
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, uri.Scheme)
	}
}
