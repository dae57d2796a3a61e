//go:build !windows

package napcli

import (
	"fmt"
	"net"
)

// dialURI connects to an explicitly addressed daemon. Unix builds
// handle the unix and tcp schemes; pipe URIs never parse here.
func dialURI(uri *DaemonURI) (net.Conn, error) {
	switch uri.Scheme {
	case SchemeUnix, SchemeTCP:
		return dialScheme(uri.Scheme, uri.Address)
	case SchemePipe:
		return nil, ErrPipeNotSupported
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, uri.Scheme)
	}
}
