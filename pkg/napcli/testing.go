package napcli

import "net"

// NewClientForTesting wraps an arbitrary net.Conn, usually one half of
// a net.Pipe, so tests can drive the protocol without a daemon.
func NewClientForTesting(conn net.Conn) *Client {
	return newClient(conn)
}

// ReadForTesting and WriteForTesting expose the frame codec to tests
// that fake the daemon side of a connection.
func ReadForTesting(conn net.Conn) ([]byte, error) {
	return read(conn)
}

func WriteForTesting(conn net.Conn, data []byte) error {
	return write(conn, data)
}
