package napcli

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/tasknap/tasknap/common"
)

// Frames on the daemon socket are a 4-byte little-endian length
// followed by the JSON payload. The same framing carries requests,
// replies and pushed updates, so read is used both by call/response
// methods and by the Listen loop.

// read consumes one frame. The size is checked against
// common.MaxMessageSize before the payload buffer is allocated.
func read(conn net.Conn) ([]byte, error) {
	var head [4]byte
	if _, err := io.ReadFull(conn, head[:]); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(head[:])
	if size > common.MaxMessageSize {
		return nil, fmt.Errorf("payload too large: %d", size)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(conn, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// write emits one frame as a single Write so message-boundary
// transports such as named pipes never see a split frame.
func write(conn net.Conn, b []byte) error {
	if len(b) > common.MaxMessageSize {
		return fmt.Errorf("payload too large: %d", len(b))
	}
	frame := make([]byte, 4+len(b))
	binary.LittleEndian.PutUint32(frame, uint32(len(b)))
	copy(frame[4:], b)
	_, err := conn.Write(frame)
	return err
}
