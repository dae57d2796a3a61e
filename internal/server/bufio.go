package server

import (
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/tasknap/tasknap/common"
)

func intToBytes(v uint32) []byte {
	b := make([]byte, 4)
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	return b
}

func bytesToInt(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// read consumes one length-prefixed frame. Sizes above
// common.MaxMessageSize are rejected before any allocation so a
// corrupt or hostile peer cannot make us reserve gigabytes.
func read(mu *sync.Mutex, conn net.Conn) ([]byte, error) {
	mu.Lock()
	defer mu.Unlock()
	head := make([]byte, 4)
	if _, err := io.ReadFull(conn, head); err != nil {
		return nil, err
	}
	size := bytesToInt(head)
	if size > common.MaxMessageSize {
		return nil, fmt.Errorf("payload too large: %d bytes", size)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(conn, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// write emits one frame with a single Write call so a frame is never
// torn across transports that preserve write boundaries.
func write(mu *sync.Mutex, conn net.Conn, b []byte) error {
	if len(b) > common.MaxMessageSize {
		return fmt.Errorf("payload too large: %d bytes", len(b))
	}
	mu.Lock()
	defer mu.Unlock()
	frame := make([]byte, 0, 4+len(b))
	frame = append(frame, intToBytes(uint32(len(b)))...)
	frame = append(frame, b...)
	_, err := conn.Write(frame)
	return err
}
