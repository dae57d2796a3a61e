package server

import (
	"net"
	"sync"
)

// SyncConn guards one client connection with separate read and write
// locks. The per-connection serve loop is the only reader, but writes
// come from two sides at once: command replies from that loop and
// pushed updates from Pool.Broadcast. The write lock keeps a broadcast
// frame from tearing a reply frame.
type SyncConn struct {
	Conn     net.Conn
	rmu, wmu sync.Mutex
}

func NewSyncConn(conn net.Conn) *SyncConn {
	return &SyncConn{Conn: conn}
}

func (s *SyncConn) Write(b []byte) error {
	return write(&s.wmu, s.Conn, b)
}

func (s *SyncConn) Read() ([]byte, error) {
	return read(&s.rmu, s.Conn)
}
