package server

import (
	"log"
	"sync"
)

// Pool is the set of subscribed client connections. Attached CLI
// clients and web feed connections land here; push updates from the
// notifier go to every subscriber. Writes go through the SyncConn
// write lock so pushes and request responses never interleave.
type Pool struct {
	mu   *sync.RWMutex
	subs []*SyncConn
	log  *log.Logger
}

func NewPool(l *log.Logger) *Pool {
	return &Pool{
		mu:  &sync.RWMutex{},
		log: l,
	}
}

// Subscribe adds a connection to the broadcast set. Subscribing the
// same connection twice is a no-op.
func (p *Pool) Subscribe(conn *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, sc := range p.subs {
		if sc == conn {
			return
		}
	}
	p.subs = append(p.subs, conn)
}

// Unsubscribe removes a connection from the broadcast set without
// closing it; the connection's request loop owns the close.
func (p *Pool) Unsubscribe(conn *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, sc := range p.subs {
		if sc == conn {
			p.subs[i] = p.subs[len(p.subs)-1]
			p.subs = p.subs[:len(p.subs)-1]
			return
		}
	}
}

// Broadcast writes one frame to every subscriber. Subscribers whose
// write fails are dropped and closed; a push stream has no way to
// retry them.
func (p *Pool) Broadcast(data []byte) {
	p.mu.RLock()
	subs := make([]*SyncConn, len(p.subs))
	copy(subs, p.subs)
	p.mu.RUnlock()

	for _, sc := range subs {
		if err := sc.Write(data); err != nil {
			if p.log != nil {
				p.log.Println("dropping subscriber:", err.Error())
			}
			p.Unsubscribe(sc)
			_ = sc.Conn.Close()
		}
	}
}

// Count returns the number of subscribed connections.
func (p *Pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs)
}
