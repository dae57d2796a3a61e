package cmd

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
)

// TickCounter accumulates countdown progress between display refreshes.
// Countdown pushes arrive once per second from the daemon; the worker
// flushes the accumulated seconds to the bar at the display refresh
// rate so the ETA decorator tracks the real remaining time.
type TickCounter struct {
	ticker *time.Ticker
	// seconds per cycle
	spc int64
	// refresh rate
	refreshRate time.Duration
	// guards bar
	mu  sync.RWMutex
	bar *mpb.Bar
	// last flush instant, touched only by the worker
	last time.Time
}

func NewTickCounter(refreshRate time.Duration) *TickCounter {
	tc := TickCounter{
		ticker:      time.NewTicker(refreshRate),
		refreshRate: refreshRate,
	}
	return &tc
}

func (s *TickCounter) SetBar(bar *mpb.Bar) {
	s.mu.Lock()
	s.bar = bar
	s.mu.Unlock()
}

func (s *TickCounter) Start() {
	s.last = time.Now()
	go s.worker()
}

func (s *TickCounter) IncrBy(n int) {
	atomic.AddInt64(&s.spc, int64(n))
}

func (s *TickCounter) Stop() {
	s.ticker.Stop()
}

func (s *TickCounter) worker() {
	for range s.ticker.C {
		if atomic.LoadInt64(&s.spc) == 0 {
			continue
		}
		s.mu.RLock()
		bar := s.bar
		s.mu.RUnlock()
		if bar == nil {
			continue
		}
		n := atomic.SwapInt64(&s.spc, 0)
		now := time.Now()
		bar.EwmaIncrInt64(n, now.Sub(s.last))
		s.last = now
	}
}
