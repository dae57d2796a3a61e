// Package watchdog turns sustained user inactivity into a sleep event.
// A fixed-interval poll compares the idle probe against the configured
// auto-sleep timeout and hands the trigger to the scheduler, which
// applies the usual pre-notification countdown before sleeping.
package watchdog

import (
	"context"
	"time"

	"github.com/tasknap/tasknap/internal/event"
	"github.com/tasknap/tasknap/internal/idle"
	"github.com/tasknap/tasknap/internal/power"
	"github.com/tasknap/tasknap/pkg/logger"
)

// DefaultInterval is the poll cadence. It is intentionally not
// user-configurable; the timeout is, the sampling rate is not.
const DefaultInterval = 30 * time.Second

// Scheduler is the slice of the scheduler the watchdog drives.
type Scheduler interface {
	TriggerNow(action power.Action) (*event.Event, error)
	Pending(id int64) bool
}

// Config supplies the auto-sleep settings, re-read on every poll so
// toggling auto-sleep takes effect without a restart.
type Config interface {
	AutoSleepEnabled() bool
	AutoSleepMinutes() int
}

// Deps are the watchdog's collaborators. Scheduler must be set; nil
// Config disables auto-sleep, nil Probe uses the OS idle probe, zero
// Interval uses DefaultInterval.
type Deps struct {
	Scheduler Scheduler
	Config    Config
	Probe     func() int
	Interval  time.Duration
	Log       logger.Logger
}

// Watchdog polls the idle probe and triggers at most one sleep event
// at a time.
type Watchdog struct {
	ctx       context.Context
	scheduler Scheduler
	cfg       Config
	probe     func() int
	interval  time.Duration
	log       logger.Logger

	// pendingID is the sleep event the watchdog last triggered, 0 when
	// none is outstanding. Only the run goroutine touches it.
	pendingID int64
}

// New creates and starts a Watchdog. The poll goroutine exits when ctx
// is cancelled.
func New(ctx context.Context, deps Deps) *Watchdog {
	if deps.Config == nil {
		deps.Config = disabledConfig{}
	}
	if deps.Probe == nil {
		deps.Probe = idle.Seconds
	}
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	if deps.Log == nil {
		deps.Log = logger.NewNopLogger()
	}
	w := &Watchdog{
		ctx:       ctx,
		scheduler: deps.Scheduler,
		cfg:       deps.Config,
		probe:     deps.Probe,
		interval:  deps.Interval,
		log:       deps.Log,
	}
	go w.run()
	return w
}

// run serializes polls on one ticker so a poll never overlaps itself.
func (w *Watchdog) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *Watchdog) poll() {
	// One outstanding sleep event at a time; the guard clears once the
	// event executes or is canceled
	if w.pendingID != 0 {
		if w.scheduler.Pending(w.pendingID) {
			return
		}
		w.pendingID = 0
	}
	if !w.cfg.AutoSleepEnabled() {
		return
	}
	limit := w.cfg.AutoSleepMinutes() * 60
	if limit <= 0 {
		return
	}
	idleSecs := w.probe()
	if idleSecs < limit {
		return
	}
	ev, err := w.scheduler.TriggerNow(power.Sleep)
	if err != nil {
		w.log.Error("idle sleep trigger: %v", err)
		return
	}
	w.pendingID = ev.ID
	w.log.Info("idle for %ds (limit %ds), sleep triggered (event %d)", idleSecs, limit, ev.ID)
}

type disabledConfig struct{}

func (disabledConfig) AutoSleepEnabled() bool { return false }
func (disabledConfig) AutoSleepMinutes() int  { return 0 }

var _ Config = disabledConfig{}
