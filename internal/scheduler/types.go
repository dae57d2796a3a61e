package scheduler

import (
	"time"

	"github.com/tasknap/tasknap/internal/event"
	"github.com/tasknap/tasknap/internal/journal"
	"github.com/tasknap/tasknap/internal/power"
)

// Executor performs a power action against the operating system.
type Executor interface {
	Perform(action power.Action) error
}

// Notifier delivers countdown renders and toasts to whoever is
// listening. Both calls receive a snapshot of the event so listeners
// can key pushes by id. ShowCountdown reports whether the user asked
// to cancel; implementations that cannot collect input return false.
type Notifier interface {
	ShowCountdown(ev event.Event) bool
	ShowToast(ev event.Event, title, message string)
}

// Journal records event outcomes. Implementations must tolerate being
// called from the scheduler goroutine without blocking for long.
type Journal interface {
	Append(r journal.Record) error
}

// Config supplies the settings the scheduler consults at fire time.
// Values are re-read on every call so edits made while an event is
// armed take effect without a restart.
type Config interface {
	NotifyEnabled() bool
	NotifyLeadSeconds() int
	LoggingEnabled() bool
}

// timerEntry is one pending wake in the heap. Entries are never
// mutated after push; cancellation removes them or lets them fire
// stale and be dropped.
type timerEntry struct {
	eventID int64
	wakeAt  time.Time
}

type scheduleResult struct {
	ev  *event.Event
	err error
}

type scheduleRequest struct {
	action  power.Action
	firesAt time.Time
	every   string
	reply   chan scheduleResult
}

type triggerRequest struct {
	action power.Action
	reply  chan scheduleResult
}

type cancelRequest struct {
	id    int64
	reply chan error
}

type cancelAllRequest struct {
	reply chan int
}

type listRequest struct {
	reply chan []event.Event
}

type pendingRequest struct {
	id    int64
	reply chan bool
}

type lenRequest struct {
	reply chan int
}
