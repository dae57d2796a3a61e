// Package event tracks pending power events. The Registry is pure
// bookkeeping: it owns id assignment and the id-to-event map, and knows
// nothing about timers, the OS, or notification surfaces.
package event

import (
	"errors"
	"time"

	"github.com/tasknap/tasknap/internal/power"
)

var (
	// ErrInvalidTime is returned when a requested trigger time is not
	// strictly in the future.
	ErrInvalidTime = errors.New("scheduled time must be in the future")

	// ErrNotFound is returned when an event id does not name a pending event.
	ErrNotFound = errors.New("event not found")
)

// State is the lifecycle state of an event.
type State string

const (
	// StateArmed means the event is waiting for its trigger time.
	StateArmed State = "armed"

	// StatePreNotifying means the warning countdown is running.
	StatePreNotifying State = "prenotifying"

	// StateExecuted is terminal: the power action was invoked.
	StateExecuted State = "executed"

	// StateCanceled is terminal: the event was canceled before executing.
	StateCanceled State = "canceled"
)

// Terminal reports whether the state is final.
// Terminal events are removed from the registry immediately, so a
// registry never holds one; the state still appears in journal entries
// and push updates.
func (s State) Terminal() bool {
	return s == StateExecuted || s == StateCanceled
}

// Event is a single scheduled power action.
type Event struct {
	ID      int64
	Action  power.Action
	FiresAt time.Time
	State   State

	// Every holds an optional cron expression. After the event executes,
	// a fresh event is armed at the next occurrence.
	Every string

	// Remaining is the number of countdown seconds left and Total the
	// full countdown length, fixed when the countdown starts. Both are
	// meaningful only in StatePreNotifying.
	Remaining int
	Total     int

	CreatedAt time.Time
}
