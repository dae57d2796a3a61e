package event

import (
	"sort"
	"time"

	"github.com/tasknap/tasknap/internal/power"
)

// Registry holds all pending (non-terminal) events keyed by id.
// Ids are assigned monotonically and never reused for the lifetime of
// the process.
//
// Registry is not safe for concurrent use. The scheduler goroutine owns
// it; everything else reaches it through scheduler requests.
type Registry struct {
	nextID int64
	events map[int64]*Event
}

// NewRegistry returns an empty registry. The first assigned id is 1.
func NewRegistry() *Registry {
	return &Registry{events: make(map[int64]*Event)}
}

// Create validates firesAt and registers a new armed event.
// Returns ErrInvalidTime when firesAt is not strictly in the future.
func (r *Registry) Create(action power.Action, firesAt time.Time) (*Event, error) {
	now := time.Now()
	if !firesAt.After(now) {
		return nil, ErrInvalidTime
	}
	return r.add(action, firesAt, now), nil
}

// CreateImmediate registers an armed event firing now, bypassing the
// future-time validation. This is the entry point for watchdog-triggered
// actions, which would otherwise be rejected as "not in the future".
func (r *Registry) CreateImmediate(action power.Action) *Event {
	now := time.Now()
	return r.add(action, now, now)
}

func (r *Registry) add(action power.Action, firesAt, now time.Time) *Event {
	r.nextID++
	e := &Event{
		ID:        r.nextID,
		Action:    action,
		FiresAt:   firesAt,
		State:     StateArmed,
		CreatedAt: now,
	}
	r.events[e.ID] = e
	return e
}

// Get returns the pending event with the given id.
func (r *Registry) Get(id int64) (*Event, bool) {
	e, ok := r.events[id]
	return e, ok
}

// Remove deletes the event with the given id. Removing an absent id is
// a no-op.
func (r *Registry) Remove(id int64) {
	delete(r.events, id)
}

// ListAll returns a snapshot of all pending events ordered by trigger
// time, ties broken by id.
func (r *Registry) ListAll() []Event {
	out := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FiresAt.Equal(out[j].FiresAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].FiresAt.Before(out[j].FiresAt)
	})
	return out
}

// Len returns the number of pending events.
func (r *Registry) Len() int {
	return len(r.events)
}
