package event

import (
	"errors"
	"testing"
	"time"

	"github.com/tasknap/tasknap/internal/power"
)

func TestRegistry_CreateAssignsMonotonicIds(t *testing.T) {
	r := NewRegistry()
	future := time.Now().Add(time.Hour)

	e1, err := r.Create(power.Shutdown, future)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	e2, err := r.Create(power.Sleep, future)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if e1.ID != 1 || e2.ID != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", e1.ID, e2.ID)
	}
	if e1.State != StateArmed {
		t.Errorf("state = %s, want %s", e1.State, StateArmed)
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

func TestRegistry_IdsNeverReused(t *testing.T) {
	r := NewRegistry()
	future := time.Now().Add(time.Hour)

	e1, _ := r.Create(power.Sleep, future)
	r.Remove(e1.ID)

	e2, _ := r.Create(power.Sleep, future)
	if e2.ID <= e1.ID {
		t.Errorf("id %d reused after removal of %d", e2.ID, e1.ID)
	}
}

func TestRegistry_CreateRejectsPastTime(t *testing.T) {
	r := NewRegistry()

	for _, at := range []time.Time{
		time.Now().Add(-time.Minute),
		time.Now().Add(-time.Millisecond),
	} {
		_, err := r.Create(power.Restart, at)
		if !errors.Is(err, ErrInvalidTime) {
			t.Errorf("Create(%v): err = %v, want ErrInvalidTime", at, err)
		}
	}
	if r.Len() != 0 {
		t.Errorf("rejected creates must not register events, Len = %d", r.Len())
	}
}

func TestRegistry_CreateImmediateBypassesValidation(t *testing.T) {
	r := NewRegistry()
	e := r.CreateImmediate(power.Sleep)
	if e == nil {
		t.Fatal("CreateImmediate returned nil")
	}
	if e.State != StateArmed {
		t.Errorf("state = %s, want %s", e.State, StateArmed)
	}
	if time.Since(e.FiresAt) > time.Second {
		t.Errorf("FiresAt should be about now, got %v", e.FiresAt)
	}
}

func TestRegistry_GetAndRemove(t *testing.T) {
	r := NewRegistry()
	e, _ := r.Create(power.Shutdown, time.Now().Add(time.Hour))

	got, ok := r.Get(e.ID)
	if !ok || got.ID != e.ID {
		t.Fatalf("Get(%d) = %v, %v", e.ID, got, ok)
	}

	r.Remove(e.ID)
	if _, ok := r.Get(e.ID); ok {
		t.Error("event still present after Remove")
	}

	// Removing twice is fine.
	r.Remove(e.ID)
	r.Remove(999)
}

func TestRegistry_ListAllOrdering(t *testing.T) {
	r := NewRegistry()
	base := time.Now().Add(time.Hour)

	late, _ := r.Create(power.Shutdown, base.Add(2*time.Hour))
	early, _ := r.Create(power.Sleep, base)
	tie, _ := r.Create(power.Restart, base.Add(2*time.Hour))

	got := r.ListAll()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != early.ID {
		t.Errorf("first = %d, want %d (earliest fires first)", got[0].ID, early.ID)
	}
	// Equal trigger times fall back to id order.
	if got[1].ID != late.ID || got[2].ID != tie.ID {
		t.Errorf("tie order = %d, %d, want %d, %d", got[1].ID, got[2].ID, late.ID, tie.ID)
	}
}

func TestState_Terminal(t *testing.T) {
	cases := map[State]bool{
		StateArmed:        false,
		StatePreNotifying: false,
		StateExecuted:     true,
		StateCanceled:     true,
	}
	for s, want := range cases {
		if s.Terminal() != want {
			t.Errorf("%s.Terminal() = %v, want %v", s, s.Terminal(), want)
		}
	}
}
