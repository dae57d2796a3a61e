package napcli

import (
	"encoding/json"

	"github.com/tasknap/tasknap/common"
)

// Handler defines the interface for processing daemon updates.
// Implementations receive raw JSON messages and are responsible for
// unmarshaling and processing them appropriately.
type Handler interface {
	Handle(json.RawMessage) error
}

// NewCountdownHandler creates a handler for countdown ticks. The action
// parameter filters ticks to those for the named power action; pass an
// empty string to receive all actions. The callback is invoked once per
// matching tick.
func NewCountdownHandler(action string, callback func(*common.CountdownUpdate) error) *CountdownHandler {
	return &CountdownHandler{
		Action:   action,
		Callback: callback,
	}
}

// CountdownHandler processes per-second countdown ticks pushed while an
// event is inside its pre-notification window.
type CountdownHandler struct {
	Action   string
	Callback func(*common.CountdownUpdate) error
}

// Handle unmarshals a countdown tick, applies the action filter, and
// invokes the callback when the tick matches.
func (h *CountdownHandler) Handle(m json.RawMessage) error {
	var v common.CountdownUpdate
	err := json.Unmarshal(m, &v)
	if err != nil {
		return err
	}
	if h.Action != "" && v.Action != h.Action {
		return nil
	}
	return h.Callback(&v)
}

// NewToastHandler creates a handler for toast pushes. The kind parameter
// filters toasts by classification; pass an empty kind to receive all.
func NewToastHandler(kind common.ToastKind, callback func(*common.ToastUpdate) error) *ToastHandler {
	return &ToastHandler{
		Kind:     kind,
		Callback: callback,
	}
}

// ToastHandler processes transient notification pushes from the daemon.
type ToastHandler struct {
	Kind     common.ToastKind
	Callback func(*common.ToastUpdate) error
}

func (h *ToastHandler) Handle(m json.RawMessage) error {
	var v common.ToastUpdate
	err := json.Unmarshal(m, &v)
	if err != nil {
		return err
	}
	if h.Kind != "" && v.Kind != h.Kind {
		return nil
	}
	return h.Callback(&v)
}

// NewEventHandler creates a handler for event lifecycle pushes, which
// carry the affected event. Register it for the scheduled, executed, or
// canceled update types.
func NewEventHandler(callback func(*common.EventInfo) error) *EventHandler {
	return &EventHandler{Callback: callback}
}

// EventHandler processes event lifecycle pushes from the daemon.
type EventHandler struct {
	Callback func(*common.EventInfo) error
}

func (h *EventHandler) Handle(m json.RawMessage) error {
	var v common.EventInfo
	err := json.Unmarshal(m, &v)
	if err != nil {
		return err
	}
	return h.Callback(&v)
}
