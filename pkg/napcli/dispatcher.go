package napcli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tasknap/tasknap/common"
)

// Dispatcher routes pushed updates to their registered handlers.
// Multiple handlers may be registered for one update type; they run
// in registration order.
type Dispatcher struct {
	Handlers map[common.UpdateType][]Handler
}

// ErrDisconnect can be returned by a handler to stop the listen loop
// without reporting an error.
var ErrDisconnect error = errors.New("disconnect")

// AddHandler registers a handler for the given update type.
func (d *Dispatcher) AddHandler(utype common.UpdateType, h Handler) {
	if d.Handlers == nil {
		d.Handlers = make(map[common.UpdateType][]Handler)
	}
	d.Handlers[utype] = append(d.Handlers[utype], h)
}

func (d *Dispatcher) process(buf []byte) error {
	var res Response
	err := json.Unmarshal(buf, &res)
	if err != nil {
		return fmt.Errorf("failed to parse (%s): '%s'", err.Error(), string(buf))
	}
	if !res.Ok {
		return errors.New(res.Error)
	}
	handlers, ok := d.Handlers[res.Update.Type]
	if !ok || len(handlers) == 0 {
		return fmt.Errorf("no handler for update type: %s", res.Update.Type)
	}
	for _, h := range handlers {
		if err := h.Handle(res.Update.Message); err != nil {
			return err
		}
	}
	return nil
}
