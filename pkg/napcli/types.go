package napcli

import (
	"encoding/json"

	"github.com/tasknap/tasknap/common"
)

// Request is one framed method call sent to the daemon.
type Request struct {
	Method  common.UpdateType `json:"method"`
	Message any               `json:"message,omitempty"`
}

// Response is one framed reply or push received from the daemon.
type Response struct {
	Ok     bool    `json:"ok"`
	Error  string  `json:"error,omitempty"`
	Update *Update `json:"update,omitempty"`
}

// Update carries the typed payload of a reply or push.
type Update struct {
	Type    common.UpdateType `json:"type"`
	Message json.RawMessage   `json:"message"`
}
