package server

import (
	"encoding/json"

	"github.com/tasknap/tasknap/common"
)

// Request is the body of every frame a client writes: the method
// names the operation and Message carries its parameters, decoded by
// the registered handler.
type Request struct {
	Method  common.UpdateType `json:"method"`
	Message json.RawMessage   `json:"message,omitempty"`
}

func ParseRequest(b []byte) (*Request, error) {
	var r Request
	return &r, json.Unmarshal(b, &r)
}
