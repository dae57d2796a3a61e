package server

import (
	"encoding/json"

	"github.com/tasknap/tasknap/common"
)

// Response is the body of every frame the daemon writes. Command
// replies carry Ok plus an Update echoing the request method; pushed
// updates (countdown ticks, toasts, event transitions) reuse the same
// shape so attached subscribers decode one format.
type Response struct {
	Ok     bool    `json:"ok"`
	Error  string  `json:"error,omitempty"`
	Update *Update `json:"update,omitempty"`
}

// Update pairs a payload with the method or push kind it answers.
type Update struct {
	Type    common.UpdateType `json:"type"`
	Message any               `json:"message,omitempty"`
}

// MakeResult encodes a successful response for utype. Marshal errors
// cannot happen for the payload types the api layer produces, so the
// error is dropped rather than threaded through every handler.
func MakeResult(utype common.UpdateType, res any) []byte {
	b, _ := json.Marshal(Response{
		Ok: true,
		Update: &Update{
			Type:    utype,
			Message: res,
		},
	})
	return b
}

// InitError encodes err as a failure response.
func InitError(err error) []byte {
	if err == nil {
		return CreateError("Unknown")
	}
	return CreateError(err.Error())
}

// CreateError encodes a failure response with the given message. The
// client surfaces it verbatim through PrintRuntimeErr.
func CreateError(err string) []byte {
	b, _ := json.Marshal(Response{
		Ok:    false,
		Error: err,
	})
	return b
}
