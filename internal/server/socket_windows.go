//go:build windows

package server

import (
	"github.com/tasknap/tasknap/common"
)

// pipePath resolves the daemon's named pipe endpoint, honoring the
// TASKNAP_PIPE_NAME override the same way clients do.
func pipePath() string {
	return common.PipePath()
}
