package server

import (
	"os"
	"path/filepath"

	"github.com/tasknap/tasknap/common"
)

const defaultSocketName = "tasknap.sock"

func socketPath() string {
	if path := os.Getenv(common.SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), defaultSocketName)
}

// forceTCP reports whether the TASKNAP_FORCE_TCP escape hatch is set,
// skipping the platform transport in favor of loopback TCP.
func forceTCP() bool {
	return os.Getenv(common.ForceTCPEnv) != ""
}
