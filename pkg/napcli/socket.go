//go:build !windows

package napcli

import (
	"os"
	"path/filepath"

	"github.com/tasknap/tasknap/common"
)

func socketPath() string {
	if path := os.Getenv(common.SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), "tasknap.sock")
}
