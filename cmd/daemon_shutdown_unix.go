//go:build !windows

package cmd

import (
	"os"
	"syscall"
)

// shutdownSignals lists what stops a foreground daemon. SIGTERM covers
// kill and service managers, SIGINT covers Ctrl-C.
var shutdownSignals = []os.Signal{syscall.SIGTERM, syscall.SIGINT}
