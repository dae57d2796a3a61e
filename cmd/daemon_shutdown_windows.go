//go:build windows

package cmd

import "os"

// shutdownSignals lists what stops a foreground daemon. SIGTERM is not
// deliverable on Windows, so only the interrupt from Ctrl-C is watched;
// service mode stops through the SCM instead.
var shutdownSignals = []os.Signal{os.Interrupt}
