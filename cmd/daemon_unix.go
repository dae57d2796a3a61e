//go:build !windows

package cmd

import "github.com/urfave/cli"

// getDaemonAction returns the platform-specific daemon action.
// On non-Windows platforms the console daemon runs directly.
func getDaemonAction() cli.ActionFunc {
	return daemon
}
