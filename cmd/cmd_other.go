//go:build !windows

package cmd

import "github.com/urfave/cli"

// getPlatformCommands returns nothing off Windows; service management
// is the only platform-gated command group.
func getPlatformCommands() []cli.Command {
	return nil
}
