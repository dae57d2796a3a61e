//go:build windows

package cmd

import "github.com/urfave/cli"

// getPlatformCommands adds the SCM service management group, which
// only exists on Windows.
func getPlatformCommands() []cli.Command {
	return []cli.Command{
		serviceCommand(),
	}
}
