package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/tasknap/tasknap/cmd/common"
	"github.com/tasknap/tasknap/internal/config"
	startuppkg "github.com/tasknap/tasknap/internal/startup"
)

// setStartupConfig mirrors the login-item state into the settings file
// so the daemon and the GUI-less status output agree with the registry.
func setStartupConfig(enabled bool) {
	store, err := config.NewDefault()
	if err != nil {
		return
	}
	_ = store.Set(config.KeyStartupEnable, fmt.Sprintf("%t", enabled))
}

func startup(ctx *cli.Context) error {
	arg := ctx.Args().First()
	switch arg {
	case "help":
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	case "", "status":
		enabled, err := startuppkg.Enabled()
		if errors.Is(err, startuppkg.ErrUnsupported) {
			fmt.Println("Start at login is not supported on this platform")
			return nil
		}
		if err != nil {
			common.PrintRuntimeErr(ctx, "startup", "status", err)
			return nil
		}
		if enabled {
			fmt.Println("Start at login: enabled")
		} else {
			fmt.Println("Start at login: disabled")
		}
	case "on":
		exe, err := os.Executable()
		if err != nil {
			common.PrintRuntimeErr(ctx, "startup", "executable", err)
			return nil
		}
		err = startuppkg.Enable(exe)
		if errors.Is(err, startuppkg.ErrUnsupported) {
			fmt.Println("Start at login is not supported on this platform")
			return nil
		}
		if err != nil {
			common.PrintRuntimeErr(ctx, "startup", "enable", err)
			return nil
		}
		setStartupConfig(true)
		fmt.Println("TaskNap will start at login")
	case "off":
		err := startuppkg.Disable()
		if errors.Is(err, startuppkg.ErrUnsupported) {
			fmt.Println("Start at login is not supported on this platform")
			return nil
		}
		if err != nil {
			common.PrintRuntimeErr(ctx, "startup", "disable", err)
			return nil
		}
		setStartupConfig(false)
		fmt.Println("TaskNap will no longer start at login")
	default:
		return common.PrintErrWithCmdHelp(
			ctx,
			fmt.Errorf("unknown subcommand %q, expected on, off or status", arg),
		)
	}
	return nil
}
