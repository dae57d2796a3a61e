package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli"

	"github.com/tasknap/tasknap/cmd/common"
	"github.com/tasknap/tasknap/internal/config"
)

const (
	DEF_REFRESH_RATE  = time.Millisecond * 30
	DEF_HISTORY_LIMIT = 20
	DEF_STOP_TIMEOUT  = time.Second * 5
)

const DESCRIPTION = `
TaskNap is a lightweight cross-platform power scheduler.
It puts your computer to sleep, restarts it or shuts it
down at the exact time you pick, warns you with a live
countdown before acting, and can doze the machine on its
own after a stretch of idle time.
`

const (
	ScheduleDescription = `The schedule command registers a one-off power action
(shutdown, restart or sleep) to fire at a future time.
Use --at for an absolute time, --in for a relative delay,
and --every to repeat the action on a cron expression.

Example:
        tasknap schedule shutdown --at "2025-01-02 23:30"
        tasknap schedule sleep --in 45m
        tasknap schedule restart --at 04:00 --every "0 4 * * 1"

`
	ListDescription = `The list command displays the pending power events along
with their numeric ids which can be used to cancel
individual events.

Example:
        tasknap list

`
	CancelDescription = `The cancel command aborts a pending power event using its
numeric id which you can retrieve by using the
"tasknap list" command.

Example:
        tasknap cancel <event id>

`
	HistoryDescription = `The history command prints the most recent journal entries
recorded by the daemon: scheduled, executed and canceled
events. Pass a number to control how many entries are shown.

Example:
        tasknap history 50

`
	ConfigDescription = `The config command reads and writes daemon settings such as
the notification lead time and the idle auto-sleep window.
Run it without arguments to list every known key.

Example:
        tasknap config
        tasknap config get notifications.secondsBefore
        tasknap config set autoSleep.enable true

`
	AttachDescription = `The attach command subscribes to a running daemon and renders
live countdown bars for every pending event. Press c followed
by Enter to cancel the nearest event, or Ctrl+C to detach.

Example:
        tasknap attach

`
)

// validateConfigValue type-checks a value before it is written. Boolean
// keys must parse as booleans and numeric keys as integers; the store
// itself clamps numeric ranges on read.
func validateConfigValue(key, value string) error {
	switch key {
	case config.KeyNotifyEnable, config.KeyLoggingEnable, config.KeyStartupEnable,
		config.KeyMinimizeToTray, config.KeyAutoSleepEnable, config.KeyRPCEnable:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("invalid boolean %q for %s", value, key)
		}
	case config.KeyNotifySeconds, config.KeyAutoSleepMins, config.KeyRPCPort, config.KeyWebPort:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid integer %q for %s", value, key)
		}
	}
	return nil
}

func configure(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	store, err := config.NewDefault()
	if err != nil {
		common.PrintRuntimeErr(ctx, "config", "open_store", err)
		return nil
	}
	switch arg {
	case "", "list":
		for _, k := range config.Keys() {
			fmt.Printf("%-28s = %s\n", k, store.Describe(k))
		}
		fmt.Printf("\nConfig file: %s\n", store.Path())
	case "get":
		key := ctx.Args().Get(1)
		if !config.IsKnown(key) {
			return common.PrintErrWithCmdHelp(
				ctx,
				fmt.Errorf("unknown config key %q", key),
			)
		}
		fmt.Println(store.Describe(key))
	case "set":
		key, value := ctx.Args().Get(1), ctx.Args().Get(2)
		if !config.IsKnown(key) {
			return common.PrintErrWithCmdHelp(
				ctx,
				fmt.Errorf("unknown config key %q", key),
			)
		}
		if value == "" {
			return common.PrintErrWithCmdHelp(
				ctx,
				errors.New("no value provided"),
			)
		}
		if err := validateConfigValue(key, value); err != nil {
			return common.PrintErrWithCmdHelp(ctx, err)
		}
		if err := store.Set(key, value); err != nil {
			common.PrintRuntimeErr(ctx, "config", "set", err)
			return nil
		}
		fmt.Printf("Set %s = %s\n", key, value)
	default:
		return common.PrintErrWithCmdHelp(
			ctx,
			fmt.Errorf("unknown subcommand %q, expected get, set or list", arg),
		)
	}
	return nil
}
