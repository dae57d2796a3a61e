package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"github.com/tasknap/tasknap/cmd/common"
	"github.com/tasknap/tasknap/pkg/napcli"
)

var (
	forceCancel bool

	cancelAllFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "force, f",
			Usage:       "use this flag to skip the confirmation prompt (default: false)",
			Destination: &forceCancel,
		},
	}
)

func cancel(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no event id provided"),
		)
	} else if arg == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return common.PrintErrWithCmdHelp(
			ctx,
			fmt.Errorf("invalid event id %q", arg),
		)
	}
	client, err := napcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "cancel", "new_client", err)
		return nil
	}
	defer client.Close()
	r, err := client.Cancel(id)
	if err != nil {
		common.PrintRuntimeErr(ctx, "cancel", "cancel", err)
		return nil
	}
	if r.Canceled {
		fmt.Printf("Canceled event #%d\n", r.EventId)
	} else {
		fmt.Printf("Event #%d was not pending\n", r.EventId)
	}
	return nil
}

func cancelAll(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if !confirm(command("cancel-all"), forceCancel) {
		return nil
	}
	client, err := napcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "cancel-all", "new_client", err)
		return nil
	}
	defer client.Close()
	r, err := client.CancelAll()
	if err != nil {
		common.PrintRuntimeErr(ctx, "cancel-all", "cancel_all", err)
		return nil
	}
	switch r.Count {
	case 0:
		fmt.Println("No pending events to cancel")
	case 1:
		fmt.Println("Canceled 1 pending event!")
	default:
		fmt.Printf("Canceled %d pending events!\n", r.Count)
	}
	return nil
}
