package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/tasknap/tasknap/cmd/common"
	"github.com/tasknap/tasknap/pkg/napcli"
)

func history(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	limit := parseLimit(arg)
	client, err := napcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "history", "new_client", err)
		return nil
	}
	defer client.Close()
	h, err := client.History(limit)
	if err != nil {
		common.PrintRuntimeErr(ctx, "history", "get_history", err)
		return nil
	}
	if len(h.Entries) == 0 {
		fmt.Println("tasknap: no history recorded yet")
		return nil
	}
	for _, e := range h.Entries {
		line := fmt.Sprintf("%s  %-9s %s #%d",
			e.At.Local().Format(printTimeLayout), e.Kind, e.Action, e.EventId)
		if e.Detail != "" {
			line += "  (" + e.Detail + ")"
		}
		fmt.Println(line)
	}
	return nil
}
