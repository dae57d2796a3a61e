package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/tasknap/tasknap/cmd/common"
	"github.com/tasknap/tasknap/pkg/napcli"
)

func status(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := napcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "status", "new_client", err)
		return nil
	}
	defer client.Close()
	s, err := client.Status()
	if err != nil {
		common.PrintRuntimeErr(ctx, "status", "get_status", err)
		return nil
	}
	next := "none"
	if s.NextFireAt != nil {
		next = fmt.Sprintf("%s at %s (%s)",
			s.NextAction,
			s.NextFireAt.Local().Format(printTimeLayout),
			formatCountdown(time.Until(*s.NextFireAt)),
		)
	}
	autoSleep := "off"
	if s.AutoSleepEnabled {
		autoSleep = fmt.Sprintf("after %dm idle", s.AutoSleepMinutes)
	}
	fmt.Printf(`
Daemon Status
Version`+"\t\t"+`: %s
Pid`+"\t\t"+`: %d
Uptime`+"\t\t"+`: %s
Pending Events`+"\t"+`: %d
Next Event`+"\t"+`: %s
Auto Sleep`+"\t"+`: %s
Idle Time`+"\t"+`: %s
`,
		s.Version,
		s.Pid,
		(time.Duration(s.UptimeSeconds)*time.Second).String(),
		s.Pending,
		next,
		autoSleep,
		(time.Duration(s.IdleSeconds)*time.Second).String(),
	)
	return nil
}
