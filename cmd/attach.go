package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/tasknap/tasknap/cmd/common"
	"github.com/tasknap/tasknap/pkg/napcli"
)

var (
	daemonURI string

	attachFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "daemon-uri",
			Usage:       "daemon URI to connect to (e.g., tcp://localhost:4217, unix:///tmp/tasknap.sock, or /path/to/socket)",
			Destination: &daemonURI,
			EnvVar:      "TASKNAP_DAEMON_URI",
		},
	}
)

func attach(ctx *cli.Context) (err error) {
	arg := ctx.Args().First()
	if arg == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	} else if arg != "" {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("unexpected argument"),
		)
	}
	client, err := napcli.NewClientWithURI(daemonURI)
	if err != nil {
		common.PrintRuntimeErr(ctx, "attach", "new_client", err)
		return nil
	}
	client.CheckVersionMismatch(currentBuildArgs.Version)
	fmt.Println(">> Attaching to the TaskNap daemon << ")
	a, err := client.Attach()
	if err != nil {
		common.PrintRuntimeErr(ctx, "attach", "client-attach", err)
		return nil
	}
	next := "none"
	if len(a.Events) > 0 {
		next = fmt.Sprintf("%s at %s", a.Events[0].Action, a.Events[0].FiresAt.Local().Format(printTimeLayout))
	}
	txt := fmt.Sprintf(`
Daemon Info
Pending Events`+"\t"+`: %d
Next Event`+"\t"+`: %s
`,
		len(a.Events),
		next,
	)
	fmt.Println(txt)
	fmt.Println("Press c + Enter to cancel the nearest event, Ctrl+C to detach.")
	bars := RegisterHandlers(client, a.Events)
	go watchCancelKey(client, bars)
	return client.Listen()
}

// watchCancelKey reads stdin while attached and cancels the event with
// the least time remaining each time the user types "c".
func watchCancelKey(client *napcli.Client, bars *barSet) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		if strings.TrimSpace(strings.ToLower(sc.Text())) != "c" {
			continue
		}
		id, ok := bars.nearest()
		if !ok {
			continue
		}
		_, _ = client.Cancel(id)
	}
}
