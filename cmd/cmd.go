package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/tasknap/tasknap/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

// currentBuildArgs holds the build metadata for the running binary so
// command actions can report it without threading it through every call.
var currentBuildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	commands := []cli.Command{
		{
			Name:   "daemon",
			Action: getDaemonAction(),
		},
		{
			Name:                   "schedule",
			Aliases:                []string{"s"},
			Usage:                  "schedule a one-off power action",
			CustomHelpTemplate:     CMD_HELP_TEMPL,
			OnUsageError:           common.UsageErrorCallback,
			Action:                 schedule,
			Flags:                  scheduleFlags,
			UseShortOptionHandling: true,
			Description:            ScheduleDescription,
		},
		{
			Name:               "cancel",
			Usage:              "cancel a pending power event by id",
			Action:             cancel,
			OnUsageError:       common.UsageErrorCallback,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Description:        CancelDescription,
		},
		{
			Name:                   "cancel-all",
			Usage:                  "cancel every pending power event",
			Action:                 cancelAll,
			OnUsageError:           common.UsageErrorCallback,
			CustomHelpTemplate:     CMD_HELP_TEMPL,
			UseShortOptionHandling: true,
			Flags:                  cancelAllFlags,
		},
		{
			Name:                   "list",
			Aliases:                []string{"l"},
			Usage:                  "display pending power events",
			Action:                 list,
			OnUsageError:           common.UsageErrorCallback,
			CustomHelpTemplate:     CMD_HELP_TEMPL,
			Description:            ListDescription,
			UseShortOptionHandling: true,
			Flags:                  lsFlags,
		},
		{
			Name:               "attach",
			Aliases:            []string{"a"},
			Usage:              "watch live countdowns for pending events",
			Action:             attach,
			OnUsageError:       common.UsageErrorCallback,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Description:        AttachDescription,
			Flags:              attachFlags,
		},
		{
			Name:   "status",
			Usage:  "show daemon status",
			Action: status,
		},
		{
			Name:               "history",
			Usage:              "show recent journal entries",
			Action:             history,
			OnUsageError:       common.UsageErrorCallback,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Description:        HistoryDescription,
		},
		{
			Name:               "config",
			Usage:              "get and set daemon settings",
			Action:             configure,
			OnUsageError:       common.UsageErrorCallback,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Description:        ConfigDescription,
		},
		{
			Name:   "startup",
			Usage:  "manage starting the daemon at login",
			Action: startup,
		},
		{
			Name:   "stop-daemon",
			Usage:  "stop the background daemon",
			Action: stopDaemon,
		},
		{
			Name:    "help",
			Aliases: []string{"h"},
			Usage:   "prints the help message",
			Action:  common.Help,
		},
		{
			Name:               "version",
			Aliases:            []string{"v"},
			Usage:              "prints installed version of tasknap",
			UsageText:          " ",
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Action:             common.GetVersion,
		},
	}
	commands = append(commands, getPlatformCommands()...)
	app := cli.App{
		Name:                   "tasknap",
		HelpName:               "tasknap",
		Usage:                  "A power action scheduler.",
		Version:                fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:              "tasknap <command> [arguments...]",
		Description:            DESCRIPTION,
		CustomAppHelpTemplate:  HELP_TEMPL,
		OnUsageError:           common.UsageErrorCallback,
		Commands:               commands,
		Action:                 schedule,
		Flags:                  scheduleFlags,
		UseShortOptionHandling: true,
		HideHelp:               true,
		HideVersion:            true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
