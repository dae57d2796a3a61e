package cmd

import (
	"context"
	"log"

	"github.com/urfave/cli"

	"github.com/tasknap/tasknap/cmd/common"
	"github.com/tasknap/tasknap/internal/server"
	"github.com/tasknap/tasknap/pkg/logger"
)

// startServerFunc starts the serving loop. Tests swap it out to run
// the daemon action without binding a socket.
var startServerFunc = func(s *server.Server, ctx context.Context) error {
	return s.Start(ctx)
}

// daemon runs the scheduler daemon in console mode until a termination
// signal or a stop-daemon request arrives.
func daemon(ctx *cli.Context) error {
	stdLogger := logger.NewStandardLogger(log.Default())

	components, err := initDaemonComponents(stdLogger, nil)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "init", err)
		return nil
	}

	sctx, cancel := setupShutdownHandler()
	defer cancel()
	defer components.Close()
	components.SetStopFunc(cancel)

	return startServerFunc(components.Server, sctx)
}
