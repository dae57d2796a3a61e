package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/tasknap/tasknap/common"
	"github.com/tasknap/tasknap/internal/api"
	"github.com/tasknap/tasknap/internal/config"
	"github.com/tasknap/tasknap/internal/instance"
	"github.com/tasknap/tasknap/internal/journal"
	"github.com/tasknap/tasknap/internal/scheduler"
	"github.com/tasknap/tasknap/internal/server"
	"github.com/tasknap/tasknap/internal/watchdog"
	"github.com/tasknap/tasknap/pkg/logger"
)

var (
	version   string
	commit    string
	buildType string = "unclassified"
)

func main() {
	cfg, err := config.NewDefault()
	if err != nil {
		fmt.Println("tasknapd:", err.Error())
		os.Exit(1)
	}
	dir := filepath.Dir(cfg.Path())

	guard, err := instance.Acquire(dir, "tasknapd")
	if err != nil {
		fmt.Println("tasknapd:", err.Error())
		os.Exit(1)
	}
	defer guard.Release()

	jrnl, err := journal.Open(filepath.Join(dir, "journal.db"))
	if err != nil {
		fmt.Println("tasknapd:", err.Error())
		os.Exit(1)
	}
	defer jrnl.Close()

	l := logger.NewStandardLogger(log.Default())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := server.NewPool(log.Default())
	sched := scheduler.New(ctx, scheduler.Deps{
		Notifier: api.NewPoolNotifier(pool, nil),
		Journal:  jrnl,
		Config:   cfg,
		Log:      l,
	})
	watchdog.New(ctx, watchdog.Deps{
		Scheduler: sched,
		Config:    cfg,
		Log:       l,
	})

	s, err := api.NewApi(log.Default(), sched, jrnl, cfg, cancel, version, commit, buildType)
	if err != nil {
		fmt.Println("tasknapd:", err.Error())
		os.Exit(1)
	}
	serv := server.NewServer(log.Default(), pool, common.DefaultTCPPort, nil, nil)
	s.RegisterHandlers(serv)
	err = serv.Start(ctx)
	if err != nil {
		fmt.Println("tasknapd:", err.Error())
		os.Exit(1)
	}
}
