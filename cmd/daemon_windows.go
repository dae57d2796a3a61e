//go:build windows

package cmd

import (
	"context"
	"log"

	"github.com/urfave/cli"
	"golang.org/x/sys/windows/svc"

	daemonpkg "github.com/tasknap/tasknap/internal/daemon"
	"github.com/tasknap/tasknap/internal/server"
	"github.com/tasknap/tasknap/internal/service"
	"github.com/tasknap/tasknap/pkg/logger"
)

// Seams for service-mode tests.
var (
	svcIsWindowsService    = svc.IsWindowsService
	newEventLogger         = logger.NewEventLogger
	svcRun                 = svc.Run
	windowsServerStartFunc = func(s *server.Server, ctx context.Context) error {
		return s.Start(ctx)
	}
)

// getDaemonAction returns the platform-specific daemon action.
// On Windows, this detects service mode and uses Event Log.
func getDaemonAction() cli.ActionFunc {
	return daemonWindows
}

// daemonWindows detects if running as a Windows service and uses the appropriate logger.
// When running as a service, logs go to both console and Windows Event Log.
// When running as a console application, the standard daemon() function is used.
func daemonWindows(ctx *cli.Context) error {
	isService, err := svcIsWindowsService()
	if err != nil {
		return err
	}

	if !isService {
		// Console mode - use existing daemon() function (unchanged behavior)
		return daemon(ctx)
	}

	// Service mode - use Event Log
	return runAsWindowsService()
}

// runAsWindowsService runs the daemon as a Windows service with Event Log integration.
func runAsWindowsService() error {
	stdLogger := logger.NewStandardLogger(log.Default())

	// Attempt to open Event Log
	eventLogger, err := newEventLogger(daemonpkg.DefaultServiceName)
	if err != nil {
		// Fallback: Event Log unavailable (not registered, permissions issue)
		// Use console-only logging
		return runServiceWithLogger(stdLogger)
	}
	defer eventLogger.Close()

	// Multi-backend: Console output + Event Log
	multiLogger := logger.NewMultiLogger(stdLogger, eventLogger)
	return runServiceWithLogger(multiLogger)
}

// runServiceWithLogger builds the daemon components, wraps them in a
// lifecycle runner and hands that to the SCM handler.
func runServiceWithLogger(log logger.Logger) error {
	components, err := initDaemonComponents(log, nil)
	if err != nil {
		log.Error("Daemon initialization failed: %v", err)
		return err
	}

	runner := daemonpkg.New(&daemonpkg.Config{
		ServiceName:     daemonpkg.DefaultServiceName,
		DisplayName:     daemonpkg.DefaultDisplayName,
		ShutdownTimeout: DEF_STOP_TIMEOUT,
	}, &daemonpkg.Dependencies{
		RunFunc: func(ctx context.Context) error {
			return windowsServerStartFunc(components.Server, ctx)
		},
		ShutdownFunc: func() error {
			components.Close()
			return nil
		},
	})

	// A stop-daemon socket request stops the serving loop; the SCM
	// remains authoritative for the reported service state
	components.SetStopFunc(func() { _ = runner.Shutdown() })

	handler := service.NewWindowsHandler(runner, log)

	// svc.Run blocks until service stops
	return svcRun(daemonpkg.DefaultServiceName, handler)
}
