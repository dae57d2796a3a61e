//go:build windows

// Package service provides Windows service integration for the tasknap
// scheduler daemon. It implements the Service Control Manager handler
// that runs the daemon as a Windows service and the management
// operations behind the service CLI subcommands.
package service

import (
	"context"
	"time"

	"golang.org/x/sys/windows/svc"

	"github.com/tasknap/tasknap/pkg/logger"
)

// acceptedCommands defines which SCM commands the service handles.
const acceptedCommands = svc.AcceptStop | svc.AcceptShutdown

// RunnerInterface is the daemon lifecycle the service handler drives.
// Satisfied by *daemon.Runner; a test double stands in for it here.
type RunnerInterface interface {
	Start(ctx context.Context) error
	Shutdown() error
	IsRunning() bool
}

// WindowsHandler implements svc.Handler, bridging the SCM state machine
// to the scheduler daemon runner.
type WindowsHandler struct {
	runner RunnerInterface
	log    logger.Logger
}

// NewWindowsHandler creates a service handler for the given runner.
// A nil log gets a no-op logger.
func NewWindowsHandler(runner RunnerInterface, log logger.Logger) *WindowsHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &WindowsHandler{
		runner: runner,
		log:    log,
	}
}

// Execute implements svc.Handler. Service start arguments are ignored;
// the daemon reads its configuration from the tasknap config dir at
// runtime. The state machine follows the Windows service model:
//
//	StartPending -> Running -> StopPending -> Stopped
func (h *WindowsHandler) Execute(args []string, requests <-chan svc.ChangeRequest, status chan<- svc.Status) (svcSpecificEC bool, exitCode uint32) {
	_ = args

	status <- svc.Status{State: svc.StartPending}
	h.log.Info("TaskNap service starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startErrCh := make(chan error, 1)
	go func() {
		startErrCh <- h.runner.Start(ctx)
	}()

	// Wait briefly so an immediate startup failure is caught before
	// reporting Running to the SCM.
	select {
	case err := <-startErrCh:
		if err != nil {
			h.log.Error("TaskNap service failed to start: %v", err)
			status <- svc.Status{State: svc.Stopped}
			return false, 1
		}
	case <-time.After(50 * time.Millisecond):
	}

	status <- svc.Status{State: svc.Running, Accepts: acceptedCommands}
	h.log.Info("TaskNap service started")

	for req := range requests {
		switch req.Cmd {
		case svc.Interrogate:
			status <- svc.Status{State: svc.Running, Accepts: acceptedCommands}

		case svc.Stop, svc.Shutdown:
			h.log.Info("TaskNap service stopping")
			status <- svc.Status{State: svc.StopPending}
			cancel()
			if err := h.runner.Shutdown(); err != nil {
				h.log.Error("Error during service shutdown: %v", err)
				status <- svc.Status{State: svc.Stopped}
				return false, 1
			}
			h.log.Info("TaskNap service stopped")
			status <- svc.Status{State: svc.Stopped}
			return false, 0
		}
	}

	// Request channel closed without a stop command.
	return false, 0
}

// AcceptedCommands returns the service commands this handler accepts.
func (h *WindowsHandler) AcceptedCommands() svc.Accepted {
	return acceptedCommands
}
