//go:build windows

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc/eventlog"

	daemonpkg "github.com/tasknap/tasknap/internal/daemon"
	"github.com/tasknap/tasknap/internal/service"
)

// ErrRequiresAdmin is returned when an operation requires administrator privileges.
var ErrRequiresAdmin = errors.New("this operation requires administrator privileges")

// svcName is the SCM-registered service identity all subcommands act on.
const svcName = daemonpkg.DefaultServiceName

// Seams for tests, which cannot touch the real SCM.
var (
	isAdminFunc   = isAdmin
	openSCManager = service.OpenSCManager

	// When non-nil these replace the corresponding ServiceManager call.
	serviceManagerInstallFunc   func(serviceName, displayName, description, exePath string, startType uint32, args ...string) error
	serviceManagerUninstallFunc func(serviceName string) error
	serviceManagerStatusFunc    func(serviceName string) (uint32, error)
)

// isAdmin reports whether the current process token belongs to the
// BUILTIN\Administrators group.
func isAdmin() bool {
	var sid *windows.SID

	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid,
	)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	token := windows.Token(0)
	isMember, err := token.IsMember(sid)
	if err != nil {
		return false
	}

	return isMember
}

// serviceCommand returns the service management command with subcommands.
func serviceCommand() cli.Command {
	return cli.Command{
		Name:  "service",
		Usage: "Manage the TaskNap Windows service",
		Subcommands: []cli.Command{
			{
				Name:   "install",
				Usage:  "Install TaskNap as a Windows service",
				Action: serviceInstall,
			},
			{
				Name:   "uninstall",
				Usage:  "Remove the TaskNap Windows service",
				Action: serviceUninstall,
			},
			{
				Name:   "start",
				Usage:  "Start the TaskNap Windows service",
				Action: serviceStart,
			},
			{
				Name:   "stop",
				Usage:  "Stop the TaskNap Windows service",
				Action: serviceStop,
			},
			{
				Name:   "status",
				Usage:  "Show the current status of the TaskNap Windows service",
				Action: serviceStatus,
			},
		},
	}
}

// requireAdmin gates the mutating subcommands. It must run before any
// SCM connection is opened.
func requireAdmin() error {
	if !isAdminFunc() {
		return ErrRequiresAdmin
	}
	return nil
}

// getServiceManager opens the SCM and creates a ServiceManager.
// Caller is responsible for closing scm when done.
func getServiceManager() (*service.ServiceManager, service.SCManagerInterface, error) {
	scm, err := openSCManager()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to service control manager: %w", err)
	}
	return service.NewServiceManager(scm), scm, nil
}

// withServiceManager runs fn against an open SCM connection and closes
// the connection afterwards.
func withServiceManager(fn func(*service.ServiceManager) error) error {
	mgr, scm, err := getServiceManager()
	if err != nil {
		return err
	}
	defer scm.Close()
	return fn(mgr)
}

// serviceInstall registers TaskNap with the SCM. The service command
// line is "<exe> daemon" so Windows starts the binary straight into
// daemon mode.
func serviceInstall(ctx *cli.Context) error {
	if err := requireAdmin(); err != nil {
		return err
	}

	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	if serviceManagerInstallFunc != nil {
		return serviceManagerInstallFunc(
			svcName,
			daemonpkg.DefaultDisplayName,
			daemonpkg.DefaultDescription,
			exePath,
			service.StartTypeAutomatic,
			"daemon",
		)
	}

	return withServiceManager(func(mgr *service.ServiceManager) error {
		err := mgr.Install(
			svcName,
			daemonpkg.DefaultDisplayName,
			daemonpkg.DefaultDescription,
			exePath,
			service.StartTypeAutomatic,
			"daemon",
		)
		if err != nil {
			if errors.Is(err, service.ErrServiceExists) {
				return fmt.Errorf("service '%s' is already installed", svcName)
			}
			return fmt.Errorf("failed to install service: %w", err)
		}

		// The daemon logs through the event log when running as a
		// service, so its source must exist before the first start.
		// A failed registration rolls the install back.
		err = eventlog.InstallAsEventCreate(svcName, eventlog.Info|eventlog.Warning|eventlog.Error)
		if err != nil {
			_ = mgr.Uninstall(svcName)
			return fmt.Errorf("failed to register event source: %w", err)
		}

		fmt.Printf("Service '%s' installed successfully\n", svcName)
		return nil
	})
}

func serviceUninstall(ctx *cli.Context) error {
	if err := requireAdmin(); err != nil {
		return err
	}

	if serviceManagerUninstallFunc != nil {
		if err := serviceManagerUninstallFunc(svcName); err != nil {
			return err
		}
		fmt.Printf("Service '%s' uninstalled successfully\n", svcName)
		return nil
	}

	return withServiceManager(func(mgr *service.ServiceManager) error {
		if err := mgr.Uninstall(svcName); err != nil {
			if errors.Is(err, service.ErrServiceNotFound) {
				return fmt.Errorf("service '%s' is not installed", svcName)
			}
			return fmt.Errorf("failed to uninstall service: %w", err)
		}

		// Event source cleanup is best effort.
		_ = eventlog.Remove(svcName)

		fmt.Printf("Service '%s' uninstalled successfully\n", svcName)
		return nil
	})
}

func serviceStart(ctx *cli.Context) error {
	if err := requireAdmin(); err != nil {
		return err
	}

	return withServiceManager(func(mgr *service.ServiceManager) error {
		if err := mgr.Start(svcName); err != nil {
			switch {
			case errors.Is(err, service.ErrServiceNotFound):
				return fmt.Errorf("service '%s' is not installed", svcName)
			case errors.Is(err, service.ErrServiceAlreadyRunning):
				return fmt.Errorf("service '%s' is already running", svcName)
			}
			return fmt.Errorf("failed to start service: %w", err)
		}
		fmt.Printf("Service '%s' started successfully\n", svcName)
		return nil
	})
}

func serviceStop(ctx *cli.Context) error {
	if err := requireAdmin(); err != nil {
		return err
	}

	return withServiceManager(func(mgr *service.ServiceManager) error {
		if err := mgr.Stop(svcName); err != nil {
			switch {
			case errors.Is(err, service.ErrServiceNotFound):
				return fmt.Errorf("service '%s' is not installed", svcName)
			case errors.Is(err, service.ErrServiceNotRunning):
				return fmt.Errorf("service '%s' is not running", svcName)
			}
			return fmt.Errorf("failed to stop service: %w", err)
		}
		fmt.Printf("Service '%s' stopped successfully\n", svcName)
		return nil
	})
}

// serviceStatus works without elevation; querying state is open to any
// user.
func serviceStatus(ctx *cli.Context) error {
	if serviceManagerStatusFunc != nil {
		statusVal, err := serviceManagerStatusFunc(svcName)
		if err != nil {
			return err
		}
		fmt.Printf("Service '%s': %s\n", svcName, service.ServiceStatus(statusVal).String())
		return nil
	}

	return withServiceManager(func(mgr *service.ServiceManager) error {
		status, err := mgr.Status(svcName)
		if err != nil {
			if errors.Is(err, service.ErrServiceNotFound) {
				return fmt.Errorf("service '%s' is not installed", svcName)
			}
			return fmt.Errorf("failed to get service status: %w", err)
		}
		fmt.Printf("Service '%s': %s\n", svcName, status.String())
		return nil
	})
}
