//go:build windows

package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for service management operations.
var (
	// ErrServiceExists is returned when installing a service that already exists.
	ErrServiceExists = errors.New("service already exists")

	// ErrServiceNotFound is returned when the service is not found.
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceAlreadyRunning is returned when starting a running service.
	ErrServiceAlreadyRunning = errors.New("service is already running")

	// ErrServiceNotRunning is returned when stopping a stopped service.
	ErrServiceNotRunning = errors.New("service is not running")
)

// Start type constants matching the Windows SERVICE_START_TYPE values.
const (
	StartTypeAutomatic uint32 = 2
	StartTypeManual    uint32 = 3
	StartTypeDisabled  uint32 = 4
)

// ServiceStatus mirrors the Windows SERVICE_STATUS dwCurrentState values.
type ServiceStatus uint32

const (
	StatusStopped         ServiceStatus = 1
	StatusStartPending    ServiceStatus = 2
	StatusStopPending     ServiceStatus = 3
	StatusRunning         ServiceStatus = 4
	StatusContinuePending ServiceStatus = 5
	StatusPausePending    ServiceStatus = 6
	StatusPaused          ServiceStatus = 7
)

// String returns a human-readable representation of the service status.
func (s ServiceStatus) String() string {
	switch s {
	case StatusStopped:
		return "Stopped"
	case StatusStartPending:
		return "Start Pending"
	case StatusStopPending:
		return "Stop Pending"
	case StatusRunning:
		return "Running"
	case StatusContinuePending:
		return "Continue Pending"
	case StatusPausePending:
		return "Pause Pending"
	case StatusPaused:
		return "Paused"
	default:
		return fmt.Sprintf("Unknown (%d)", s)
	}
}

// ServiceConfig describes a service to create.
type ServiceConfig struct {
	// DisplayName is shown in the Services panel.
	DisplayName string

	// StartType determines when the service starts.
	StartType uint32

	// Description is an optional description of the service.
	Description string

	// Args are appended to the service command line after the
	// executable path.
	Args []string
}

// SCManagerInterface abstracts the Windows Service Control Manager so
// management operations can be tested without Windows API calls.
type SCManagerInterface interface {
	OpenService(name string) (ServiceInterface, error)
	CreateService(name, exePath string, config ServiceConfig) (ServiceInterface, error)
	Close() error
}

// ServiceInterface abstracts one registered Windows service.
type ServiceInterface interface {
	Start() error
	Stop() error
	Delete() error
	Status() (ServiceStatus, error)
	Close() error
}

// ServiceManager provides install, uninstall, start, stop, and status
// operations for the tasknap scheduler service.
type ServiceManager struct {
	scm SCManagerInterface
}

func NewServiceManager(scm SCManagerInterface) *ServiceManager {
	return &ServiceManager{scm: scm}
}

// Install registers the scheduler as a Windows service. Extra args are
// appended to the service command line so the binary starts in daemon
// mode. Returns ErrServiceExists if the service already exists.
func (m *ServiceManager) Install(serviceName, displayName, description, exePath string, startType uint32, args ...string) error {
	config := ServiceConfig{
		DisplayName: displayName,
		Description: description,
		StartType:   startType,
		Args:        args,
	}

	svc, err := m.scm.CreateService(serviceName, exePath, config)
	if err != nil {
		return err
	}
	return svc.Close()
}

// Uninstall removes the service, stopping it first when running.
// Returns ErrServiceNotFound if the service does not exist.
func (m *ServiceManager) Uninstall(serviceName string) error {
	svc, err := m.scm.OpenService(serviceName)
	if err != nil {
		return err
	}
	defer svc.Close()

	status, err := svc.Status()
	if err != nil {
		return err
	}
	if status == StatusRunning {
		if err := svc.Stop(); err != nil {
			return err
		}
	}

	return svc.Delete()
}

// Start starts the service.
// Returns ErrServiceNotFound or ErrServiceAlreadyRunning as appropriate.
func (m *ServiceManager) Start(serviceName string) error {
	svc, err := m.scm.OpenService(serviceName)
	if err != nil {
		return err
	}
	defer svc.Close()

	status, err := svc.Status()
	if err != nil {
		return err
	}
	if status == StatusRunning {
		return ErrServiceAlreadyRunning
	}

	return svc.Start()
}

// Stop stops the service.
// Returns ErrServiceNotFound or ErrServiceNotRunning as appropriate.
func (m *ServiceManager) Stop(serviceName string) error {
	svc, err := m.scm.OpenService(serviceName)
	if err != nil {
		return err
	}
	defer svc.Close()

	status, err := svc.Status()
	if err != nil {
		return err
	}
	if status == StatusStopped {
		return ErrServiceNotRunning
	}

	return svc.Stop()
}

// Status reports the current service state.
// Returns ErrServiceNotFound if the service does not exist.
func (m *ServiceManager) Status(serviceName string) (ServiceStatus, error) {
	svc, err := m.scm.OpenService(serviceName)
	if err != nil {
		return 0, err
	}
	defer svc.Close()

	return svc.Status()
}
