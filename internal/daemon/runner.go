// Package daemon provides the lifecycle runner for the tasknap daemon.
// It wraps the daemon loop with start, stop, and graceful shutdown
// handling so console mode and Windows service mode share one
// implementation.
package daemon

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Sentinel errors for the daemon runner.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running daemon.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrNotRunning is returned when Shutdown() is called on a stopped daemon.
	ErrNotRunning = errors.New("daemon is not running")

	// ErrShutdownTimeout is returned when shutdown exceeds the configured timeout.
	ErrShutdownTimeout = errors.New("shutdown timed out")
)

// Service name constants for Windows service registration.
const (
	// DefaultServiceName is the default Windows service name.
	DefaultServiceName = "TaskNap"

	// DefaultDisplayName is the default Windows service display name.
	DefaultDisplayName = "TaskNap Power Scheduler"

	// DefaultDescription is the default Windows service description.
	DefaultDescription = "Schedules one-off shutdown, restart and sleep actions"
)

// Config holds the configuration for the daemon runner.
type Config struct {
	// ServiceName is the Windows service name.
	ServiceName string

	// DisplayName is the Windows service display name.
	DisplayName string

	// ConfigDir is the directory for configuration files and the pid file.
	ConfigDir string

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// A zero value means no timeout.
	ShutdownTimeout time.Duration
}

// Dependencies holds the injectable pieces of the daemon lifecycle.
type Dependencies struct {
	// RunFunc runs the daemon loop until the context is canceled.
	// If nil, Start parks on the context so the lifecycle shell still
	// works without wired components (used by tests).
	RunFunc func(ctx context.Context) error

	// ShutdownFunc is called during shutdown to clean up resources.
	// If nil, no cleanup function is called.
	ShutdownFunc func() error
}

// Runner manages the daemon lifecycle.
type Runner struct {
	config  *Config
	deps    *Dependencies
	running bool
	mu      sync.Mutex
	cancel  context.CancelFunc
}

// New creates a daemon runner. A nil config gets the default service
// identity; nil deps get a parked run loop.
func New(config *Config, deps *Dependencies) *Runner {
	if config == nil {
		config = &Config{
			ServiceName: DefaultServiceName,
			DisplayName: DefaultDisplayName,
		}
	}
	if deps == nil {
		deps = &Dependencies{}
	}
	return &Runner{
		config: config,
		deps:   deps,
	}
}

// Config returns the runner's configuration.
func (r *Runner) Config() *Config {
	return r.config
}

// Start runs the daemon loop and blocks until the context is canceled
// or the loop returns. Returns ErrAlreadyRunning if the daemon is
// already started.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.running = true
	r.mu.Unlock()

	var err error
	if r.deps.RunFunc != nil {
		err = r.deps.RunFunc(ctx)
	} else {
		<-ctx.Done()
		err = ctx.Err()
	}

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	return err
}

// Shutdown gracefully stops the daemon.
// Returns ErrNotRunning if the daemon is not running.
// Returns ErrShutdownTimeout if the cleanup exceeds the configured timeout.
func (r *Runner) Shutdown() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return ErrNotRunning
	}
	r.mu.Unlock()

	if err := r.executeShutdownFunc(); err != nil {
		return err
	}

	r.mu.Lock()
	r.running = false
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()

	return nil
}

// executeShutdownFunc runs the cleanup function, applying the
// configured timeout when one is set. Cleanup errors without a timeout
// are dropped: the shutdown proceeds regardless.
func (r *Runner) executeShutdownFunc() error {
	if r.deps.ShutdownFunc == nil {
		return nil
	}
	if r.config.ShutdownTimeout > 0 {
		return r.executeWithTimeout(r.deps.ShutdownFunc, r.config.ShutdownTimeout)
	}
	_ = r.deps.ShutdownFunc()
	return nil
}

func (r *Runner) executeWithTimeout(fn func() error, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		r.forceStop()
		return ErrShutdownTimeout
	}
}

// forceStop cancels the run loop without waiting for cleanup.
func (r *Runner) forceStop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.running = false
	if r.cancel != nil {
		r.cancel()
	}
}

// IsRunning returns true if the daemon is currently running.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
