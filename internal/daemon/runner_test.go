package daemon

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	r := New(nil, nil)
	if r == nil {
		t.Fatal("New() returned nil runner")
	}
	cfg := r.Config()
	if cfg.ServiceName != DefaultServiceName {
		t.Errorf("ServiceName = %q, want default %q", cfg.ServiceName, DefaultServiceName)
	}
	if cfg.DisplayName != DefaultDisplayName {
		t.Errorf("DisplayName = %q, want default %q", cfg.DisplayName, DefaultDisplayName)
	}
	if r.IsRunning() {
		t.Error("new runner reports running")
	}
}

func TestNewKeepsConfig(t *testing.T) {
	cfg := &Config{ServiceName: "TaskNapTest", DisplayName: "Test Scheduler", ConfigDir: t.TempDir()}
	r := New(cfg, nil)
	if r.Config() != cfg {
		t.Error("Config() did not return the provided config")
	}
}

func TestStartRunsLoopUntilCancel(t *testing.T) {
	var ran atomic.Bool
	r := New(nil, &Dependencies{
		RunFunc: func(ctx context.Context) error {
			ran.Store(true)
			<-ctx.Done()
			return ctx.Err()
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !r.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !r.IsRunning() {
		t.Fatal("Start() did not set running state")
	}
	if !ran.Load() {
		t.Fatal("Start() did not invoke the run loop")
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Start() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}
	if r.IsRunning() {
		t.Error("runner still reports running after Start returned")
	}
}

func TestStartParksWithoutRunFunc(t *testing.T) {
	r := New(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !r.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Start() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}
}

func TestStartTwiceReturnsAlreadyRunning(t *testing.T) {
	r := New(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !r.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := r.Start(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start() = %v, want ErrAlreadyRunning", err)
	}

	cancel()
	<-errCh
}

func TestShutdownNotRunning(t *testing.T) {
	r := New(nil, nil)
	if err := r.Shutdown(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Shutdown() = %v, want ErrNotRunning", err)
	}
}

func TestShutdownRunsCleanupAndStopsLoop(t *testing.T) {
	var cleaned atomic.Bool
	r := New(nil, &Dependencies{
		ShutdownFunc: func() error {
			cleaned.Store(true)
			return nil
		},
	})

	ctx := context.Background()
	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !r.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := r.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !cleaned.Load() {
		t.Error("shutdown function was not invoked")
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Start() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run loop did not stop after Shutdown")
	}
	if r.IsRunning() {
		t.Error("runner still reports running after Shutdown")
	}
}

func TestShutdownIgnoresCleanupErrorWithoutTimeout(t *testing.T) {
	r := New(nil, &Dependencies{
		ShutdownFunc: func() error { return errors.New("cleanup failed") },
	})

	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for !r.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := r.Shutdown(); err != nil {
		t.Errorf("Shutdown() = %v, want nil despite cleanup error", err)
	}
	<-errCh
}

func TestShutdownTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	r := New(&Config{
		ServiceName:     DefaultServiceName,
		DisplayName:     DefaultDisplayName,
		ShutdownTimeout: 50 * time.Millisecond,
	}, &Dependencies{
		ShutdownFunc: func() error {
			<-block
			return nil
		},
	})

	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for !r.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := r.Shutdown(); !errors.Is(err, ErrShutdownTimeout) {
		t.Errorf("Shutdown() = %v, want ErrShutdownTimeout", err)
	}
	if r.IsRunning() {
		t.Error("runner still reports running after forced stop")
	}
	<-errCh
}

func TestShutdownWithinTimeout(t *testing.T) {
	r := New(&Config{
		ServiceName:     DefaultServiceName,
		DisplayName:     DefaultDisplayName,
		ShutdownTimeout: 2 * time.Second,
	}, &Dependencies{
		ShutdownFunc: func() error { return nil },
	})

	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for !r.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := r.Shutdown(); err != nil {
		t.Errorf("Shutdown() = %v, want nil", err)
	}
	<-errCh
}

func TestRunLoopErrorPropagates(t *testing.T) {
	boom := errors.New("listener exploded")
	r := New(nil, &Dependencies{
		RunFunc: func(ctx context.Context) error { return boom },
	})

	if err := r.Start(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Start() = %v, want run loop error", err)
	}
	if r.IsRunning() {
		t.Error("runner reports running after loop exit")
	}
}
