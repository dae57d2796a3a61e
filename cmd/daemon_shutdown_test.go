package cmd

import (
	"context"
	"testing"
	"time"
)

func TestSetupShutdownHandler_ReturnsValidContextAndCancel(t *testing.T) {
	ctx, cancel := setupShutdownHandler()

	if ctx == nil {
		t.Error("setupShutdownHandler() returned nil context")
	}
	if cancel == nil {
		t.Error("setupShutdownHandler() returned nil cancel function")
	}

	if cancel != nil {
		cancel()
	}
}

func TestSetupShutdownHandler_ContextNotInitiallyCanceled(t *testing.T) {
	ctx, cancel := setupShutdownHandler()
	defer cancel()

	if ctx.Err() != nil {
		t.Errorf("setupShutdownHandler() context.Err() = %v, want nil", ctx.Err())
	}

	select {
	case <-ctx.Done():
		t.Error("context should not be done initially")
	default:
	}
}

func TestSetupShutdownHandler_CancelCancelsContext(t *testing.T) {
	ctx, cancel := setupShutdownHandler()

	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(100 * time.Millisecond):
		t.Error("context was not canceled after calling cancel()")
	}

	if ctx.Err() != context.Canceled {
		t.Errorf("context.Err() = %v, want %v", ctx.Err(), context.Canceled)
	}
}
