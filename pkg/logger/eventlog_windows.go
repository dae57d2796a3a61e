//go:build windows

package logger

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"
)

// Event IDs for Windows Event Log entries.
const (
	// EventIDInfo is used for informational messages (daemon started, stopped).
	EventIDInfo uint32 = 1

	// EventIDWarning is used for warning messages.
	EventIDWarning uint32 = 2

	// EventIDError is used for error messages (startup failures, shutdown errors).
	EventIDError uint32 = 3
)

// EventLogWriter abstracts the Windows Event Log API for testability.
// The interface matches the methods of eventlog.Log that EventLogger uses.
type EventLogWriter interface {
	// Info writes an information event to the event log.
	Info(eid uint32, msg string) error

	// Warning writes a warning event to the event log.
	Warning(eid uint32, msg string) error

	// Error writes an error event to the event log.
	Error(eid uint32, msg string) error

	// Close closes the event log handle.
	Close() error
}

// EventLogger writes log messages to Windows Event Log.
// The event source must be registered via eventlog.InstallAsEventCreate()
// before creating an EventLogger.
type EventLogger struct {
	log EventLogWriter
}

// NewEventLogger creates a logger that writes to Windows Event Log.
// sourceName is the Event Log source name.
// Returns error if the source is not registered or cannot be opened.
func NewEventLogger(sourceName string) (*EventLogger, error) {
	elog, err := eventlog.Open(sourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	return &EventLogger{log: elog}, nil
}

// NewEventLoggerWithWriter creates an EventLogger backed by the given writer.
// Used by tests to substitute a fake event log.
func NewEventLoggerWithWriter(w EventLogWriter) *EventLogger {
	return &EventLogger{log: w}
}

// Info logs an informational message to Windows Event Log.
func (e *EventLogger) Info(format string, args ...interface{}) {
	// Error intentionally ignored - the daemon must continue even if logging fails.
	_ = e.log.Info(EventIDInfo, fmt.Sprintf(format, args...))
}

// Warning logs a warning message to Windows Event Log.
func (e *EventLogger) Warning(format string, args ...interface{}) {
	_ = e.log.Warning(EventIDWarning, fmt.Sprintf(format, args...))
}

// Error logs an error message to Windows Event Log.
func (e *EventLogger) Error(format string, args ...interface{}) {
	_ = e.log.Error(EventIDError, fmt.Sprintf(format, args...))
}

// Close releases the Windows Event Log handle.
func (e *EventLogger) Close() error {
	if e.log != nil {
		return e.log.Close()
	}
	return nil
}

// Ensure EventLogger satisfies the Logger interface.
var _ Logger = (*EventLogger)(nil)
