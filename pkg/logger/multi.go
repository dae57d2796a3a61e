package logger

// MultiLogger fans every message out to a set of backends. The daemon
// uses it to pair console output with the append-only file log, and on
// Windows with the event log, without the call sites knowing how many
// sinks are attached.
type MultiLogger struct {
	sinks []Logger
}

// NewMultiLogger builds a logger over the given backends. Messages
// reach every backend in argument order; a failing backend never
// blocks the others.
func NewMultiLogger(sinks ...Logger) *MultiLogger {
	return &MultiLogger{sinks: sinks}
}

func (m *MultiLogger) each(fn func(Logger)) {
	for _, l := range m.sinks {
		fn(l)
	}
}

func (m *MultiLogger) Info(format string, args ...interface{}) {
	m.each(func(l Logger) { l.Info(format, args...) })
}

func (m *MultiLogger) Warning(format string, args ...interface{}) {
	m.each(func(l Logger) { l.Warning(format, args...) })
}

func (m *MultiLogger) Error(format string, args ...interface{}) {
	m.each(func(l Logger) { l.Error(format, args...) })
}

// Close closes every backend and reports the first failure. Later
// backends are still closed after an earlier one fails.
func (m *MultiLogger) Close() error {
	var firstErr error
	m.each(func(l Logger) {
		if err := l.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	})
	return firstErr
}

var _ Logger = (*MultiLogger)(nil)
