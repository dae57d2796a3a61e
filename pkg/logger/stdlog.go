package logger

import "log"

// stdWriter adapts a Logger to io.Writer so it can back a *log.Logger.
type stdWriter struct {
	l Logger
}

func (w *stdWriter) Write(p []byte) (int, error) {
	msg := string(p)
	if n := len(msg); n > 0 && msg[n-1] == '\n' {
		msg = msg[:n-1]
	}
	w.l.Info("%s", msg)
	return len(p), nil
}

// ToStdLogger wraps a Logger in a stdlib *log.Logger for components that
// only accept the standard library interface. All lines are logged at
// Info level.
func ToStdLogger(l Logger) *log.Logger {
	return log.New(&stdWriter{l: l}, "", 0)
}
