package logger

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// FileLogger appends timestamped log lines to a file.
// Used for the daemon's activity log when it runs detached from a terminal.
type FileLogger struct {
	mu   sync.Mutex
	file afero.File
}

// NewFileLogger opens (or creates) the log file at path in append mode.
// The fs parameter allows tests to substitute an in-memory filesystem.
func NewFileLogger(fs afero.Fs, path string) (*FileLogger, error) {
	f, err := fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &FileLogger{file: f}, nil
}

func (f *FileLogger) write(level, format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return
	}
	line := fmt.Sprintf("[%s] %s %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		level,
		fmt.Sprintf(format, args...),
	)
	// Write errors are ignored; logging must never break the daemon.
	_, _ = f.file.WriteString(line)
}

// Info appends an informational line to the log file.
func (f *FileLogger) Info(format string, args ...interface{}) {
	f.write("[INFO]", format, args...)
}

// Warning appends a warning line to the log file.
func (f *FileLogger) Warning(format string, args ...interface{}) {
	f.write("[WARNING]", format, args...)
}

// Error appends an error line to the log file.
func (f *FileLogger) Error(format string, args ...interface{}) {
	f.write("[ERROR]", format, args...)
}

// Close closes the underlying log file. Safe to call multiple times.
func (f *FileLogger) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// Ensure FileLogger satisfies the Logger interface.
var _ Logger = (*FileLogger)(nil)
