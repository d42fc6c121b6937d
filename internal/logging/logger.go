package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Logger is a logrus logger that appends to .tagup/logs/tagup.log so
// diagnostics survive after the TUI releases the terminal. Stdout belongs
// to the board view and must stay clean.
type Logger struct {
	*log.Logger
	file *os.File
}

// New creates (or reuses) the log file under the given logs directory.
func New(logsDir string, debug bool) (*Logger, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logsDir, "tagup.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}

	l := log.New()
	l.SetOutput(f)
	l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if debug {
		l.SetLevel(log.DebugLevel)
	}
	return &Logger{Logger: l, file: f}, nil
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Discard returns a logger that drops everything, for tests and defaults.
func Discard() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}
