// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // Fallback for code running outside a command context.
var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
)

// NewWithWriter creates a logger that writes to w with the specified level.
// Valid levels: "debug", "info", "warn", "error". Anything else is info.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	logger.SetLevel(parseLevel(level))
	return logger
}

// NewInteractive creates a logger for user-facing command output on w.
func NewInteractive(w io.Writer) *log.Logger {
	return NewWithWriter(w, "info")
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *log.Logger {
	return NewWithWriter(io.Discard, "error")
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Default returns the stderr logger at info level used when no logger was
// attached to a context.
func Default() *log.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = NewWithWriter(os.Stderr, "info")
	})
	return defaultLogger
}
