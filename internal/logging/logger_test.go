package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gojshint/internal/logging"
)

func TestNewWithWriter_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		level    string
		expected log.Level
	}{
		{"debug level", "debug", log.DebugLevel},
		{"info level", "info", log.InfoLevel},
		{"warn level", "warn", log.WarnLevel},
		{"warning level", "warning", log.WarnLevel},
		{"error level", "error", log.ErrorLevel},
		{"invalid defaults to info", "invalid", log.InfoLevel},
		{"empty defaults to info", "", log.InfoLevel},
		{"case insensitive DEBUG", "DEBUG", log.DebugLevel},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			logger := logging.NewWithWriter(&bytes.Buffer{}, testCase.level)
			if logger.GetLevel() != testCase.expected {
				t.Errorf("expected level %v, got %v", testCase.expected, logger.GetLevel())
			}
		})
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	logger := logging.Default()
	if logger == nil {
		t.Fatal("Default returned nil logger")
	}
	if logging.Default() != logger {
		t.Error("Default should return the same logger every time")
	}
}

func TestNewInteractive(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewInteractive(&buf)
	logger.Debug("hidden")
	logger.Info("gojshint", logging.FieldVersion, "1.0.0")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered, got %q", out)
	}
	if !strings.Contains(out, "version=1.0.0") {
		t.Errorf("expected version field, got %q", out)
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", logging.FieldPath, "a.js")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "a.js") {
		t.Errorf("expected warn message with field, got %q", out)
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	logger := logging.Discard()
	ctx := logging.WithLogger(context.Background(), logger)

	if logging.FromContext(ctx) != logger {
		t.Error("FromContext did not return the attached logger")
	}
	if logging.FromContext(context.Background()) != logging.Default() {
		t.Error("FromContext without logger should fall back to the default")
	}
}

func TestAttach(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.Attach(context.Background(), &buf, "debug")
	logging.FromContext(ctx).Debug("attached")
	if !strings.Contains(buf.String(), "attached") {
		t.Errorf("expected debug output on the attached writer, got %q", buf.String())
	}

	// A logger already in the context is kept.
	existing := logging.Discard()
	kept := logging.Attach(logging.WithLogger(context.Background(), existing), &buf, "debug")
	if logging.FromContext(kept) != existing {
		t.Error("Attach replaced the logger already in the context")
	}
}
