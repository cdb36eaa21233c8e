package cli_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gojshint/internal/cli"
	"github.com/yaklabco/gojshint/pkg/build"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: cli.ExitSuccess},
		{name: "lint issues", err: fmt.Errorf("wrapped: %w", cli.ErrLintIssuesFound), want: cli.ExitLintErrors},
		{name: "usage", err: &cli.UsageError{Err: errors.New("bad flag")}, want: cli.ExitInvalidUsage},
		{name: "other", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, cli.ExitCode(testCase.err))
		})
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	withCounts := func(counts map[string]int) *build.Result {
		return &build.Result{Stats: build.Stats{DiagnosticsBySeverity: counts}}
	}

	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(nil, true))
	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(withCounts(map[string]int{"warning": 2}), false))
	assert.Equal(t, cli.ExitLintWarnings, cli.ExitCodeFromResult(withCounts(map[string]int{"warning": 2}), true))
	assert.Equal(t, cli.ExitLintErrors, cli.ExitCodeFromResult(withCounts(map[string]int{"error": 1}), false))
}

func TestUsageError(t *testing.T) {
	t.Parallel()

	inner := errors.New("unknown charset")
	err := &cli.UsageError{Err: inner}

	assert.Equal(t, "unknown charset", err.Error())
	assert.ErrorIs(t, err, cli.ErrUsage)
	assert.ErrorIs(t, err, inner)
}
