package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gojshint/internal/logging"
	"github.com/yaklabco/gojshint/pkg/build"
)

// Exit codes for gojshint.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitLintErrors indicates lint completed but found errors.
	ExitLintErrors = 1

	// ExitLintWarnings indicates lint completed but found warnings (when strict mode).
	ExitLintWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70
)

var (
	// ErrLintIssuesFound is returned when a build found problems that fail
	// the run.
	ErrLintIssuesFound = errors.New("lint issues found")

	// ErrUsage marks failures detected before any file was processed.
	ErrUsage = errors.New("invalid usage")
)

// UsageError is a failure detected while validating the invocation. The
// command's usage synopsis is printed after its message.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() []error {
	return []error{ErrUsage, e.Err}
}

func usageError(err error) error {
	return &UsageError{Err: err}
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// ReportError prints err for the command that failed. Lint findings were
// already reported and print nothing; usage errors print one line followed
// by the usage synopsis; anything else is logged.
func ReportError(cmd *cobra.Command, err error) {
	switch {
	case err == nil, errors.Is(err, ErrLintIssuesFound):
		return
	case errors.Is(err, ErrUsage):
		cmd.PrintErrln("Error: " + err.Error())
		cmd.SetOut(cmd.ErrOrStderr())
		_ = cmd.Usage()
	default:
		logging.FromContext(cmd.Context()).Error("command failed", logging.FieldError, err)
	}
}

// ExitCode maps an Execute error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrLintIssuesFound):
		return ExitLintErrors
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	default:
		return ExitInternalError
	}
}

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *build.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	errors := result.Stats.DiagnosticsBySeverity["error"]
	warnings := result.Stats.DiagnosticsBySeverity["warning"]

	if errors > 0 {
		return ExitLintErrors
	}

	if strict && warnings > 0 {
		return ExitLintWarnings
	}

	return ExitSuccess
}
