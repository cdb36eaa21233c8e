// Package engine runs a scriptable JavaScript lint engine inside an embedded
// ECMAScript runtime and reports its problems as lint diagnostics.
//
// The engine follows the JSHINT calling convention: a global function
// JSHINT(source, options) that returns true for clean input and leaves its
// problem records in JSHINT.errors.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yaklabco/gojshint/pkg/config"
	"github.com/yaklabco/gojshint/pkg/lint"
)

// EntrySymbol is the global function every engine script must define.
const EntrySymbol = "JSHINT"

// EvalFailurePrefix starts the message of the synthetic diagnostic reported
// when the engine throws while checking a source text.
const EvalFailurePrefix = "Could not evaluate JavaScript code: "

var (
	// ErrMissingEntry is wrapped by EngineLoadError when the script does not
	// define EntrySymbol as a function.
	ErrMissingEntry = errors.New("entry function " + EntrySymbol + " is not defined")

	// ErrNotLoaded is returned by Configure and Check before Load succeeded.
	ErrNotLoaded = errors.New("lint engine not loaded")

	// ErrAlreadyLoaded is returned by a second Load on the same adapter.
	ErrAlreadyLoaded = errors.New("lint engine already loaded")
)

// EngineLoadError reports an engine script that could not be compiled,
// evaluated, or that lacks its entry function.
type EngineLoadError struct {
	// Source names the script: "bundled" or the custom script path.
	Source string
	Err    error
}

func (e *EngineLoadError) Error() string {
	return fmt.Sprintf("load lint engine %s: %v", e.Source, e.Err)
}

func (e *EngineLoadError) Unwrap() error {
	return e.Err
}

// Handler receives each diagnostic of a check. A non-nil error stops the
// check and is returned from Check.
type Handler func(lint.Diagnostic) error

// LintEngine is the capability the build layer needs from a lint engine.
type LintEngine interface {
	// Load compiles and evaluates the engine script once. A nil reader
	// selects the bundled engine.
	Load(src io.Reader) error

	// Configure evaluates the options document used by subsequent checks.
	// It must be called again whenever the configuration changes.
	Configure(cfg *config.Configuration) error

	// Check lints source and forwards every problem to handler. It returns
	// true when the engine reported no problems.
	Check(ctx context.Context, source string, handler Handler) (bool, error)
}

// Collect returns a Handler that appends diagnostics to dst.
func Collect(dst *[]lint.Diagnostic) Handler {
	return func(d lint.Diagnostic) error {
		*dst = append(*dst, d)
		return nil
	}
}
