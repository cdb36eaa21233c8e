// Package lint holds the diagnostic model and the translation of raw lint
// engine records into it.
package lint

import "fmt"

// Unknown marks a numeric field the engine did not report.
const Unknown = -1

// Diagnostic is one problem reported by the lint engine. Values are derived
// from engine output through Translate and are not modified afterwards.
type Diagnostic struct {
	// Line is the 1-based line number. 0 is used for problems that are not
	// tied to a line, such as an engine failure.
	Line int

	// Character is the 1-based column, or Unknown.
	Character int

	// Offset is the absolute character offset of Line/Character in the
	// checked text, or Unknown when the column is unknown.
	Offset int

	// Message is the engine reason with one trailing period removed.
	Message string

	// Code is the engine-specific problem code, possibly empty.
	Code string

	// Evidence is the offending source line when the engine supplies it.
	Evidence string
}

// IsError reports whether the engine classifies the problem as an error:
// the code is non-empty and starts with 'E'.
func (d Diagnostic) IsError() bool {
	return d.Code != "" && d.Code[0] == 'E'
}

// HasOffset reports whether an absolute offset is known.
func (d Diagnostic) HasOffset() bool {
	return d.Offset >= 0
}

// String renders the diagnostic as "line:character: message (code)".
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%d:%d: %s", d.Line, d.Character, d.Message)
	if d.Code != "" {
		s += " (" + d.Code + ")"
	}
	return s
}
