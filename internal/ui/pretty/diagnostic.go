package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gojshint/pkg/lint"
	"github.com/yaklabco/gojshint/pkg/marker"
)

// FormatDiagnostic formats a single diagnostic of path for terminal output,
// with the offending source line underneath when showContext is set.
func (s *Styles) FormatDiagnostic(path string, diag lint.Diagnostic, severity marker.Severity, showContext bool) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d", s.FilePath.Render(path), diag.Line)
	if diag.Character > 0 {
		location += fmt.Sprintf(":%d", diag.Character)
	}

	builder.WriteString(fmt.Sprintf("  %s  %s  %s",
		location,
		s.FormatSeverity(severity),
		s.Message.Render(diag.Message),
	))
	if diag.Code != "" {
		builder.WriteString("  " + s.Code.Render("("+diag.Code+")"))
	}
	builder.WriteString("\n")

	if showContext && diag.Evidence != "" {
		builder.WriteString(s.FormatSourceContext(diag.Evidence, diag.Character))
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev marker.Severity) string {
	switch sev {
	case marker.SeverityError:
		return s.Error.Render("error")
	case marker.SeverityWarning:
		return s.Warning.Render("warning")
	case marker.SeverityInfo:
		return s.Info.Render("info")
	default:
		return sev.String()
	}
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "        "

	builder.WriteString(indent + s.Evidence.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}
