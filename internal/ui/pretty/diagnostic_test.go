package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gojshint/internal/ui/pretty"
	"github.com/yaklabco/gojshint/pkg/lint"
	"github.com/yaklabco/gojshint/pkg/marker"
)

func TestFormatDiagnostic_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	diag := lint.Diagnostic{
		Line:      10,
		Character: 5,
		Message:   "Missing semicolon",
		Code:      "W033",
	}

	result := styles.FormatDiagnostic("src/app.js", diag, marker.SeverityWarning, false)

	assert.Equal(t, "  src/app.js:10:5  warning  Missing semicolon  (W033)\n", result)
}

func TestFormatDiagnostic_WithContext(t *testing.T) {
	styles := pretty.NewStyles(false)

	diag := lint.Diagnostic{
		Line:      1,
		Character: 7,
		Message:   "Expected '=' and instead saw '=='",
		Code:      "E001",
		Evidence:  "var a == 23;",
	}

	result := styles.FormatDiagnostic("a.js", diag, marker.SeverityError, true)
	lines := strings.Split(strings.TrimSuffix(result, "\n"), "\n")

	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "a.js:1:7  error")
	assert.Equal(t, "        var a == 23;", lines[1])
	assert.Equal(t, "              ^", lines[2])
}

func TestFormatDiagnostic_UnknownPosition(t *testing.T) {
	styles := pretty.NewStyles(false)

	diag := lint.Diagnostic{
		Line:      0,
		Character: lint.Unknown,
		Message:   "Could not evaluate JavaScript code: boom",
		Evidence:  "ignored without a column",
	}

	result := styles.FormatDiagnostic("a.js", diag, marker.SeverityWarning, true)

	assert.True(t, strings.HasPrefix(result, "  a.js:0  warning  Could not evaluate"))
	assert.NotContains(t, result, "^")
	assert.NotContains(t, result, "()")
}

func TestFormatSeverity(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		severity marker.Severity
		want     string
	}{
		{marker.SeverityError, "error"},
		{marker.SeverityWarning, "warning"},
		{marker.SeverityInfo, "info"},
		{marker.Severity(42), "Severity(42)"},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.want, styles.FormatSeverity(testCase.severity))
	}
}

func TestFormatFileHeader(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "a.js (3 issues)", styles.FormatFileHeader("a.js", 3))
	assert.Equal(t, "b.js", styles.FormatFileHeader("b.js", 0))
}
