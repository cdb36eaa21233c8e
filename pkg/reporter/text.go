package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gojshint/internal/ui/pretty"
	"github.com/yaklabco/gojshint/pkg/lint"
	"github.com/yaklabco/gojshint/pkg/marker"
)

// TextReporter formats markers as styled terminal output grouped by file.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, markers []marker.Marker) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if len(markers) == 0 {
		fmt.Fprintln(r.bw, r.styles.Success.Render("No markers"))
		return 0, nil
	}

	for _, group := range groupByResource(markers) {
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(group[0].Resource, len(group)))
		for _, m := range group {
			// Stored markers keep no column, only the line.
			diag := lint.Diagnostic{Line: m.Line, Message: m.Message, Code: m.Code}
			fmt.Fprint(r.bw, r.styles.FormatDiagnostic(m.Resource, diag, m.Severity, false))
		}
		fmt.Fprintln(r.bw)
	}

	return len(markers), nil
}
