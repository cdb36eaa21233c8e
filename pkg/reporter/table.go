package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gojshint/internal/ui/pretty"
	"github.com/yaklabco/gojshint/pkg/marker"
)

// TableReporter formats markers as a styled table with color-coded rows.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)

	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, colorEnabled, pretty.TerminalWidth(opts.Writer)),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, markers []marker.Marker) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if len(markers) == 0 {
		fmt.Fprintln(r.bw, r.styles.Success.Render("No markers"))
		return 0, nil
	}

	fmt.Fprint(r.bw, r.formatter.FormatTable(markers))
	fmt.Fprintln(r.bw, r.formatter.FormatTableSummary(markers))

	return len(markers), nil
}
