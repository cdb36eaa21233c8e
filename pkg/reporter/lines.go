package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gojshint/pkg/marker"
)

// LinesReporter writes one "resource:line: severity: message" line per
// marker, the form editors and grep-like tools parse.
type LinesReporter struct {
	bw *bufio.Writer
}

// NewLinesReporter creates a new lines reporter.
func NewLinesReporter(opts Options) *LinesReporter {
	return &LinesReporter{bw: bufio.NewWriterSize(opts.Writer, bufWriterSize)}
}

// Report implements Reporter.
func (r *LinesReporter) Report(_ context.Context, markers []marker.Marker) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	for _, m := range markers {
		fmt.Fprintf(r.bw, "%s:%d: %s: %s\n", m.Resource, m.Line, m.Severity, m.Message)
	}
	return len(markers), nil
}
