package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gojshint/pkg/marker"
)

// jsonVersion is the version of the JSON document layout.
const jsonVersion = "1"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string      `json:"version"`
	Files   []JSONFile  `json:"files"`
	Summary JSONSummary `json:"summary"`
}

// JSONFile holds the markers of one resource.
type JSONFile struct {
	Path    string       `json:"path"`
	Markers []JSONMarker `json:"markers"`
}

// JSONMarker represents a single marker.
type JSONMarker struct {
	ID       string     `json:"id,omitempty"`
	Severity string     `json:"severity"`
	Message  string     `json:"message"`
	Line     int        `json:"line"`
	Code     string     `json:"code,omitempty"`
	Range    *JSONRange `json:"range,omitempty"`
}

// JSONRange is the absolute character range of a marker.
type JSONRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	Markers    int            `json:"markers"`
	Files      int            `json:"files"`
	BySeverity map[string]int `json:"bySeverity"`
}

// JSONReporter formats markers as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, markers []marker.Marker) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := BuildJSON(markers)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.Markers, nil
}

// BuildJSON converts markers into the JSON document.
func BuildJSON(markers []marker.Marker) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFile, 0),
		Summary: JSONSummary{BySeverity: make(map[string]int)},
	}

	for _, group := range groupByResource(markers) {
		file := JSONFile{
			Path:    group[0].Resource,
			Markers: make([]JSONMarker, 0, len(group)),
		}
		for _, m := range group {
			jm := JSONMarker{
				ID:       m.ID,
				Severity: m.Severity.String(),
				Message:  m.Message,
				Line:     m.Line,
				Code:     m.Code,
			}
			if m.HasRange() {
				jm.Range = &JSONRange{Start: m.CharStart, End: m.CharEnd}
			}
			file.Markers = append(file.Markers, jm)
			output.Summary.BySeverity[jm.Severity]++
		}
		output.Files = append(output.Files, file)
		output.Summary.Markers += len(group)
	}
	output.Summary.Files = len(output.Files)

	return output
}
