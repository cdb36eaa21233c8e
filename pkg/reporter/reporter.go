// Package reporter renders problem markers for terminals and tools.
package reporter

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/yaklabco/gojshint/pkg/marker"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Reporter formats and writes markers.
type Reporter interface {
	// Report writes formatted output for markers, which are expected in
	// sink order (by resource, then line). It returns the number of markers
	// reported and any write error.
	Report(ctx context.Context, markers []marker.Marker) (int, error)
}

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output: "auto", "always" or "never".
	Color string

	// Compact uses minified output for JSON and SARIF.
	Compact bool

	// Root is the absolute project directory marker resources are relative
	// to. SARIF output anchors artifact locations on it when set.
	Root string

	// ToolVersion is written into SARIF tool metadata.
	ToolVersion string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatTable,
		Color:       "auto",
		ToolVersion: "dev",
	}
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	defaults := DefaultOptions()
	if opts.Writer == nil {
		opts.Writer = defaults.Writer
	}
	if opts.Color == "" {
		opts.Color = defaults.Color
	}
	if opts.ToolVersion == "" {
		opts.ToolVersion = defaults.ToolVersion
	}

	format := opts.Format
	if format == "" {
		format = FormatTable
	}

	switch format {
	case FormatTable:
		return NewTableReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatLines:
		return NewLinesReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatSARIF:
		return NewSARIFReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// groupByResource splits markers into runs of the same resource, keeping
// their order.
func groupByResource(markers []marker.Marker) [][]marker.Marker {
	var groups [][]marker.Marker
	for i, m := range markers {
		if i == 0 || m.Resource != markers[i-1].Resource {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], m)
	}
	return groups
}
