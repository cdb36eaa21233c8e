// Package marker stores the problem markers derived from lint diagnostics
// and provides the engine handler that creates them.
package marker

import (
	"context"
	"fmt"
	"strings"
)

// TypeTag is the marker type owned by the lint build. Retraction only
// touches markers of this type.
const TypeTag = "gojshint.problem"

// NoRange marks an unknown character position.
const NoRange = -1

// Severity of a marker.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ParseSeverity is the inverse of Severity.String.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "info":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity %q", s)
	}
}

// Marker is a problem attached to a resource.
type Marker struct {
	ID string `json:"id"`

	// Resource is the slash-separated project-relative path.
	Resource string `json:"resource"`

	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Line     int      `json:"line"`

	// CharStart and CharEnd are absolute offsets, NoRange when unknown.
	CharStart int `json:"charStart"`
	CharEnd   int `json:"charEnd"`

	Code string `json:"code,omitempty"`
}

// HasRange reports whether the marker carries a character range.
func (m Marker) HasRange() bool {
	return m.CharStart >= 0
}

// Sink creates, retracts and lists markers. Implementations are safe for
// concurrent use.
type Sink interface {
	// Create stores m under a fresh ID and returns the stored marker.
	Create(ctx context.Context, m Marker) (Marker, error)

	// Retract deletes every TypeTag marker on resource, without descending
	// into children. It returns the number of markers removed.
	Retract(ctx context.Context, resource string) (int, error)

	// RetractTree deletes every TypeTag marker on resource and below it.
	RetractTree(ctx context.Context, resource string) (int, error)

	// List returns the markers on resource, or all markers for "", ordered
	// by resource, then line, then creation.
	List(ctx context.Context, resource string) ([]Marker, error)
}

func under(resource, tree string) bool {
	return tree == "" || resource == tree || strings.HasPrefix(resource, tree+"/")
}
