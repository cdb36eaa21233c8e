package marker

import (
	"context"
	"fmt"

	"github.com/yaklabco/gojshint/pkg/engine"
	"github.com/yaklabco/gojshint/pkg/lint"
)

// SeverityPolicy maps a diagnostic to a marker severity.
type SeverityPolicy func(lint.Diagnostic) Severity

// AlwaysWarning reports every diagnostic as a warning, whatever its code.
// It is the default policy.
func AlwaysWarning(lint.Diagnostic) Severity {
	return SeverityWarning
}

// ErrorsFromCode escalates diagnostics the engine classifies as errors.
func ErrorsFromCode(d lint.Diagnostic) Severity {
	if d.IsError() {
		return SeverityError
	}
	return SeverityWarning
}

// FromDiagnostic builds the marker for d on resource.
func FromDiagnostic(resource string, d lint.Diagnostic, policy SeverityPolicy) Marker {
	if policy == nil {
		policy = AlwaysWarning
	}

	m := Marker{
		Resource:  resource,
		Type:      TypeTag,
		Severity:  policy(d),
		Message:   d.Message,
		Line:      d.Line,
		CharStart: NoRange,
		CharEnd:   NoRange,
		Code:      d.Code,
	}
	if d.HasOffset() {
		m.CharStart = d.Offset
		m.CharEnd = d.Offset
	}
	return m
}

// NewHandler returns an engine handler creating one marker per diagnostic
// on resource. A sink failure is returned to the engine adapter, which stops
// the check.
func NewHandler(ctx context.Context, sink Sink, resource string, policy SeverityPolicy) engine.Handler {
	return func(d lint.Diagnostic) error {
		if _, err := sink.Create(ctx, FromDiagnostic(resource, d, policy)); err != nil {
			return fmt.Errorf("create marker on %s line %d: %w", resource, d.Line, err)
		}
		return nil
	}
}
