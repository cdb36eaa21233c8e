package build

import (
	"errors"
	"time"
)

// FileOutcome is what happened to one file during a build.
type FileOutcome struct {
	// Resource is the project-relative path.
	Resource string

	// Checked is false when the file was only cleared of markers, because it
	// is not a JavaScript file or it is excluded.
	Checked bool

	// Clean is the engine verdict for checked files.
	Clean bool

	// Diagnostics is the number of markers created.
	Diagnostics int

	// BySeverity splits Diagnostics by marker severity name.
	BySeverity map[string]int

	// Retracted is the number of markers removed before the check.
	Retracted int

	// Error is set when the file could not be processed.
	Error error
}

func (o *FileOutcome) count(severity string) {
	if o.BySeverity == nil {
		o.BySeverity = make(map[string]int)
	}
	o.Diagnostics++
	o.BySeverity[severity]++
}

// Stats captures aggregate information about a build.
type Stats struct {
	// FilesVisited counts every file the traversal reached.
	FilesVisited int

	// FilesChecked counts files handed to the lint engine.
	FilesChecked int

	// FilesSkipped counts files cleared but not checked.
	FilesSkipped int

	// FilesErrored counts files that failed.
	FilesErrored int

	// FilesWithIssues counts checked files with at least one diagnostic.
	FilesWithIssues int

	// ContainersSkipped counts excluded directories not descended into.
	ContainersSkipped int

	// DiagnosticsTotal is the number of markers created.
	DiagnosticsTotal int

	// DiagnosticsBySeverity maps marker severity names to counts.
	DiagnosticsBySeverity map[string]int

	// MarkersRetracted is the number of markers removed.
	MarkersRetracted int
}

// Result is the outcome of one build of one project.
type Result struct {
	Project string
	Mode    Mode

	// Disabled is set when the project has linting turned off and nothing
	// was visited.
	Disabled bool

	// Files are in traversal order, which is path order.
	Files []FileOutcome

	Stats Stats

	// Errors holds per-resource failures. They never stop the traversal.
	Errors []error

	Duration time.Duration
}

func newResult(project string, mode Mode) *Result {
	return &Result{
		Project: project,
		Mode:    mode,
		Stats:   Stats{DiagnosticsBySeverity: make(map[string]int)},
	}
}

// Err joins the per-resource errors, nil when there were none.
func (r *Result) Err() error {
	if r == nil {
		return nil
	}
	return errors.Join(r.Errors...)
}

// HasFailures reports whether any marker has error severity.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsBySeverity["error"] > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)
	r.Stats.FilesVisited++
	r.Stats.MarkersRetracted += outcome.Retracted

	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
		r.Errors = append(r.Errors, outcome.Error)
	case !outcome.Checked:
		r.Stats.FilesSkipped++
	default:
		r.Stats.FilesChecked++
		r.Stats.DiagnosticsTotal += outcome.Diagnostics
		for severity, n := range outcome.BySeverity {
			r.Stats.DiagnosticsBySeverity[severity] += n
		}
		if outcome.Diagnostics > 0 {
			r.Stats.FilesWithIssues++
		}
	}
}

// merge folds other into r. Used when several results describe one session.
func (r *Result) merge(other *Result) {
	r.Files = append(r.Files, other.Files...)
	r.Errors = append(r.Errors, other.Errors...)
	r.Duration += other.Duration

	r.Stats.FilesVisited += other.Stats.FilesVisited
	r.Stats.FilesChecked += other.Stats.FilesChecked
	r.Stats.FilesSkipped += other.Stats.FilesSkipped
	r.Stats.FilesErrored += other.Stats.FilesErrored
	r.Stats.FilesWithIssues += other.Stats.FilesWithIssues
	r.Stats.ContainersSkipped += other.Stats.ContainersSkipped
	r.Stats.DiagnosticsTotal += other.Stats.DiagnosticsTotal
	r.Stats.MarkersRetracted += other.Stats.MarkersRetracted
	for severity, n := range other.Stats.DiagnosticsBySeverity {
		r.Stats.DiagnosticsBySeverity[severity] += n
	}
}
