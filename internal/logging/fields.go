// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldDatabase   = "database"
	FieldAddr       = "addr"

	// Project and preference fields.
	FieldProject   = "project"
	FieldNamespace = "namespace"
	FieldSchema    = "schema"
	FieldKey       = "key"
	FieldEnabled   = "enabled"
	FieldExcludes  = "excludes"

	// Engine fields.
	FieldEngine  = "engine"
	FieldOptions = "options"
	FieldCharset = "charset"

	// Build fields.
	FieldMode        = "mode"
	FieldResource    = "resource"
	FieldDelta       = "delta"
	FieldDiagnostics = "diagnostics"
	FieldLine        = "line"
	FieldCode        = "code"

	// Statistics fields.
	FieldFilesVisited  = "files_visited"
	FieldFilesChecked  = "files_checked"
	FieldFilesSkipped  = "files_skipped"
	FieldMarkersTotal  = "markers_total"
	FieldMarkersPurged = "markers_retracted"
	FieldDuration      = "duration"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
