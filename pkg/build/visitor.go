// Package build runs the lint engine over a project tree, keeping the
// problem markers of every visited file in sync with its content.
package build

import (
	"context"
	"fmt"
	"time"

	"github.com/yaklabco/gojshint/internal/logging"
	"github.com/yaklabco/gojshint/internal/metrics"
	"github.com/yaklabco/gojshint/pkg/engine"
	"github.com/yaklabco/gojshint/pkg/lint"
	"github.com/yaklabco/gojshint/pkg/marker"
	"github.com/yaklabco/gojshint/pkg/prefs"
	"github.com/yaklabco/gojshint/pkg/workspace"
)

const (
	// Extension selects the files handed to the engine.
	Extension = "js"

	// OutputDir is the build output directory, skipped when it sits
	// directly under the project root.
	OutputDir = "bin"
)

// Options wires a Visitor to its collaborators.
type Options struct {
	// Resolver supplies the project preferences. Required.
	Resolver *prefs.Resolver

	// Sink receives the markers. Required.
	Sink marker.Sink

	// Policy maps diagnostics to marker severity. Nil means
	// marker.AlwaysWarning.
	Policy marker.SeverityPolicy

	// EnginePath is a custom engine script. Empty selects the bundled one.
	EnginePath string

	// Engine overrides EnginePath with an already loaded engine. It is
	// configured from the project preferences by NewVisitor.
	Engine engine.LintEngine

	// Metrics is optional.
	Metrics *metrics.Recorder
}

// Visitor performs one build of one project with a fixed preferences
// snapshot and one configured engine. Create a new Visitor for every build
// trigger so preference changes take effect; a Visitor must not run
// concurrently with itself.
type Visitor struct {
	project *workspace.Project
	prefs   *prefs.ProjectPreferences
	matcher *Matcher
	engine  engine.LintEngine
	sink    marker.Sink
	policy  marker.SeverityPolicy
	metrics *metrics.Recorder
}

// NewVisitor resolves the project preferences and prepares the engine.
// Engine load and configuration failures are returned.
func NewVisitor(ctx context.Context, project *workspace.Project, opts Options) (*Visitor, error) {
	logger := logging.FromContext(ctx).With(logging.FieldProject, project.Name())

	preferences, err := opts.Resolver.Load(ctx, project)
	if err != nil {
		return nil, err
	}
	opts.Metrics.PreferencesLoaded(preferences.SchemaVersion)

	matcher, err := NewMatcher(preferences.Excludes)
	if err != nil {
		logger.Warn("ignoring exclusion patterns", logging.FieldError, err)
	}

	policy := opts.Policy
	if policy == nil {
		policy = marker.AlwaysWarning
	}

	v := &Visitor{
		project: project,
		prefs:   preferences,
		matcher: matcher,
		sink:    opts.Sink,
		policy:  policy,
		metrics: opts.Metrics,
	}

	if !preferences.Enabled {
		return v, nil
	}

	if opts.Engine != nil {
		if err := opts.Engine.Configure(preferences.Configuration); err != nil {
			return nil, fmt.Errorf("configure lint engine: %w", err)
		}
		v.engine = opts.Engine
	} else {
		adapter, err := engine.NewFromFile(opts.EnginePath, preferences.Configuration)
		if err != nil {
			return nil, err
		}
		v.engine = adapter
	}

	logger.Debug("visitor ready",
		logging.FieldEnabled, preferences.Enabled,
		logging.FieldExcludes, matcher.Patterns(),
		logging.FieldOptions, preferences.Configuration.Serialize())

	return v, nil
}

// Preferences returns the snapshot this visitor builds with.
func (v *Visitor) Preferences() *prefs.ProjectPreferences {
	return v.prefs
}

// Run performs the traversal selected by input. Failures of single resources
// are collected in the result and returned joined; only cancellation stops
// the traversal early, leaving the remaining resources for the next build.
func (v *Visitor) Run(ctx context.Context, input Input) (*Result, error) {
	start := time.Now()
	logger := logging.FromContext(ctx).With(logging.FieldProject, v.project.Name())

	result := newResult(v.project.Name(), input.Mode())
	if !v.prefs.Enabled {
		result.Disabled = true
		logger.Debug("linting disabled, nothing to do")
		return result, nil
	}

	var err error
	if delta := input.Delta(); delta != nil {
		err = v.walkDelta(ctx, delta, result)
	} else {
		err = v.walk(ctx, v.project.RootResource(), result)
	}

	result.Duration = time.Since(start)
	v.metrics.Build(string(result.Mode), result.Duration)

	logger.Debug("build finished",
		logging.FieldMode, result.Mode,
		logging.FieldFilesVisited, result.Stats.FilesVisited,
		logging.FieldFilesChecked, result.Stats.FilesChecked,
		logging.FieldFilesSkipped, result.Stats.FilesSkipped,
		logging.FieldMarkersTotal, result.Stats.DiagnosticsTotal,
		logging.FieldMarkersPurged, result.Stats.MarkersRetracted,
		logging.FieldDuration, result.Duration)

	if err != nil {
		return result, err
	}
	return result, result.Err()
}

// walk visits res and, for containers that are not excluded, its subtree.
func (v *Visitor) walk(ctx context.Context, res workspace.Resource, result *Result) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("build %s: %w", v.project.Name(), err)
	}
	if !v.visit(ctx, res, result) {
		return nil
	}
	return v.walkChildren(ctx, res, result)
}

func (v *Visitor) walkChildren(ctx context.Context, res workspace.Resource, result *Result) error {
	children, err := res.Children()
	if err != nil {
		result.Errors = append(result.Errors, err)
		return nil
	}
	for _, child := range children {
		if err := v.walk(ctx, child, result); err != nil {
			return err
		}
	}
	return nil
}

// walkDelta visits the resources recorded in d. An added container brings
// its whole subtree; any other container only the children in the delta.
func (v *Visitor) walkDelta(ctx context.Context, d *workspace.Delta, result *Result) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("build %s: %w", v.project.Name(), err)
	}
	if d.Resource.Project() == nil {
		return nil
	}
	if !v.visit(ctx, d.Resource, result) {
		return nil
	}

	if d.Kind == workspace.Added {
		return v.walkChildren(ctx, d.Resource, result)
	}
	for _, child := range d.Children {
		if err := v.walkDelta(ctx, child, result); err != nil {
			return err
		}
	}
	return nil
}

// visit handles one resource and reports whether to descend into it.
func (v *Visitor) visit(ctx context.Context, res workspace.Resource, result *Result) bool {
	if !res.Exists() {
		return false
	}

	if res.IsContainer() {
		if v.skipContainer(res) {
			result.Stats.ContainersSkipped++
			return false
		}
		return true
	}

	outcome := v.checkFile(ctx, res)
	result.accumulate(outcome)
	return false
}

func (v *Visitor) skipContainer(res workspace.Resource) bool {
	if res.IsRoot() {
		return false
	}
	if res.Depth() == 1 && res.Name() == OutputDir {
		return true
	}
	return v.matcher.Match(res.Rel())
}

// checkFile retracts the file's markers and, for eligible files, checks it.
func (v *Visitor) checkFile(ctx context.Context, res workspace.Resource) FileOutcome {
	logger := logging.FromContext(ctx)
	outcome := FileOutcome{Resource: res.Rel()}

	retracted, err := v.sink.Retract(ctx, res.Rel())
	if err != nil {
		outcome.Error = fmt.Errorf("retract markers of %s: %w", res, err)
		v.metrics.File("failed")
		return outcome
	}
	outcome.Retracted = retracted
	v.metrics.Retracted(retracted)

	if res.Extension() != Extension || v.matcher.Match(res.Rel()) {
		v.metrics.File("skipped")
		return outcome
	}

	text, _, err := res.Contents(ctx)
	if err != nil {
		outcome.Error = fmt.Errorf("read %s: %w", res, err)
		v.metrics.File("failed")
		return outcome
	}

	create := marker.NewHandler(ctx, v.sink, res.Rel(), v.policy)
	handler := func(d lint.Diagnostic) error {
		if err := create(d); err != nil {
			return err
		}
		severity := v.policy(d).String()
		outcome.count(severity)
		v.metrics.Diagnostic(severity)
		return nil
	}

	start := time.Now()
	clean, err := v.engine.Check(ctx, text, handler)
	v.metrics.Check(time.Since(start))

	outcome.Checked = true
	outcome.Clean = clean
	if err != nil {
		outcome.Error = fmt.Errorf("check %s: %w", res, err)
		v.metrics.File("failed")
		return outcome
	}

	v.metrics.File("checked")
	logger.Debug("checked",
		logging.FieldResource, res.Rel(),
		logging.FieldDiagnostics, outcome.Diagnostics)
	return outcome
}
