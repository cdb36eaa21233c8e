package build_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gojshint/pkg/build"
	"github.com/yaklabco/gojshint/pkg/engine"
	"github.com/yaklabco/gojshint/pkg/marker"
)

func TestRunProjects(t *testing.T) {
	t.Parallel()

	first := newFixture(t, map[string]string{"a.js": undefJS, "b.js": cleanJS})
	first.save(t, undefPrefs(t))
	second := newFixture(t, map[string]string{"lib/c.js": brokenJS})

	opts := build.Options{Resolver: first.resolver}
	results, err := build.RunProjects(testContext(), []build.Target{
		{Project: first.project, Sink: first.sink},
		{Project: second.project, Sink: second.sink},
	}, opts, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, first.project.Name(), results[0].Project)
	assert.Equal(t, second.project.Name(), results[1].Project)
	assert.Equal(t, []string{"a.js"}, first.markedFiles(t))
	assert.Equal(t, []string{"lib/c.js"}, second.markedFiles(t))

	total := build.Total(results)
	assert.Equal(t, 3, total.Stats.FilesChecked)
	assert.Equal(t, 2, total.Stats.FilesWithIssues)
	assert.Equal(t, 2, total.Stats.DiagnosticsTotal)
	assert.Equal(t, 2, total.Stats.DiagnosticsBySeverity["warning"])
	assert.True(t, total.HasIssues())
	assert.False(t, total.HasFailures())
}

func TestRunProjects_PrepareFailureStopsRun(t *testing.T) {
	t.Parallel()

	good := newFixture(t, map[string]string{"a.js": cleanJS})
	bad := newFixture(t, map[string]string{"engine.js": "throw new Error('no');"})

	opts := build.Options{
		Resolver:   good.resolver,
		EnginePath: filepath.Join(bad.project.Root(), "engine.js"),
	}
	_, err := build.RunProjects(testContext(), []build.Target{
		{Project: good.project, Sink: good.sink},
		{Project: bad.project, Sink: bad.sink},
	}, opts, 1)

	var loadErr *engine.EngineLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestTotal_Empty(t *testing.T) {
	t.Parallel()

	total := build.Total(nil)
	assert.Zero(t, total.Stats.FilesVisited)
	assert.False(t, total.HasIssues())
	assert.NoError(t, total.Err())
}

func TestRetractRemoved_NilDelta(t *testing.T) {
	t.Parallel()

	n, err := build.RetractRemoved(testContext(), marker.NewMemorySink(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
