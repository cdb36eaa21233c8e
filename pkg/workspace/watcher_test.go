package workspace_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gojshint/pkg/workspace"
)

func startWatcher(t *testing.T, project *workspace.Project, opts workspace.WatcherOptions) <-chan []workspace.Change {
	t.Helper()

	opts.Debounce = 30 * time.Millisecond
	watcher, err := workspace.NewWatcher(project, opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	deltas := make(chan []workspace.Change, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = watcher.Run(ctx, func(_ context.Context, delta *workspace.Delta) error {
			deltas <- delta.Changes()
			return nil
		})
	}()

	t.Cleanup(func() {
		cancel()
		_ = watcher.Close()
		<-done
	})
	return deltas
}

func nextDelta(t *testing.T, deltas <-chan []workspace.Change) []workspace.Change {
	t.Helper()

	select {
	case changes := <-deltas:
		return changes
	case <-time.After(5 * time.Second):
		t.Fatal("no delta within timeout")
		return nil
	}
}

func TestWatcher_FileLifecycle(t *testing.T) {
	t.Parallel()

	project := writeTree(t, map[string]string{"keep.js": "var k;"})
	deltas := startWatcher(t, project, workspace.WatcherOptions{})
	path := filepath.Join(project.Root(), "app.js")

	require.NoError(t, os.WriteFile(path, []byte("var a;"), 0o644))
	assert.Equal(t, []workspace.Change{{Path: "app.js", Kind: workspace.Added}}, nextDelta(t, deltas))

	require.NoError(t, os.WriteFile(path, []byte("var b;"), 0o644))
	assert.Equal(t, []workspace.Change{{Path: "app.js", Kind: workspace.Modified}}, nextDelta(t, deltas))

	// Identical bytes are not a change; the removal is the next delta.
	require.NoError(t, os.WriteFile(path, []byte("var b;"), 0o644))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.Remove(path))
	assert.Equal(t, []workspace.Change{{Path: "app.js", Kind: workspace.Removed}}, nextDelta(t, deltas))
}

func TestWatcher_NewDirectoryAndIgnored(t *testing.T) {
	t.Parallel()

	project := writeTree(t, map[string]string{"db/data": "x"})
	ignoreDB := func(rel string, _ bool) bool {
		return rel == "db" || strings.HasPrefix(rel, "db/")
	}
	deltas := startWatcher(t, project, workspace.WatcherOptions{Ignore: ignoreDB})

	require.NoError(t, os.WriteFile(filepath.Join(project.Root(), "db", "data"), []byte("y"), 0o644))

	dir := filepath.Join(project.Root(), "lib")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.js"), []byte("var a;"), 0o644))

	changes := nextDelta(t, deltas)
	require.NotEmpty(t, changes)
	assert.Equal(t, workspace.Change{Path: "lib", Kind: workspace.Added}, changes[0])
	for _, change := range changes {
		assert.NotContains(t, change.Path, "db")
	}
}

func TestWatcher_HiddenDirectoriesAreWatched(t *testing.T) {
	t.Parallel()

	project := writeTree(t, map[string]string{".storybook/main.js": "var a;"})
	deltas := startWatcher(t, project, workspace.WatcherOptions{})

	require.NoError(t, os.WriteFile(filepath.Join(project.Root(), ".storybook", "main.js"), []byte("var b;"), 0o644))
	assert.Equal(t,
		[]workspace.Change{{Path: ".storybook/main.js", Kind: workspace.Modified}},
		nextDelta(t, deltas))
}
