package workspace_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gojshint/pkg/workspace"
)

// writeTree creates files (slash-separated paths) under a new temp project.
func writeTree(t *testing.T, files map[string]string) *workspace.Project {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	project, err := workspace.OpenProject(root)
	require.NoError(t, err)
	return project
}

func TestOpenProject_NotDirectory(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "a.js")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := workspace.OpenProject(file)
	assert.ErrorIs(t, err, workspace.ErrNotDirectory)
}

func TestResource_Identity(t *testing.T) {
	t.Parallel()

	project := writeTree(t, map[string]string{"src/app.js": "var a;"})

	tests := []struct {
		rel      string
		wantRel  string
		wantExt  string
		wantName string
		depth    int
	}{
		{rel: "", wantRel: "", wantName: project.Name(), depth: 0},
		{rel: ".", wantRel: "", wantName: project.Name(), depth: 0},
		{rel: "src/app.js", wantRel: "src/app.js", wantExt: "js", wantName: "app.js", depth: 2},
		{rel: "/src/./lib/../app.js", wantRel: "src/app.js", wantExt: "js", wantName: "app.js", depth: 2},
		{rel: "README", wantRel: "README", wantName: "README", depth: 1},
	}

	for _, testCase := range tests {
		t.Run(testCase.rel, func(t *testing.T) {
			t.Parallel()

			res := project.Resource(testCase.rel)
			assert.Equal(t, testCase.wantRel, res.Rel())
			assert.Equal(t, testCase.wantExt, res.Extension())
			assert.Equal(t, testCase.wantName, res.Name())
			assert.Equal(t, testCase.depth, res.Depth())
		})
	}
}

func TestResource_Tree(t *testing.T) {
	t.Parallel()

	project := writeTree(t, map[string]string{
		"b.js":     "",
		"a/x.js":   "",
		"a/y.txt":  "",
		"c/d/e.js": "",
	})

	root := project.RootResource()
	assert.True(t, root.IsContainer())

	children, err := root.Children()
	require.NoError(t, err)

	names := make([]string, 0, len(children))
	for _, child := range children {
		names = append(names, child.Rel())
	}
	assert.Equal(t, []string{"a", "b.js", "c"}, names)

	file := project.Resource("a/x.js")
	assert.True(t, file.Exists())
	assert.False(t, file.IsContainer())

	parent, ok := file.Parent()
	require.True(t, ok)
	assert.Equal(t, "a", parent.Rel())

	_, ok = root.Parent()
	assert.False(t, ok)

	assert.False(t, project.Resource("gone.js").Exists())
}

func TestResourceFor(t *testing.T) {
	t.Parallel()

	project := writeTree(t, nil)

	res, ok := project.ResourceFor(filepath.Join(project.Root(), "lib", "a.js"))
	require.True(t, ok)
	assert.Equal(t, "lib/a.js", res.Rel())

	_, ok = project.ResourceFor(filepath.Dir(project.Root()))
	assert.False(t, ok)
}

func TestResource_Contents(t *testing.T) {
	t.Parallel()

	project := writeTree(t, map[string]string{"latin.js": "var s = '\xe9';"})

	text, info, err := project.Resource("latin.js").Contents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, info)
	assert.Equal(t, "var s = '\xe9';", text)

	require.NoError(t, project.SetCharset("ISO-8859-1"))
	text, _, err = project.Resource("latin.js").Contents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "var s = 'é';", text)
}
