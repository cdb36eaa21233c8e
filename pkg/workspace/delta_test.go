package workspace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gojshint/pkg/workspace"
)

func TestNewDelta(t *testing.T) {
	t.Parallel()

	project := writeTree(t, nil)

	delta := workspace.NewDelta(project, []workspace.Change{
		{Path: "src/lib/b.js", Kind: workspace.Modified},
		{Path: "src/a.js", Kind: workspace.Added},
		{Path: "old", Kind: workspace.Removed},
		{Path: "src/a.js", Kind: workspace.Modified},
	})

	assert.True(t, delta.Resource.IsRoot())
	assert.Equal(t, workspace.Unchanged, delta.Kind)
	require.Len(t, delta.Children, 2)

	assert.Equal(t, "old", delta.Children[0].Resource.Rel())
	src := delta.Children[1]
	assert.Equal(t, "src", src.Resource.Rel())
	assert.Equal(t, workspace.Unchanged, src.Kind)
	require.Len(t, src.Children, 2)
	assert.Equal(t, "src/a.js", src.Children[0].Resource.Rel())
	assert.Equal(t, workspace.Modified, src.Children[0].Kind)
	assert.Equal(t, "src/lib", src.Children[1].Resource.Rel())

	assert.Equal(t, 3, delta.Len())
	assert.Equal(t, []string{"old"}, delta.Removed())
	assert.Equal(t, []workspace.Change{
		{Path: "old", Kind: workspace.Removed},
		{Path: "src/a.js", Kind: workspace.Modified},
		{Path: "src/lib/b.js", Kind: workspace.Modified},
	}, delta.Changes())
}

func TestChangeKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "added", workspace.Added.String())
	assert.Equal(t, "removed", workspace.Removed.String())
	assert.Equal(t, "modified", workspace.Modified.String())
	assert.Equal(t, "unchanged", workspace.Unchanged.String())
}
