package cli_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelp_RootGroupsCommands(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "--help")
	require.NoError(t, err)

	lint := strings.Index(stdout, "Lint Commands:")
	results := strings.Index(stdout, "Result Commands:")
	setup := strings.Index(stdout, "Setup Commands:")
	require.NotEqual(t, -1, lint, stdout)
	require.Greater(t, results, lint)
	require.Greater(t, setup, results)

	lintSection := stdout[lint:results]
	for _, name := range []string{"check", "build", "watch"} {
		assert.Contains(t, lintSection, "  "+name+" ")
	}
	assert.Contains(t, stdout[results:setup], "  markers ")
	assert.Contains(t, stdout[setup:], "  prefs ")
	assert.Contains(t, stdout[setup:], "  version ")
	assert.Contains(t, stdout, "Additional Commands:")
	assert.Contains(t, stdout, `Use "gojshint [command] --help"`)
}

func TestHelp_CheckCommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "check", "--help")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "Check JavaScript files with the lint engine."), stdout)
	assert.Equal(t, 1, strings.Count(stdout, "Examples:"), stdout)
	assert.Contains(t, stdout, "Usage:\n  gojshint check [flags] file...")
	assert.Contains(t, stdout, "\n  gojshint check --charset ISO-8859-1 legacy.js\n")

	assert.Contains(t, stdout, "--charset string")
	assert.Contains(t, stdout, `(default "UTF-8")`)
	assert.Contains(t, stdout, "-h, --help")
	assert.Contains(t, stdout, "Global Flags:")

	envStart := strings.Index(stdout, "Environment:")
	require.NotEqual(t, -1, envStart, stdout)
	env := stdout[envStart:]
	assert.Contains(t, env, "GOJSHINT_CHARSET")
	assert.Contains(t, env, "--charset")
	assert.Contains(t, env, "GOJSHINT_COLOR")
	assert.NotContains(t, env, "GOJSHINT_JOBS")
}

func TestHelp_UsageOnError(t *testing.T) {
	t.Parallel()

	_, stderr, err := execute(t, "markers", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, stderr, "Usage:\n  gojshint markers [flags] [project]")
	assert.NotContains(t, stderr, "List the problem markers", "usage on error omits the description")
}

func TestDebugFlag_LogsToCommandStderr(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "a.js", cleanJS)

	_, stderr, err := executeContext(context.Background(), t, "check", "--debug", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "engine ready")

	_, stderr, err = executeContext(context.Background(), t, "check", path)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "engine ready")
}
