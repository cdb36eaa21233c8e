package cli_test

import (
	"bytes"
	"testing"

	"github.com/yaklabco/gojshint/internal/cli"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}

	if cmd.Use != "gojshint" {
		t.Errorf("expected Use to be 'gojshint', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	expectedSubcommands := [][]string{
		{"check"},
		{"build"},
		{"watch"},
		{"markers"},
		{"prefs", "show"},
		{"prefs", "migrate"},
		{"prefs", "set"},
		{"version"},
	}

	for _, path := range expectedSubcommands {
		subCmd, _, err := cmd.Find(path)
		if err != nil {
			t.Errorf("expected subcommand %v to exist, got error: %v", path, err)
			continue
		}

		if name := path[len(path)-1]; subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		flags   []string
	}{
		{command: "check", flags: []string{"charset", "custom", "option", "global", "pretty", "format", "strict"}},
		{command: "build", flags: []string{"db", "prefs-store", "custom", "escalate-errors", "strict", "jobs", "quiet", "stats"}},
		{command: "watch", flags: []string{"db", "prefs-store", "custom", "escalate-errors", "debounce", "metrics-addr", "skip-initial"}},
		{command: "markers", flags: []string{"db", "prefs-store", "resource", "format", "min-severity"}},
	}

	cmd := cli.NewRootCommand(testInfo())
	for _, testCase := range tests {
		subCmd, _, err := cmd.Find([]string{testCase.command})
		if err != nil {
			t.Fatalf("%s command not found: %v", testCase.command, err)
		}

		for _, flagName := range testCase.flags {
			if subCmd.Flags().Lookup(flagName) == nil {
				t.Errorf("expected flag %q to exist on %s command", flagName, testCase.command)
			}
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, flagName := range []string{"debug", "color"} {
		if cmd.PersistentFlags().Lookup(flagName) == nil {
			t.Errorf("expected global flag %q to exist", flagName)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2024-01-01",
	}

	cmd := cli.NewRootCommand(info)
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	for _, want := range []string{"gojshint", "1.2.3", "abc123", "gojshint-lite"} {
		if !bytes.Contains(out.Bytes(), []byte(want)) {
			t.Errorf("version output %q does not contain %q", out.String(), want)
		}
	}
}

func TestCheckCommandRequiresFiles(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	checkCmd, _, err := cmd.Find([]string{"check"})
	if err != nil {
		t.Fatalf("check command not found: %v", err)
	}

	if err := checkCmd.Args(checkCmd, nil); err == nil {
		t.Error("check without files should fail")
	}
	if err := checkCmd.Args(checkCmd, []string{"a.js", "b.js"}); err != nil {
		t.Errorf("check should accept several files, got error: %v", err)
	}
}
