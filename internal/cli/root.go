// Package cli provides the Cobra command structure for gojshint.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/gojshint/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gojshint command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var color string

	rootCmd := &cobra.Command{
		Use:   "gojshint",
		Short: "JavaScript linting for project trees",
		Long: `gojshint runs a JSHint-compatible lint engine over JavaScript files.

It checks single files from the command line, builds whole project trees
keeping a persistent set of problem markers per file, and can watch a
project to re-check only what changed. Per-project preferences select the
engine options, predefined globals and excluded paths.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyEnv(cmd); err != nil {
				return usageError(err)
			}
			level := "info"
			if debug {
				level = "debug"
			}
			cmd.SetContext(logging.Attach(cmd.Context(), cmd.ErrOrStderr(), level))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	addCommandGroups(rootCmd)
	addToGroup(rootCmd, groupLint, newCheckCommand(info.Version), newBuildCommand(), newWatchCommand())
	addToGroup(rootCmd, groupResults, newMarkersCommand(info.Version))
	addToGroup(rootCmd, groupSetup, newPrefsCommand(), newVersionCommand(info))

	NewHelpFormatter(&color).ApplyToCommand(rootCmd)

	return rootCmd
}
