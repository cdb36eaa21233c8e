package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/gojshint/internal/logging"
	"github.com/yaklabco/gojshint/pkg/engine"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of gojshint and the edition of the bundled lint engine.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.NewInteractive(cmd.OutOrStdout())

			adapter, err := engine.New(nil, nil)
			if err != nil {
				return err
			}

			logger.Info("gojshint",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				logging.FieldEngine, adapter.Edition(),
			)
			return nil
		},
	}

	return cmd
}
