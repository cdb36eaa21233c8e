package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gojshint/internal/logging"
	"github.com/yaklabco/gojshint/internal/ui/pretty"
	"github.com/yaklabco/gojshint/pkg/build"
	"github.com/yaklabco/gojshint/pkg/engine"
	"github.com/yaklabco/gojshint/pkg/marker"
)

type buildFlags struct {
	project        projectFlags
	custom         string
	escalateErrors bool
	strict         bool
	jobs           int
	quiet          bool
	stats          bool
}

func (f *buildFlags) policy() marker.SeverityPolicy {
	if f.escalateErrors {
		return marker.ErrorsFromCode
	}
	return marker.AlwaysWarning
}

func addBuildFlags(cmd *cobra.Command, flags *buildFlags) {
	addProjectFlags(cmd, &flags.project)
	cmd.Flags().StringVar(&flags.custom, "custom", "", "alternate lint engine script to load instead of the bundled one")
	cmd.Flags().BoolVar(&flags.escalateErrors, "escalate-errors", false,
		"give engine errors error severity instead of warning")
}

func newBuildCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build [flags] [project...]",
		Short: "Check every JavaScript file of one or more projects",
		Long:  buildLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, flags)
		},
	}

	addBuildFlags(cmd, flags)
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of projects built in parallel (0 = all)")
	cmd.Flags().BoolVar(&flags.quiet, "quiet", false, "print only the summary line")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "print a statistics block instead of the summary line")

	return cmd
}

const buildLongDescription = `Run a full build of one or more project directories.

Every file of the project tree is cleared of its previous problem markers
and every JavaScript file that is not excluded by the project preferences
is checked again. Markers persist in a database per project and can be
listed later with "gojshint markers". Without arguments the working
directory is built.

Examples:
  gojshint build
  gojshint build web/ admin/ --jobs 2
  gojshint build --escalate-errors --strict`

func runBuild(cmd *cobra.Command, args []string, flags *buildFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)
	start := time.Now()

	projects, err := openProjects(args)
	if err != nil {
		return err
	}
	if err := flags.project.validate(len(projects)); err != nil {
		return err
	}

	sessions := make([]*session, 0, len(projects))
	defer func() {
		for _, s := range sessions {
			if err := s.Close(); err != nil {
				logger.Warn("close session", logging.FieldProject, s.project.Name(), logging.FieldError, err)
			}
		}
	}()

	targets := make([]build.Target, 0, len(projects))
	for _, project := range projects {
		s, err := openSession(ctx, project, &flags.project)
		if err != nil {
			return err
		}
		sessions = append(sessions, s)
		targets = append(targets, build.Target{Project: project, Sink: s.sink, Resolver: s.resolver})
	}

	opts := build.Options{
		Policy:     flags.policy(),
		EnginePath: flags.custom,
	}
	results, runErr := build.RunProjects(ctx, targets, opts, flags.jobs)
	if slices.Contains(results, nil) {
		// A project could not be prepared; nothing meaningful to report.
		var loadErr *engine.EngineLoadError
		if errors.As(runErr, &loadErr) {
			return usageError(runErr)
		}
		return runErr
	}

	total := build.Total(results)
	total.Duration = time.Since(start)
	if err := reportBuild(cmd, sessions, results, total, flags); err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}
	if ExitCodeFromResult(total, flags.strict) != ExitSuccess {
		return ErrLintIssuesFound
	}
	return nil
}

// reportBuild prints the markers of every project followed by a summary.
func reportBuild(cmd *cobra.Command, sessions []*session, results []*build.Result, total *build.Result, flags *buildFlags) error {
	out := cmd.OutOrStdout()
	colorEnabled := pretty.IsColorEnabled(colorMode(cmd), out)
	styles := pretty.NewStyles(colorEnabled)

	if !flags.quiet {
		table := pretty.NewTableFormatter(styles, colorEnabled, pretty.TerminalWidth(out))
		for i, s := range sessions {
			if results[i] != nil && results[i].Disabled {
				if _, err := fmt.Fprintf(out, "%s: linting disabled\n", s.project.Name()); err != nil {
					return err
				}
				continue
			}

			markers, err := s.sink.List(cmd.Context(), "")
			if err != nil {
				return err
			}
			if len(markers) == 0 {
				continue
			}
			if len(sessions) > 1 {
				if _, err := fmt.Fprintln(out, styles.FormatFileHeader(s.project.Name(), len(markers))); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(out, table.FormatTable(markers)); err != nil {
				return err
			}
		}
	}

	summary := styles.FormatSummaryOneLine(total.Stats)
	if flags.stats {
		summary = styles.FormatSummary(total.Stats)
	}
	_, err := io.WriteString(out, summary)
	return err
}
