package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gojshint/internal/logging"
	"github.com/yaklabco/gojshint/internal/metrics"
	"github.com/yaklabco/gojshint/internal/ui/pretty"
	"github.com/yaklabco/gojshint/pkg/build"
	"github.com/yaklabco/gojshint/pkg/workspace"
)

type watchFlags struct {
	build       buildFlags
	debounce    time.Duration
	metricsAddr string
	skipInitial bool
}

func newWatchCommand() *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch [flags] [project]",
		Short: "Re-check changed files of a project as they are saved",
		Long:  watchLongDescription,
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, flags)
		},
	}

	addBuildFlags(cmd, &flags.build)
	cmd.Flags().DurationVar(&flags.debounce, "debounce", workspace.DefaultDebounce,
		"quiet period after the last file event before a rebuild")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "",
		"serve Prometheus metrics on this address, e.g. :9464")
	cmd.Flags().BoolVar(&flags.skipInitial, "skip-initial", false, "do not run a full build before watching")

	return cmd
}

const watchLongDescription = `Watch a project and run an incremental build for every batch of changes.

A full build runs first. After that only the files named in each change
batch are checked again; files whose content did not change are ignored.
Markers of deleted files and directories are removed. Preference changes
take effect with the next batch. Stop with Ctrl-C.

Examples:
  gojshint watch
  gojshint watch web/ --debounce 1s --metrics-addr :9464`

func runWatch(cmd *cobra.Command, args []string, flags *watchFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	projects, err := openProjects(args)
	if err != nil {
		return err
	}
	if err := flags.build.project.validate(len(projects)); err != nil {
		return err
	}
	project := projects[0]

	s, err := openSession(ctx, project, &flags.build.project)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warn("close session", logging.FieldProject, project.Name(), logging.FieldError, err)
		}
	}()

	registry := prometheus.NewRegistry()
	opts := build.Options{
		Resolver:   s.resolver,
		Sink:       s.sink,
		Policy:     flags.build.policy(),
		EnginePath: flags.build.custom,
		Metrics:    metrics.New(registry),
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out))
	report := func(result *build.Result) error {
		line := fmt.Sprintf("%s %s %s: ", time.Now().Format(time.TimeOnly), project.Name(), result.Mode)
		if result.Disabled {
			line += "linting disabled\n"
		} else {
			line += styles.FormatSummaryOneLine(result.Stats)
		}
		_, err := io.WriteString(out, line)
		return err
	}

	if !flags.skipInitial {
		result, err := runOnce(ctx, project, opts, build.Full())
		if err != nil {
			return err
		}
		if err := report(result); err != nil {
			return err
		}
	}

	watcher, err := workspace.NewWatcher(project, workspace.WatcherOptions{
		Debounce: flags.debounce,
		Ignore:   ignoreInside(project.Root(), flags.build.project.db),
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	group, gctx := errgroup.WithContext(ctx)
	if flags.metricsAddr != "" {
		group.Go(func() error {
			logger.Info("serving metrics", logging.FieldAddr, flags.metricsAddr)
			return metrics.Serve(gctx, flags.metricsAddr, registry)
		})
	}

	group.Go(func() error {
		err := watcher.Run(gctx, func(ctx context.Context, delta *workspace.Delta) error {
			removed, err := build.RetractRemoved(ctx, s.sink, delta)
			if err != nil {
				return err
			}
			opts.Metrics.Retracted(removed)

			result, err := runOnce(ctx, project, opts, build.Incremental(delta))
			if err != nil {
				return err
			}
			return report(result)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	logger.Info("watching", logging.FieldProject, project.Name(), logging.FieldPath, project.Root())
	return group.Wait()
}

// runOnce builds with a fresh visitor so that preference changes apply.
// Per-file failures are logged and do not end the watch.
func runOnce(ctx context.Context, project *workspace.Project, opts build.Options, input build.Input) (*build.Result, error) {
	visitor, err := build.NewVisitor(ctx, project, opts)
	if err != nil {
		return nil, err
	}

	result, err := visitor.Run(ctx, input)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		logging.FromContext(ctx).Warn("build finished with errors",
			logging.FieldProject, project.Name(), logging.FieldError, err)
	}
	return result, nil
}

// ignoreInside returns a watcher filter dropping events under dir when dir
// lies inside root, as a marker database placed in the project would.
func ignoreInside(root, dir string) func(rel string, isDir bool) bool {
	if dir == "" {
		return nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}
	rel = filepath.ToSlash(rel)

	return func(path string, _ bool) bool {
		return path == rel || strings.HasPrefix(path, rel+"/")
	}
}
