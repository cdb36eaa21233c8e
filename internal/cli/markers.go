package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gojshint/internal/logging"
	"github.com/yaklabco/gojshint/pkg/marker"
	"github.com/yaklabco/gojshint/pkg/reporter"
)

type markersFlags struct {
	project  projectFlags
	resource string
	format   string
	minimum  string
}

func newMarkersCommand(version string) *cobra.Command {
	flags := &markersFlags{}

	cmd := &cobra.Command{
		Use:   "markers [flags] [project]",
		Short: "List the problem markers recorded by the last builds",
		Long: `List the problem markers recorded for a project by "gojshint build" and
"gojshint watch". Markers are listed in path order.

Examples:
  gojshint markers
  gojshint markers web/ --resource lib --format json
  gojshint markers --format sarif > gojshint.sarif
  gojshint markers --min-severity error`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMarkers(cmd, args, flags, version)
		},
	}

	addProjectFlags(cmd, &flags.project)
	cmd.Flags().StringVar(&flags.resource, "resource", "",
		"only markers on this project-relative file or below this directory")
	cmd.Flags().StringVar(&flags.format, "format", string(reporter.FormatTable),
		"output format: table, text, lines, json, sarif")
	cmd.Flags().StringVar(&flags.minimum, "min-severity", "info", "lowest severity listed: info, warning, error")

	return cmd
}

func runMarkers(cmd *cobra.Command, args []string, flags *markersFlags, version string) error {
	ctx := cmd.Context()

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return usageError(err)
	}
	minimum, err := marker.ParseSeverity(flags.minimum)
	if err != nil {
		return usageError(err)
	}

	projects, err := openProjects(args)
	if err != nil {
		return err
	}
	if err := flags.project.validate(len(projects)); err != nil {
		return err
	}

	s, err := openSession(ctx, projects[0], &flags.project)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logging.FromContext(ctx).Warn("close session", logging.FieldError, err)
		}
	}()

	all, err := s.sink.List(ctx, "")
	if err != nil {
		return err
	}

	resource := strings.Trim(flags.resource, "/")
	markers := make([]marker.Marker, 0, len(all))
	for _, m := range all {
		if m.Severity < minimum {
			continue
		}
		if resource != "" && m.Resource != resource && !strings.HasPrefix(m.Resource, resource+"/") {
			continue
		}
		markers = append(markers, m)
	}

	r, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode(cmd),
		Root:        s.project.Root(),
		ToolVersion: version,
	})
	if err != nil {
		return err
	}
	_, err = r.Report(ctx, markers)
	return err
}
