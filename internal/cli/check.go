package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gojshint/internal/logging"
	"github.com/yaklabco/gojshint/internal/ui/pretty"
	"github.com/yaklabco/gojshint/pkg/config"
	"github.com/yaklabco/gojshint/pkg/engine"
	"github.com/yaklabco/gojshint/pkg/fsutil"
	"github.com/yaklabco/gojshint/pkg/lint"
	"github.com/yaklabco/gojshint/pkg/marker"
	"github.com/yaklabco/gojshint/pkg/reporter"
	"github.com/yaklabco/gojshint/pkg/workspace"
)

type checkFlags struct {
	charset *charsetFlag
	custom  string
	options []string
	globals []string
	pretty  bool
	format  string
	strict  bool
}

func newCheckCommand(version string) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [flags] file...",
		Short: "Check JavaScript files",
		Long:  checkLongDescription,
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags, version)
		},
	}

	flags.charset = newCharsetFlag(cmd.Flags(), workspace.DefaultCharset)
	cmd.Flags().Var(flags.charset, "charset", "charset of the input files that follow it (repeatable)")
	cmd.Flags().StringVar(&flags.custom, "custom", "", "alternate lint engine script to load instead of the bundled one")
	cmd.Flags().StringArrayVar(&flags.options, "option", nil, "engine option as name or name=true|false (repeatable)")
	cmd.Flags().StringArrayVar(&flags.globals, "global", nil,
		"predefined global as name or name=true|false, true meaning writable (repeatable)")
	cmd.Flags().BoolVar(&flags.pretty, "pretty", false, "styled output with source context")
	cmd.Flags().StringVar(&flags.format, "format", "",
		"report every problem at the end in this format instead: table, text, lines, json, sarif")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit non-zero when any problem is reported")

	return cmd
}

const checkLongDescription = `Check JavaScript files with the lint engine.

Every problem is printed on its own line. Clean files print nothing. The
whole invocation fails before any file is checked when the charset is
unknown, an input file cannot be read, or the engine script cannot be
loaded.

Examples:
  gojshint check app.js lib/util.js
  gojshint check --charset ISO-8859-1 legacy.js
  gojshint check app.js --charset ISO-8859-1 legacy.js
  gojshint check --option undef --global jQuery=false app.js
  gojshint check --custom ./jshint-r12.js app.js
  gojshint check --format sarif src/*.js > gojshint.sarif`

func runCheck(cmd *cobra.Command, args []string, flags *checkFlags, version string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	var r reporter.Reporter
	if flags.format != "" {
		if flags.pretty {
			return usageErrorf("--pretty and --format cannot be combined")
		}
		format, err := reporter.ParseFormat(flags.format)
		if err != nil {
			return usageError(err)
		}
		r, err = reporter.New(reporter.Options{
			Writer:      cmd.OutOrStdout(),
			Format:      format,
			Color:       colorMode(cmd),
			ToolVersion: version,
		})
		if err != nil {
			return err
		}
	}

	for _, name := range flags.charset.Names() {
		if _, err := workspace.LookupCharset(name); err != nil {
			return usageError(err)
		}
	}

	paths := make([]string, 0, len(args))
	for _, arg := range args {
		path, err := checkReadable(arg)
		if err != nil {
			return usageError(err)
		}
		paths = append(paths, path)
	}

	cfg, err := parseConfiguration(flags.options, flags.globals)
	if err != nil {
		return usageError(err)
	}

	adapter, err := engine.NewFromFile(flags.custom, cfg)
	if err != nil {
		return usageError(err)
	}

	logger.Debug("engine ready",
		logging.FieldEngine, adapter.Name(),
		logging.FieldCharset, flags.charset.String(),
		logging.FieldOptions, cfg.Serialize(),
		logging.FieldFiles, len(paths))

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.OutOrStdout()))
	out := cmd.OutOrStdout()
	problems := 0
	var collected []marker.Marker

	for i, path := range paths {
		raw, _, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			return err
		}
		text, err := workspace.Decode(raw, flags.charset.For(i))
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		handler := func(d lint.Diagnostic) error {
			problems++
			if r != nil {
				collected = append(collected, marker.FromDiagnostic(path, d, marker.ErrorsFromCode))
				return nil
			}
			if flags.pretty {
				_, err := io.WriteString(out, styles.FormatDiagnostic(path, d, marker.ErrorsFromCode(d), true))
				return err
			}
			return writeProblem(out, path, d)
		}

		if _, err := adapter.Check(ctx, text, handler); err != nil {
			return fmt.Errorf("check %s: %w", path, err)
		}
	}

	if r != nil {
		if _, err := r.Report(ctx, collected); err != nil {
			return err
		}
	}

	if flags.strict && problems > 0 {
		return ErrLintIssuesFound
	}
	return nil
}

// writeProblem prints one diagnostic in the line format tools parse.
func writeProblem(w io.Writer, path string, d lint.Diagnostic) error {
	_, err := fmt.Fprintf(w, "Problem in file %s at line %d: %s\n", path, d.Line, d.Message)
	return err
}

// checkReadable returns the absolute path of a readable regular file.
func checkReadable(arg string) (string, error) {
	path, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", arg, err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", arg, err)
	}
	if stat.IsDir() {
		return "", fmt.Errorf("%w: %s", fsutil.ErrIsDirectory, arg)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", arg, err)
	}
	_ = file.Close()
	return path, nil
}

// parseConfiguration builds a lint configuration from name[=bool] pairs.
// A name given twice is a configuration error.
func parseConfiguration(options, globals []string) (*config.Configuration, error) {
	optionEntries, err := parsePairs(options)
	if err != nil {
		return nil, fmt.Errorf("option %w", err)
	}
	globalEntries, err := parsePairs(globals)
	if err != nil {
		return nil, fmt.Errorf("global %w", err)
	}
	return config.FromEntries(optionEntries, globalEntries)
}

func parseFlagPair(pair string) (string, bool, error) {
	name, raw, found := strings.Cut(pair, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false, fmt.Errorf("%q: missing name", pair)
	}
	if !found {
		return name, true, nil
	}

	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return "", false, fmt.Errorf("%q: value must be true or false", pair)
	}
	return name, value, nil
}

// colorMode reads the inherited --color flag.
func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return "auto"
	}
	return mode
}
