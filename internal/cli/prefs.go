package cli

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gojshint/internal/logging"
	"github.com/yaklabco/gojshint/pkg/config"
	"github.com/yaklabco/gojshint/pkg/prefs"
)

// prefsView is the YAML rendering of resolved preferences.
type prefsView struct {
	Enabled       bool                  `yaml:"enabled"`
	Excludes      []string              `yaml:"excludes"`
	Configuration *config.Configuration `yaml:"configuration"`
	Schema        string                `yaml:"schema"`
}

// rawView is the YAML rendering of the stored key/values.
type rawView struct {
	Current map[string]string `yaml:"current"`
	Legacy  map[string]string `yaml:"legacy"`
}

func newPrefsCommand() *cobra.Command {
	flags := &projectFlags{}

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show, migrate and change project preferences",
		Long: `Project preferences enable or disable linting, list excluded paths and
carry the engine options and predefined globals. Preferences stored in the
legacy schema are migrated to the current one on first read.`,
	}
	cmd.PersistentFlags().StringVar(&flags.db, "db", "",
		"marker database directory (default: per project, under the user cache directory)")
	cmd.PersistentFlags().StringVar(&flags.prefsStore, "prefs-store", StoreFile,
		"where project preferences live: file (.settings in the project) or badger (marker database)")

	cmd.AddCommand(newPrefsShowCommand(flags))
	cmd.AddCommand(newPrefsMigrateCommand(flags))
	cmd.AddCommand(newPrefsSetCommand(flags))

	return cmd
}

// withResolver opens the session of the single project argument.
func withResolver(cmd *cobra.Command, args []string, flags *projectFlags, fn func(*session) error) error {
	projects, err := openProjects(args)
	if err != nil {
		return err
	}
	if err := flags.validate(len(projects)); err != nil {
		return err
	}

	s, err := openSession(cmd.Context(), projects[0], flags)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logging.FromContext(cmd.Context()).Warn("close session", logging.FieldError, err)
		}
	}()
	return fn(s)
}

func newPrefsShowCommand(flags *projectFlags) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show [project]",
		Short: "Print the resolved preferences as YAML",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResolver(cmd, args, flags, func(s *session) error {
				if raw {
					current, legacy, err := s.resolver.Raw(cmd.Context(), s.project)
					if err != nil {
						return err
					}
					return writeYAML(cmd.OutOrStdout(), rawView{Current: current, Legacy: legacy})
				}

				p, err := s.resolver.Load(cmd.Context(), s.project)
				if err != nil {
					return err
				}
				return writeYAML(cmd.OutOrStdout(), viewOf(p))
			})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the stored keys of both schemas instead")

	return cmd
}

func newPrefsMigrateCommand(flags *projectFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [project]",
		Short: "Migrate legacy preferences to the current schema",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResolver(cmd, args, flags, func(s *session) error {
				ctx := cmd.Context()
				out := cmd.OutOrStdout()

				current, legacy, err := s.resolver.Raw(ctx, s.project)
				if err != nil {
					return err
				}
				switch {
				case len(current) > 0:
					_, err = fmt.Fprintf(out, "%s: preferences already use schema %s\n", s.project.Name(), prefs.SchemaVersion)
					return err
				case len(legacy) == 0:
					_, err = fmt.Fprintf(out, "%s: no stored preferences\n", s.project.Name())
					return err
				}

				p, err := s.resolver.Load(ctx, s.project)
				if err != nil {
					return err
				}
				if p.SchemaVersion != prefs.SchemaVersion {
					return fmt.Errorf("%s: migration failed, legacy preferences left in place", s.project.Name())
				}
				_, err = fmt.Fprintf(out, "%s: migrated %d legacy keys to schema %s\n",
					s.project.Name(), len(legacy), prefs.SchemaVersion)
				return err
			})
		},
	}
}

type prefsSetFlags struct {
	enabled  bool
	excludes []string
	options  []string
	globals  []string
	reset    bool
}

func newPrefsSetCommand(flags *projectFlags) *cobra.Command {
	set := &prefsSetFlags{}

	cmd := &cobra.Command{
		Use:   "set [flags] [project]",
		Short: "Change project preferences",
		Long: `Change project preferences. Only the given settings change; options and
globals are merged into the stored configuration, replacing values of the
same name. --exclude replaces the whole exclusion list.

Examples:
  gojshint prefs set --option undef --global jQuery=false
  gojshint prefs set --exclude 'vendor/**' --exclude '*.min.js'
  gojshint prefs set --enabled=false`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrefsSet(cmd, args, flags, set)
		},
	}

	cmd.Flags().BoolVar(&set.enabled, "enabled", true, "enable linting for the project")
	cmd.Flags().StringArrayVar(&set.excludes, "exclude", nil, "excluded path glob (repeatable, replaces the list)")
	cmd.Flags().StringArrayVar(&set.options, "option", nil, "engine option as name or name=true|false (repeatable)")
	cmd.Flags().StringArrayVar(&set.globals, "global", nil,
		"predefined global as name or name=true|false, true meaning writable (repeatable)")
	cmd.Flags().BoolVar(&set.reset, "reset", false, "start from the default preferences")

	return cmd
}

func runPrefsSet(cmd *cobra.Command, args []string, flags *projectFlags, set *prefsSetFlags) error {
	options, err := parsePairs(set.options)
	if err != nil {
		return usageError(fmt.Errorf("option %w", err))
	}
	globals, err := parsePairs(set.globals)
	if err != nil {
		return usageError(fmt.Errorf("global %w", err))
	}

	return withResolver(cmd, args, flags, func(s *session) error {
		ctx := cmd.Context()

		current := prefs.Defaults()
		if !set.reset {
			if current, err = s.resolver.Load(ctx, s.project); err != nil {
				return err
			}
		}

		if cmd.Flags().Changed("enabled") {
			current = current.WithEnabled(set.enabled)
		}
		if cmd.Flags().Changed("exclude") {
			current = current.WithExcludes(set.excludes)
		}

		cfg, err := config.FromEntries(
			mergeEntries(current.Configuration.Options(), options),
			mergeEntries(current.Configuration.Globals(), globals))
		if err != nil {
			return err
		}
		current = current.WithConfiguration(cfg)

		if err := s.resolver.Save(ctx, s.project, current); err != nil {
			return err
		}
		current.SchemaVersion = prefs.SchemaVersion
		return writeYAML(cmd.OutOrStdout(), viewOf(current))
	})
}

func parsePairs(pairs []string) ([]config.Entry, error) {
	entries := make([]config.Entry, 0, len(pairs))
	for _, pair := range pairs {
		name, value, err := parseFlagPair(pair)
		if err != nil {
			return nil, err
		}
		entries = append(entries, config.Entry{Name: name, Value: value})
	}
	return entries, nil
}

// mergeEntries overrides entries of the same name in place and appends new
// ones in order. A later duplicate in updates wins.
func mergeEntries(existing, updates []config.Entry) []config.Entry {
	out := make([]config.Entry, len(existing), len(existing)+len(updates))
	copy(out, existing)

	index := make(map[string]int, len(out))
	for i, e := range out {
		index[e.Name] = i
	}
	for _, e := range updates {
		if i, ok := index[e.Name]; ok {
			out[i].Value = e.Value
			continue
		}
		index[e.Name] = len(out)
		out = append(out, e)
	}
	return out
}

func viewOf(p *prefs.ProjectPreferences) prefsView {
	schema := p.SchemaVersion
	if schema == "" {
		schema = "defaults"
	}
	excludes := p.Excludes
	if excludes == nil {
		excludes = []string{}
	}
	return prefsView{
		Enabled:       p.Enabled,
		Excludes:      excludes,
		Configuration: p.Configuration,
		Schema:        schema,
	}
}

func writeYAML(w io.Writer, v any) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("close encoder: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
