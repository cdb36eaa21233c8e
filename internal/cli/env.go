package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// envVarPrefix is the prefix for all gojshint environment variables.
const envVarPrefix = "GOJSHINT_"

// envMapping ties an environment variable to the flag it defaults.
type envMapping struct {
	flag        string
	description string
}

// envMappings maps environment variable names (without prefix) to flags.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"DEBUG":           {flag: "debug", description: "Enable debug logging: true or false"},
	"COLOR":           {flag: "color", description: "Colorize output: auto, always, never"},
	"CHARSET":         {flag: "charset", description: "Charset of checked files"},
	"CUSTOM":          {flag: "custom", description: "Path of a custom lint engine script"},
	"DB":              {flag: "db", description: "Marker database directory"},
	"PREFS_STORE":     {flag: "prefs-store", description: "Preference store: file or badger"},
	"JOBS":            {flag: "jobs", description: "Number of projects built in parallel (0 = all)"},
	"ESCALATE_ERRORS": {flag: "escalate-errors", description: "Report engine errors with error severity: true or false"},
	"STRICT":          {flag: "strict", description: "Fail on warnings: true or false"},
	"DEBOUNCE":        {flag: "debounce", description: "Quiet period before a watch rebuild, e.g. 250ms"},
	"METRICS_ADDR":    {flag: "metrics-addr", description: "Listen address of the watch metrics endpoint"},
}

// defaultSetter is implemented by position-dependent flag values. The
// environment sets the value in effect before the first occurrence.
type defaultSetter interface {
	SetDefault(value string) error
}

// applyEnv sets every flag of cmd that was not given on the command line
// from its environment variable, when that is set.
func applyEnv(cmd *cobra.Command) error {
	return applyEnvTo(cmd.Flags())
}

func applyEnvTo(flags *pflag.FlagSet) error {
	suffixes := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)

	for _, suffix := range suffixes {
		mapping := envMappings[suffix]
		flag := flags.Lookup(mapping.flag)
		if flag == nil {
			continue
		}
		setter, positional := flag.Value.(defaultSetter)
		if flag.Changed && !positional {
			continue
		}

		envVar := envVarPrefix + suffix
		value, ok := os.LookupEnv(envVar)
		if !ok || value == "" {
			continue
		}

		set := flag.Value.Set
		if positional {
			set = setter.SetDefault
		}
		if err := set(value); err != nil {
			return fmt.Errorf("invalid value for %s: %q (expected %s)", envVar, value, flag.Value.Type())
		}
	}
	return nil
}

// GetEnvVarName returns the environment variable that defaults a flag.
func GetEnvVarName(flag string) string {
	for suffix, mapping := range envMappings {
		if mapping.flag == flag {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
