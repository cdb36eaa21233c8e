package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gojshint/pkg/config"
)

// encodeCurrent renders p as current-schema key/values.
func encodeCurrent(p *ProjectPreferences) (map[string]string, error) {
	excludes, err := json.Marshal(nonNil(p.Excludes))
	if err != nil {
		return nil, fmt.Errorf("encode excludes: %w", err)
	}
	options, err := json.Marshal(nonNilEntries(p.Configuration.Options()))
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}
	globals, err := json.Marshal(nonNilEntries(p.Configuration.Globals()))
	if err != nil {
		return nil, fmt.Errorf("encode globals: %w", err)
	}

	return map[string]string{
		KeyEnabled:  strconv.FormatBool(p.Enabled),
		KeyExcludes: string(excludes),
		KeyOptions:  string(options),
		KeyGlobals:  string(globals),
		KeySchema:   SchemaVersion,
	}, nil
}

// decodeCurrent reads current-schema key/values. Fields that fail to decode
// keep their default and are reported in the returned error.
func decodeCurrent(values map[string]string) (*ProjectPreferences, error) {
	p := Defaults()
	p.SchemaVersion = SchemaVersion
	if v, ok := values[KeySchema]; ok {
		p.SchemaVersion = v
	}

	var errs []error

	if v, ok := values[KeyEnabled]; ok {
		enabled, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", KeyEnabled, err))
		} else {
			p.Enabled = enabled
		}
	}

	if v, ok := values[KeyExcludes]; ok && v != "" {
		var excludes []string
		if err := json.Unmarshal([]byte(v), &excludes); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", KeyExcludes, err))
		} else {
			p.Excludes = dedupe(excludes)
		}
	}

	var options, globals []config.Entry
	if v, ok := values[KeyOptions]; ok && v != "" {
		if err := json.Unmarshal([]byte(v), &options); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", KeyOptions, err))
			options = nil
		}
	}
	if v, ok := values[KeyGlobals]; ok && v != "" {
		if err := json.Unmarshal([]byte(v), &globals); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", KeyGlobals, err))
			globals = nil
		}
	}

	cfg, err := config.FromEntries(options, globals)
	if err != nil {
		errs = append(errs, err)
	} else {
		p.Configuration = cfg
	}

	return p, errors.Join(errs...)
}

// decodeLegacy reads legacy key/values. Malformed pairs are skipped and
// duplicate names keep their first value; both are reported as warnings.
func decodeLegacy(values map[string]string) (*ProjectPreferences, []string) {
	p := Defaults()
	p.SchemaVersion = LegacySchemaVersion

	var warnings []string

	if v, ok := values[KeyEnabled]; ok {
		if enabled, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			p.Enabled = enabled
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: invalid boolean %q", KeyEnabled, v))
		}
	}

	if v, ok := values[KeyExcludes]; ok {
		p.Excludes = dedupe(splitList(v))
	}

	cfg := config.New()
	warnings = append(warnings, parsePairs(KeyOptions, values[KeyOptions], cfg.AddOption)...)
	warnings = append(warnings, parsePairs(LegacyKeyPredefined, values[LegacyKeyPredefined], cfg.AddGlobal)...)
	p.Configuration = cfg

	return p, warnings
}

// parsePairs parses "name: bool, name: bool" into add.
func parsePairs(key, list string, add func(string, bool) error) []string {
	var warnings []string

	for _, pair := range splitList(list) {
		name, raw, found := strings.Cut(pair, ":")
		name = strings.TrimSpace(name)
		value, err := strconv.ParseBool(strings.TrimSpace(raw))
		if !found || name == "" || err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: malformed entry %q", key, pair))
			continue
		}

		if err := add(name, value); err != nil {
			if errors.Is(err, config.ErrDuplicateKey) {
				warnings = append(warnings, fmt.Sprintf("%s: duplicate %q, keeping the first value", key, name))
				continue
			}
			warnings = append(warnings, fmt.Sprintf("%s: %v", key, err))
		}
	}

	return warnings
}

func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nonNilEntries(entries []config.Entry) []config.Entry {
	if entries == nil {
		return []config.Entry{}
	}
	return entries
}
