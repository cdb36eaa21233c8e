// Package prefs resolves per-project lint preferences from a key/value
// store, migrating the legacy settings schema on first read.
package prefs

import (
	"fmt"
	"slices"

	"github.com/yaklabco/gojshint/pkg/config"
)

// Namespaces and keys of the two schema generations.
const (
	// Namespace holds the current schema.
	Namespace = "gojshint.core"

	// LegacyNamespace holds the deprecated schema.
	LegacyNamespace = "gojshint"

	// SchemaVersion is written with every current-schema save.
	SchemaVersion = "2"

	// LegacySchemaVersion labels preferences read from the legacy namespace.
	LegacySchemaVersion = "1"

	KeyEnabled  = "enabled"
	KeyExcludes = "excludes"
	KeyOptions  = "options"
	KeyGlobals  = "globals"
	KeySchema   = "schema"

	// LegacyKeyPredefined is the legacy name of KeyGlobals.
	LegacyKeyPredefined = "predefined"
)

// ProjectPreferences is one immutable snapshot of a project's settings.
// A changed setting produces a new value.
type ProjectPreferences struct {
	Enabled bool

	// Excludes are project-relative path globs, in insertion order without
	// duplicates.
	Excludes []string

	Configuration *config.Configuration

	// SchemaVersion is SchemaVersion, LegacySchemaVersion when the values
	// came from unmigrated legacy data, or "" for defaults.
	SchemaVersion string
}

// Defaults returns the preferences of a project that has none stored.
func Defaults() *ProjectPreferences {
	return &ProjectPreferences{
		Enabled:       true,
		Configuration: config.New(),
	}
}

// WithEnabled returns a copy with Enabled set.
func (p *ProjectPreferences) WithEnabled(enabled bool) *ProjectPreferences {
	out := p.clone()
	out.Enabled = enabled
	return out
}

// WithExcludes returns a copy with the given patterns, deduplicated.
func (p *ProjectPreferences) WithExcludes(patterns []string) *ProjectPreferences {
	out := p.clone()
	out.Excludes = dedupe(patterns)
	return out
}

// WithConfiguration returns a copy using cfg.
func (p *ProjectPreferences) WithConfiguration(cfg *config.Configuration) *ProjectPreferences {
	out := p.clone()
	if cfg == nil {
		cfg = config.New()
	}
	out.Configuration = cfg.Clone()
	return out
}

// Equal compares the logical values, ignoring SchemaVersion.
func (p *ProjectPreferences) Equal(other *ProjectPreferences) bool {
	return p.Enabled == other.Enabled &&
		slices.Equal(p.Excludes, other.Excludes) &&
		p.Configuration.Equal(other.Configuration)
}

func (p *ProjectPreferences) String() string {
	return fmt.Sprintf("enabled=%t excludes=%v configuration=%s schema=%q",
		p.Enabled, p.Excludes, p.Configuration.Serialize(), p.SchemaVersion)
}

func (p *ProjectPreferences) clone() *ProjectPreferences {
	return &ProjectPreferences{
		Enabled:       p.Enabled,
		Excludes:      slices.Clone(p.Excludes),
		Configuration: p.Configuration.Clone(),
		SchemaVersion: p.SchemaVersion,
	}
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
