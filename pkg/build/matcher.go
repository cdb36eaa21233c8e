package build

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// ErrPattern reports an exclusion pattern that does not compile.
var ErrPattern = errors.New("invalid exclusion pattern")

// Matcher tests project-relative paths against exclusion globs.
//
// Patterns use '/' as separator: '*' stays within one path element, '**'
// crosses elements. A pattern without '/' also matches the last element of
// a path, "dir/**" also matches "dir" itself and "**/name" also matches
// "name" at the root.
type Matcher struct {
	patterns []string
	full     []glob.Glob
	base     []glob.Glob
}

// NewMatcher compiles patterns. Invalid patterns are dropped and reported in
// the returned error; the matcher still uses the valid ones.
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	var errs []error

	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(strings.TrimSpace(pattern), "/")
		if pattern == "" {
			continue
		}

		compiled, err := compileVariants(pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w %q: %w", ErrPattern, pattern, err))
			continue
		}

		m.patterns = append(m.patterns, pattern)
		if strings.Contains(pattern, "/") {
			m.full = append(m.full, compiled...)
		} else {
			m.base = append(m.base, compiled...)
		}
	}

	return m, errors.Join(errs...)
}

func compileVariants(pattern string) ([]glob.Glob, error) {
	variants := []string{pattern}
	if trimmed, ok := strings.CutSuffix(pattern, "/**"); ok && trimmed != "" {
		variants = append(variants, trimmed)
	}
	if trimmed, ok := strings.CutPrefix(pattern, "**/"); ok && trimmed != "" {
		variants = append(variants, trimmed)
	}

	compiled := make([]glob.Glob, 0, len(variants))
	for _, variant := range variants {
		g, err := glob.Compile(variant, '/')
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

// Patterns returns the valid patterns in input order.
func (m *Matcher) Patterns() []string {
	return m.patterns
}

// Match reports whether rel is excluded.
func (m *Matcher) Match(rel string) bool {
	if m == nil || rel == "" {
		return false
	}

	for _, g := range m.full {
		if g.Match(rel) {
			return true
		}
	}

	base := path.Base(rel)
	for _, g := range m.base {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}
