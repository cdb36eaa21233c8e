// Package config defines the lint configuration handed to the lint engine:
// boolean options plus predefined globals, serialized as the script-level
// object literal the engine evaluates.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// PredefKey is the reserved key under which globals are nested in the
// serialized options document.
const PredefKey = "predef"

var (
	// ErrDuplicateKey is returned when an option or global is added twice.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrEmptyKey is returned when an option or global name is empty.
	ErrEmptyKey = errors.New("empty key")
)

// Kind names which of the two mappings a key belongs to.
type Kind string

const (
	KindOption Kind = "option"
	KindGlobal Kind = "global"
)

// ConfigError reports a rejected option or global.
type ConfigError struct {
	Kind Kind
	Key  string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Entry is one named boolean in either mapping. For globals, Value reports
// whether the identifier is writable.
type Entry struct {
	Name  string `json:"name" yaml:"name"`
	Value bool   `json:"value" yaml:"value"`
}

// orderedSet is an insertion-ordered name -> bool mapping.
type orderedSet struct {
	entries []Entry
	index   map[string]int
}

func (s *orderedSet) add(kind Kind, name string, value bool) error {
	if name == "" {
		return &ConfigError{Kind: kind, Key: name, Err: ErrEmptyKey}
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, exists := s.index[name]; exists {
		return &ConfigError{Kind: kind, Key: name, Err: ErrDuplicateKey}
	}
	s.index[name] = len(s.entries)
	s.entries = append(s.entries, Entry{Name: name, Value: value})
	return nil
}

func (s *orderedSet) get(name string) (bool, bool) {
	i, ok := s.index[name]
	if !ok {
		return false, false
	}
	return s.entries[i].Value, true
}

func (s *orderedSet) list() []Entry {
	if len(s.entries) == 0 {
		return nil
	}
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Configuration is the options document for one engine instance.
// The zero value is an empty, usable configuration.
type Configuration struct {
	options orderedSet
	globals orderedSet
}

// New returns an empty configuration.
func New() *Configuration {
	return &Configuration{}
}

// AddOption adds a boolean engine option. Adding the same name twice fails
// with ErrDuplicateKey.
func (c *Configuration) AddOption(name string, value bool) error {
	return c.options.add(KindOption, name, value)
}

// AddGlobal adds a predefined global identifier. writable=false marks it as
// a read-only reference.
func (c *Configuration) AddGlobal(identifier string, writable bool) error {
	return c.globals.add(KindGlobal, identifier, writable)
}

// Option returns the value of an option and whether it is set.
func (c *Configuration) Option(name string) (bool, bool) {
	return c.options.get(name)
}

// Global returns whether an identifier is writable and whether it is predefined.
func (c *Configuration) Global(identifier string) (bool, bool) {
	return c.globals.get(identifier)
}

// Options returns the options in insertion order.
func (c *Configuration) Options() []Entry {
	return c.options.list()
}

// Globals returns the predefined globals in insertion order.
func (c *Configuration) Globals() []Entry {
	return c.globals.list()
}

// IsEmpty reports whether neither options nor globals are set.
func (c *Configuration) IsEmpty() bool {
	return len(c.options.entries) == 0 && len(c.globals.entries) == 0
}

// Clone returns an independent copy.
func (c *Configuration) Clone() *Configuration {
	clone := New()
	for _, e := range c.options.entries {
		_ = clone.AddOption(e.Name, e.Value)
	}
	for _, e := range c.globals.entries {
		_ = clone.AddGlobal(e.Name, e.Value)
	}
	return clone
}

// Equal reports whether both configurations hold the same entries in the same order.
func (c *Configuration) Equal(other *Configuration) bool {
	if c == nil || other == nil {
		return c == other
	}
	return entriesEqual(c.options.entries, other.options.entries) &&
		entriesEqual(c.globals.entries, other.globals.entries)
}

func entriesEqual(a, b []Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FromEntries builds a configuration from ordered option and global entries.
func FromEntries(options, globals []Entry) (*Configuration, error) {
	c := New()
	for _, e := range options {
		if err := c.AddOption(e.Name, e.Value); err != nil {
			return nil, err
		}
	}
	for _, e := range globals {
		if err := c.AddGlobal(e.Name, e.Value); err != nil {
			return nil, err
		}
	}
	return c, nil
}

//nolint:gochecknoglobals // Read-only escaper.
var keyEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

// Serialize renders the options document. Globals come first, nested under
// PredefKey, followed by the options as sibling keys:
//
//	{"predef": {"org": true}, "undef": true}
//
// An empty configuration serializes to "{}".
func (c *Configuration) Serialize() string {
	var b strings.Builder
	b.WriteByte('{')

	if len(c.globals.entries) > 0 {
		b.WriteString(`"` + PredefKey + `": {`)
		writeEntries(&b, c.globals.entries)
		b.WriteByte('}')
		if len(c.options.entries) > 0 {
			b.WriteString(", ")
		}
	}
	writeEntries(&b, c.options.entries)

	b.WriteByte('}')
	return b.String()
}

func writeEntries(b *strings.Builder, entries []Entry) {
	for i, e := range entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('"')
		b.WriteString(keyEscaper.Replace(e.Name))
		b.WriteString(`": `)
		if e.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	}
}

// String implements fmt.Stringer.
func (c *Configuration) String() string {
	return c.Serialize()
}
