package cli

import (
	"github.com/spf13/pflag"
)

// charsetSwitch is one --charset occurrence and the number of file arguments
// that preceded it on the command line.
type charsetSwitch struct {
	from int
	name string
}

// charsetFlag is a position-dependent --charset value: each occurrence
// applies to the file arguments that follow it, up to the next occurrence.
type charsetFlag struct {
	flags    *pflag.FlagSet
	initial  string
	switches []charsetSwitch
}

func newCharsetFlag(flags *pflag.FlagSet, initial string) *charsetFlag {
	return &charsetFlag{flags: flags, initial: initial}
}

// Set records a command line occurrence. The flag set has collected the
// positional arguments seen so far when it calls Set.
func (f *charsetFlag) Set(name string) error {
	f.switches = append(f.switches, charsetSwitch{from: len(f.flags.Args()), name: name})
	return nil
}

// SetDefault replaces the charset used before the first occurrence.
func (f *charsetFlag) SetDefault(name string) error {
	f.initial = name
	return nil
}

func (f *charsetFlag) String() string {
	if len(f.switches) == 0 {
		return f.initial
	}
	return f.switches[len(f.switches)-1].name
}

func (f *charsetFlag) Type() string {
	return "string"
}

// For returns the charset of the file argument at index.
func (f *charsetFlag) For(index int) string {
	name := f.initial
	for _, s := range f.switches {
		if s.from > index {
			break
		}
		name = s.name
	}
	return name
}

// Names returns every charset named for the invocation, the default first.
func (f *charsetFlag) Names() []string {
	names := []string{f.initial}
	for _, s := range f.switches {
		names = append(names, s.name)
	}
	return names
}
