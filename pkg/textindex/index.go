// Package textindex maps (line, column) positions reported by the lint engine
// to absolute character offsets in a source text.
//
// Offsets are counted in UTF-16 code units, which is how the JavaScript
// runtime indexes strings and therefore how engine columns are reported.
// For ASCII content this is identical to byte offsets.
package textindex

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"
)

// ErrOutOfRange is returned when a line number or offset falls outside the text.
var ErrOutOfRange = errors.New("position out of range")

// Index holds the line-start table for one immutable source text.
// Build it once per check and share it across all diagnostics of that check.
type Index struct {
	text string

	// starts[i] is the UTF-16 offset of the first character of line i.
	starts []int

	// byteStarts[i] is the byte offset of the first character of line i.
	byteStarts []int

	// length is the total text length in UTF-16 code units.
	length int
}

// New indexes text. Zero-length text yields a single line at offset 0, and a
// final line without a trailing newline is still indexed.
func New(text string) *Index {
	idx := &Index{
		text:       text,
		starts:     []int{0},
		byteStarts: []int{0},
	}

	units := 0
	for pos := 0; pos < len(text); {
		r, size := utf8.DecodeRuneInString(text[pos:])
		pos += size

		switch {
		case r == '\n':
			units++
			idx.starts = append(idx.starts, units)
			idx.byteStarts = append(idx.byteStarts, pos)
		case r >= 0x10000:
			// Encoded as a surrogate pair.
			units += 2
		default:
			units++
		}
	}
	idx.length = units

	return idx
}

// Text returns the indexed source text.
func (x *Index) Text() string {
	return x.text
}

// LineCount returns the number of lines, always at least 1.
func (x *Index) LineCount() int {
	return len(x.starts)
}

// Len returns the text length in UTF-16 code units.
func (x *Index) Len() int {
	return x.length
}

// LineOffset returns the absolute offset of the first character of the
// 0-based line.
func (x *Index) LineOffset(line int) (int, error) {
	if line < 0 || line >= len(x.starts) {
		return 0, fmt.Errorf("%w: line %d, text has %d lines", ErrOutOfRange, line, len(x.starts))
	}
	return x.starts[line], nil
}

// ByteOffset returns the byte offset of the first character of the 0-based line.
func (x *Index) ByteOffset(line int) (int, error) {
	if line < 0 || line >= len(x.byteStarts) {
		return 0, fmt.Errorf("%w: line %d, text has %d lines", ErrOutOfRange, line, len(x.byteStarts))
	}
	return x.byteStarts[line], nil
}

// Line returns the 0-based line containing offset.
// An offset equal to Len() belongs to the last line.
func (x *Index) Line(offset int) (int, error) {
	if offset < 0 || offset > x.length {
		return 0, fmt.Errorf("%w: offset %d, text length %d", ErrOutOfRange, offset, x.length)
	}

	// First line whose start is past offset, minus one.
	next := sort.Search(len(x.starts), func(i int) bool {
		return x.starts[i] > offset
	})

	return next - 1, nil
}

// Offset converts a 1-based line and 1-based column into an absolute offset.
func (x *Index) Offset(line, column int) (int, error) {
	if column < 1 {
		return 0, fmt.Errorf("%w: column %d", ErrOutOfRange, column)
	}
	start, err := x.LineOffset(line - 1)
	if err != nil {
		return 0, err
	}
	return start + column - 1, nil
}
