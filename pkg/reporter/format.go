package reporter

import "fmt"

// Format represents an output format.
type Format string

// Output formats supported by the reporter.
const (
	FormatTable Format = "table"
	FormatText  Format = "text"
	FormatLines Format = "lines"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

// ParseFormat parses a format string, returning an error for unknown formats.
func ParseFormat(formatStr string) (Format, error) {
	switch formatStr {
	case "table", "":
		return FormatTable, nil
	case "text":
		return FormatText, nil
	case "lines":
		return FormatLines, nil
	case "json":
		return FormatJSON, nil
	case "sarif":
		return FormatSARIF, nil
	default:
		return "", fmt.Errorf("unknown format %q; valid formats: table, text, lines, json, sarif", formatStr)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	switch f {
	case FormatTable, FormatText, FormatLines, FormatJSON, FormatSARIF:
		return true
	default:
		return false
	}
}
