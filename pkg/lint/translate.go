package lint

import (
	"math"
	"strconv"
	"strings"

	"github.com/yaklabco/gojshint/pkg/textindex"
)

// RawRecord is one engine problem record with its loosely typed fields
// already coerced. Absent numbers are Unknown, absent strings are empty.
type RawRecord struct {
	Line      int
	Character int
	Reason    string
	Code      string
	Evidence  string
}

// NewRawRecord returns a record with every field absent.
func NewRawRecord() RawRecord {
	return RawRecord{Line: Unknown, Character: Unknown}
}

// Translate converts a raw record into a Diagnostic, resolving the absolute
// offset through idx. The offset is only computed when both line and
// character are at least 1 and the line exists in idx.
func Translate(raw RawRecord, idx *textindex.Index) Diagnostic {
	diag := Diagnostic{
		Line:      raw.Line,
		Character: raw.Character,
		Offset:    Unknown,
		Message:   strings.TrimSuffix(raw.Reason, "."),
		Code:      raw.Code,
		Evidence:  raw.Evidence,
	}

	if idx != nil && raw.Line >= 1 && raw.Character >= 1 {
		if start, err := idx.LineOffset(raw.Line - 1); err == nil {
			diag.Offset = start + raw.Character - 1
		}
	}

	return diag
}

// RecordFromValue coerces one exported engine value into a RawRecord.
// It returns false for null entries, which the engine uses to mark records it
// skipped, and for values that are not objects.
func RecordFromValue(value any) (RawRecord, bool) {
	fields, ok := value.(map[string]any)
	if !ok || fields == nil {
		return RawRecord{}, false
	}

	raw := NewRawRecord()
	raw.Line = intField(fields, "line")
	raw.Character = intField(fields, "character")
	raw.Reason = stringField(fields, "reason")
	raw.Code = stringField(fields, "code")
	raw.Evidence = stringField(fields, "evidence")

	return raw, true
}

func intField(fields map[string]any, name string) int {
	switch v := fields[name].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Unknown
		}
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Unknown
		}
		return n
	default:
		return Unknown
	}
}

func stringField(fields map[string]any, name string) string {
	switch v := fields[name].(type) {
	case string:
		return v
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
