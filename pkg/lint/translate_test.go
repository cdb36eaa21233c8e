package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gojshint/pkg/lint"
	"github.com/yaklabco/gojshint/pkg/textindex"
)

func TestTranslate(t *testing.T) {
	t.Parallel()

	idx := textindex.New("var a;\nvar b = c;\n")

	tests := []struct {
		name string
		raw  lint.RawRecord
		want lint.Diagnostic
	}{
		{
			name: "first line",
			raw:  lint.RawRecord{Line: 1, Character: 5, Reason: "Unused 'a'.", Code: "W098"},
			want: lint.Diagnostic{Line: 1, Character: 5, Offset: 4, Message: "Unused 'a'", Code: "W098"},
		},
		{
			name: "second line",
			raw:  lint.RawRecord{Line: 2, Character: 9, Reason: "'c' is not defined.", Code: "W117"},
			want: lint.Diagnostic{Line: 2, Character: 9, Offset: 15, Message: "'c' is not defined", Code: "W117"},
		},
		{
			name: "unknown character has no offset",
			raw:  lint.RawRecord{Line: 2, Character: lint.Unknown, Reason: "Oops"},
			want: lint.Diagnostic{Line: 2, Character: lint.Unknown, Offset: lint.Unknown, Message: "Oops"},
		},
		{
			name: "line zero has no offset",
			raw:  lint.RawRecord{Line: 0, Character: 3, Reason: "Engine failure"},
			want: lint.Diagnostic{Line: 0, Character: 3, Offset: lint.Unknown, Message: "Engine failure"},
		},
		{
			name: "line past end has no offset",
			raw:  lint.RawRecord{Line: 10, Character: 1, Reason: "x"},
			want: lint.Diagnostic{Line: 10, Character: 1, Offset: lint.Unknown, Message: "x"},
		},
		{
			name: "only one trailing period is stripped",
			raw:  lint.RawRecord{Line: 1, Character: 1, Reason: "Wait..."},
			want: lint.Diagnostic{Line: 1, Character: 1, Offset: 0, Message: "Wait.."},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, lint.Translate(testCase.raw, idx))
		})
	}
}

func TestTranslate_NilIndex(t *testing.T) {
	t.Parallel()

	diag := lint.Translate(lint.RawRecord{Line: 1, Character: 1, Reason: "x."}, nil)
	assert.Equal(t, lint.Unknown, diag.Offset)
	assert.Equal(t, "x", diag.Message)
}

func TestRecordFromValue(t *testing.T) {
	t.Parallel()

	t.Run("null entries are skipped", func(t *testing.T) {
		t.Parallel()

		_, ok := lint.RecordFromValue(nil)
		assert.False(t, ok)

		_, ok = lint.RecordFromValue("not a record")
		assert.False(t, ok)
	})

	t.Run("numbers in any exported form", func(t *testing.T) {
		t.Parallel()

		raw, ok := lint.RecordFromValue(map[string]any{
			"line":      int64(3),
			"character": float64(7),
			"reason":    "Missing semicolon.",
			"code":      "W033",
			"evidence":  "var x = 1",
		})
		require.True(t, ok)
		assert.Equal(t, lint.RawRecord{
			Line: 3, Character: 7, Reason: "Missing semicolon.", Code: "W033", Evidence: "var x = 1",
		}, raw)
	})

	t.Run("absent fields default", func(t *testing.T) {
		t.Parallel()

		raw, ok := lint.RecordFromValue(map[string]any{"reason": "x"})
		require.True(t, ok)
		assert.Equal(t, lint.Unknown, raw.Line)
		assert.Equal(t, lint.Unknown, raw.Character)
		assert.Empty(t, raw.Code)
	})

	t.Run("string numbers and null code", func(t *testing.T) {
		t.Parallel()

		raw, ok := lint.RecordFromValue(map[string]any{"line": "12", "character": "x", "code": nil})
		require.True(t, ok)
		assert.Equal(t, 12, raw.Line)
		assert.Equal(t, lint.Unknown, raw.Character)
		assert.Empty(t, raw.Code)
	})
}

func TestDiagnostic_IsError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want bool
	}{
		{code: "E041", want: true},
		{code: "W117", want: false},
		{code: "", want: false},
		{code: "e001", want: false},
		{code: "I003", want: false},
	}

	for _, testCase := range tests {
		diag := lint.Diagnostic{Code: testCase.code}
		assert.Equal(t, testCase.want, diag.IsError(), "code %q", testCase.code)
	}
}

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()

	diag := lint.Diagnostic{Line: 2, Character: 4, Message: "Read only", Code: "W020"}
	assert.Equal(t, "2:4: Read only (W020)", diag.String())
}
