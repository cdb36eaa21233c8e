package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gojshint/pkg/marker"
	"github.com/yaklabco/gojshint/pkg/reporter"
)

func sampleMarkers() []marker.Marker {
	return []marker.Marker{
		{
			ID: "1", Resource: "app.js", Type: marker.TypeTag, Severity: marker.SeverityWarning,
			Message: "'org' is not defined", Line: 1, CharStart: 0, CharEnd: 3, Code: "W117",
		},
		{
			ID: "2", Resource: "app.js", Type: marker.TypeTag, Severity: marker.SeverityError,
			Message: "Expected '=' and instead saw '=='", Line: 4, CharStart: 40, CharEnd: 41, Code: "E005",
		},
		{
			ID: "3", Resource: "lib/util.js", Type: marker.TypeTag, Severity: marker.SeverityWarning,
			Message: "Could not evaluate JavaScript code: boom", Line: 0,
			CharStart: marker.NoRange, CharEnd: marker.NoRange,
		},
	}
}

func report(t *testing.T, opts reporter.Options, markers []marker.Marker) (string, int) {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	opts.Color = "never"

	r, err := reporter.New(opts)
	require.NoError(t, err)

	n, err := r.Report(context.Background(), markers)
	require.NoError(t, err)
	return buf.String(), n
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to table", input: "", want: reporter.FormatTable},
		{name: "table", input: "table", want: reporter.FormatTable},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "lines", input: "lines", want: reporter.FormatLines},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "sarif", input: "sarif", want: reporter.FormatSARIF},
		{name: "unknown format", input: "xml", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(testCase.input)
			if testCase.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Format: "xml"})
	require.Error(t, err)
	assert.False(t, reporter.Format("xml").IsValid())
}

func TestLinesReporter(t *testing.T) {
	t.Parallel()

	out, n := report(t, reporter.Options{Format: reporter.FormatLines}, sampleMarkers())

	assert.Equal(t, 3, n)
	assert.Equal(t, "app.js:1: warning: 'org' is not defined\n"+
		"app.js:4: error: Expected '=' and instead saw '=='\n"+
		"lib/util.js:0: warning: Could not evaluate JavaScript code: boom\n", out)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	out, n := report(t, reporter.Options{Format: reporter.FormatText}, sampleMarkers())

	assert.Equal(t, 3, n)
	assert.Contains(t, out, "app.js (2 issues)")
	assert.Contains(t, out, "lib/util.js (1 issues)")
	assert.Contains(t, out, "app.js:4  error  Expected '=' and instead saw '=='  (E005)")
	assert.Contains(t, out, "lib/util.js:0  warning  Could not evaluate JavaScript code: boom\n")
}

func TestTableReporter(t *testing.T) {
	t.Parallel()

	out, n := report(t, reporter.Options{Format: reporter.FormatTable}, sampleMarkers())

	assert.Equal(t, 3, n)
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "W117")
	assert.Contains(t, out, "3 markers in 2 files")
}

func TestEmptyReports(t *testing.T) {
	t.Parallel()

	for _, format := range []reporter.Format{reporter.FormatTable, reporter.FormatText} {
		out, n := report(t, reporter.Options{Format: format}, nil)
		assert.Equal(t, 0, n)
		assert.Equal(t, "No markers\n", out, format)
	}

	out, _ := report(t, reporter.Options{Format: reporter.FormatLines}, nil)
	assert.Empty(t, out)
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	out, n := report(t, reporter.Options{Format: reporter.FormatJSON}, sampleMarkers())
	assert.Equal(t, 3, n)

	var doc reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "1", doc.Version)
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "app.js", doc.Files[0].Path)
	require.Len(t, doc.Files[0].Markers, 2)
	assert.Equal(t, "error", doc.Files[0].Markers[1].Severity)
	assert.Equal(t, &reporter.JSONRange{Start: 40, End: 41}, doc.Files[0].Markers[1].Range)
	assert.Nil(t, doc.Files[1].Markers[0].Range)

	assert.Equal(t, 3, doc.Summary.Markers)
	assert.Equal(t, 2, doc.Summary.Files)
	assert.Equal(t, map[string]int{"warning": 2, "error": 1}, doc.Summary.BySeverity)
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.Options{Format: reporter.FormatJSON, Compact: true}, nil)
	assert.Equal(t, `{"version":"1","files":[],"summary":{"markers":0,"files":0,"bySeverity":{}}}`+"\n", out)
}

func TestSARIFReporter(t *testing.T) {
	t.Parallel()

	opts := reporter.Options{Format: reporter.FormatSARIF, Root: "/work/site", ToolVersion: "1.2.3"}
	out, n := report(t, opts, sampleMarkers())
	assert.Equal(t, 3, n)

	var doc reporter.SARIFOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	run := doc.Runs[0]

	assert.Equal(t, "gojshint", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	assert.Equal(t, "file:///work/site/", run.OriginalURIBaseIDs["PROJECTROOT"].URI)

	ruleIDs := make([]string, 0, len(run.Tool.Driver.Rules))
	for _, rule := range run.Tool.Driver.Rules {
		ruleIDs = append(ruleIDs, rule.ID)
	}
	assert.Equal(t, []string{"W117", "E005", "engine"}, ruleIDs)

	require.Len(t, run.Results, 3)
	first := run.Results[0]
	assert.Equal(t, "warning", first.Level)
	assert.Equal(t, 0, first.RuleIndex)
	location := first.Locations[0].PhysicalLocation
	assert.Equal(t, "app.js", location.ArtifactLocation.URI)
	assert.Equal(t, "PROJECTROOT", location.ArtifactLocation.URIBaseID)
	require.NotNil(t, location.Region)
	assert.Equal(t, 1, location.Region.StartLine)
	require.NotNil(t, location.Region.CharOffset)
	assert.Equal(t, 0, *location.Region.CharOffset)
	assert.Equal(t, 3, *location.Region.CharLength)

	assert.Equal(t, "error", run.Results[1].Level)
	assert.Equal(t, 2, run.Results[2].RuleIndex)
	assert.Nil(t, run.Results[2].Locations[0].PhysicalLocation.Region)
}

func TestSARIFReporter_WithoutRoot(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.Options{Format: reporter.FormatSARIF}, sampleMarkers()[:1])

	assert.NotContains(t, out, "originalUriBaseIds")
	assert.NotContains(t, out, "uriBaseId")
	assert.True(t, strings.Contains(out, `"version": "dev"`), out)
}
