package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gojshint/pkg/marker"
)

// SARIF version used by this reporter.
const sarifVersion = "2.1.0"

// SARIF schema URI.
const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

const (
	sarifToolName = "gojshint"
	sarifToolURI  = "https://github.com/yaklabco/gojshint"

	// sarifRootBase names the project root in originalUriBaseIds.
	sarifRootBase = "PROJECTROOT"

	// sarifUncodedRule is the rule of markers the engine gave no code, such
	// as failures raised while evaluating the engine.
	sarifUncodedRule = "engine"
)

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool               SARIFTool                        `json:"tool"`
	OriginalURIBaseIDs map[string]SARIFArtifactLocation `json:"originalUriBaseIds,omitempty"`
	Results            []SARIFResult                    `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes one engine problem code.
type SARIFRule struct {
	ID               string               `json:"id"`
	ShortDescription SARIFMultiformatText `json:"shortDescription"`
	DefaultConfig    *SARIFRuleConfig     `json:"defaultConfiguration,omitempty"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFResult represents a single marker.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           *SARIFRegion          `json:"region,omitempty"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

// SARIFRegion describes the affected text region. CharOffset and
// CharLength are only set for markers with a range.
type SARIFRegion struct {
	StartLine  int  `json:"startLine"`
	CharOffset *int `json:"charOffset,omitempty"`
	CharLength *int `json:"charLength,omitempty"`
}

// SARIFReporter formats markers as SARIF.
type SARIFReporter struct {
	opts Options
	out  io.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{
		opts: opts,
		out:  opts.Writer,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, markers []marker.Marker) (int, error) {
	output := r.BuildSARIF(markers)

	encoder := json.NewEncoder(r.out)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}

	return len(output.Runs[0].Results), nil
}

// BuildSARIF converts markers into a single-run SARIF document. Rules are
// listed in order of first use.
func (r *SARIFReporter) BuildSARIF(markers []marker.Marker) *SARIFOutput {
	run := SARIFRun{
		Tool: SARIFTool{
			Driver: SARIFDriver{
				Name:           sarifToolName,
				Version:        r.opts.ToolVersion,
				InformationURI: sarifToolURI,
				Rules:          make([]SARIFRule, 0),
			},
		},
		Results: make([]SARIFResult, 0, len(markers)),
	}

	baseID := ""
	if r.opts.Root != "" {
		baseID = sarifRootBase
		run.OriginalURIBaseIDs = map[string]SARIFArtifactLocation{
			sarifRootBase: {URI: directoryURI(r.opts.Root)},
		}
	}

	ruleIndex := make(map[string]int)
	for _, m := range markers {
		ruleID := m.Code
		if ruleID == "" {
			ruleID = sarifUncodedRule
		}

		index, seen := ruleIndex[ruleID]
		if !seen {
			index = len(run.Tool.Driver.Rules)
			ruleIndex[ruleID] = index
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, SARIFRule{
				ID:               ruleID,
				ShortDescription: SARIFMultiformatText{Text: m.Message},
				DefaultConfig:    &SARIFRuleConfig{Level: severityToSARIFLevel(m.Severity)},
			})
		}

		location := SARIFPhysicalLocation{
			ArtifactLocation: SARIFArtifactLocation{URI: m.Resource, URIBaseID: baseID},
		}
		// SARIF lines start at 1; line 0 markers belong to the whole file.
		if m.Line > 0 {
			region := &SARIFRegion{StartLine: m.Line}
			if m.HasRange() {
				offset, length := m.CharStart, m.CharEnd-m.CharStart
				region.CharOffset, region.CharLength = &offset, &length
			}
			location.Region = region
		}

		run.Results = append(run.Results, SARIFResult{
			RuleID:    ruleID,
			RuleIndex: index,
			Level:     severityToSARIFLevel(m.Severity),
			Message:   SARIFMessage{Text: m.Message},
			Locations: []SARIFLocation{{PhysicalLocation: location}},
		})
	}

	return &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs:    []SARIFRun{run},
	}
}

// severityToSARIFLevel converts a marker severity to a SARIF level.
func severityToSARIFLevel(severity marker.Severity) string {
	switch severity {
	case marker.SeverityError:
		return "error"
	case marker.SeverityWarning:
		return "warning"
	case marker.SeverityInfo:
		return "note"
	default:
		return "warning"
	}
}

// directoryURI returns the file URI of dir with the trailing slash SARIF
// requires for base locations.
func directoryURI(dir string) string {
	path := filepath.ToSlash(dir)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return (&url.URL{Scheme: "file", Path: path}).String()
}
