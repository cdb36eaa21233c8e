package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gojshint/pkg/marker"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 4 // FILE, LOC, MESSAGE, CODE
	minFileWidth     = 20
	minLocWidth      = 6
	minMessageWidth  = 35
	minCodeWidth     = 6
	heavySeparator   = "="
	lightSeparator   = "-"
)

// TableRow represents a single row in the marker table.
type TableRow struct {
	File     string
	Location string
	Message  string
	Code     string
	Severity marker.Severity
}

// MarkerToTableRow converts a stored marker to a table row. Markers without
// a line number show "-".
func MarkerToTableRow(m marker.Marker) TableRow {
	loc := "-"
	if m.Line > 0 {
		loc = strconv.Itoa(m.Line)
	}
	return TableRow{
		File:     m.Resource,
		Location: loc,
		Message:  m.Message,
		Code:     m.Code,
		Severity: m.Severity,
	}
}

// TableFormatter formats markers as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// FormatTable formats markers as a table grouped by resource. Markers are
// expected in resource order, as marker.Sink.List returns them.
func (t *TableFormatter) FormatTable(markers []marker.Marker) string {
	groups := groupRows(markers)
	if len(groups) == 0 {
		return ""
	}

	colWidths := t.calculateColumnWidths(groups)

	var builder strings.Builder

	builder.WriteString(t.formatHeader(colWidths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(colWidths, heavySeparator))
	builder.WriteString("\n")

	for i, group := range groups {
		if i > 0 {
			builder.WriteString(t.formatSeparator(colWidths, lightSeparator))
			builder.WriteString("\n")
		}
		for _, row := range group {
			builder.WriteString(t.formatRow(row, colWidths))
			builder.WriteString("\n")
		}
	}

	builder.WriteString(t.formatSeparator(colWidths, heavySeparator))
	builder.WriteString("\n")
	builder.WriteString(t.formatLegend())
	builder.WriteString("\n")

	return builder.String()
}

// FormatTableSummary formats a summary line for a marker listing.
func (t *TableFormatter) FormatTableSummary(markers []marker.Marker) string {
	files := map[string]bool{}
	counts := map[marker.Severity]int{}
	for _, m := range markers {
		files[m.Resource] = true
		counts[m.Severity]++
	}

	parts := []string{fmt.Sprintf("%d markers in %d files", len(markers), len(files))}
	if n := counts[marker.SeverityError]; n > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d errors", n)))
	}
	if n := counts[marker.SeverityWarning]; n > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d warnings", n)))
	}
	if n := counts[marker.SeverityInfo]; n > 0 {
		parts = append(parts, t.styles.Info.Render(fmt.Sprintf("%d info", n)))
	}

	return " " + strings.Join(parts, " | ")
}

// groupRows collects rows grouped by consecutive resource.
func groupRows(markers []marker.Marker) [][]TableRow {
	var groups [][]TableRow
	last := ""
	for i, m := range markers {
		row := MarkerToTableRow(m)
		if i == 0 || m.Resource != last {
			groups = append(groups, nil)
			last = m.Resource
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], row)
	}
	return groups
}

type columnWidths struct {
	file    int
	loc     int
	message int
	code    int
}

// calculateColumnWidths determines optimal column widths based on content.
func (t *TableFormatter) calculateColumnWidths(groups [][]TableRow) columnWidths {
	widths := columnWidths{
		file:    minFileWidth,
		loc:     minLocWidth,
		message: minMessageWidth,
		code:    minCodeWidth,
	}

	for _, group := range groups {
		for _, row := range group {
			widths.file = max(widths.file, len(row.File))
			widths.loc = max(widths.loc, len(row.Location))
			widths.message = max(widths.message, len(row.Message))
			widths.code = max(widths.code, len(row.Code))
		}
	}

	// Constrain to terminal width, message first.
	totalWidth := t.calculateTotalWidth(widths)
	if totalWidth > t.termWidth {
		excess := totalWidth - t.termWidth
		widths.message = max(minMessageWidth, widths.message-excess)

		totalWidth = t.calculateTotalWidth(widths)
		if totalWidth > t.termWidth {
			excess = totalWidth - t.termWidth
			widths.file = max(minFileWidth, widths.file-excess)
		}
	}

	return widths
}

func (t *TableFormatter) calculateTotalWidth(widths columnWidths) int {
	return widths.file + widths.loc + widths.message + widths.code + (tablePadding * tableColumnCount)
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s ",
		widths.file, "FILE",
		widths.loc, "LINE",
		widths.message, "MESSAGE",
		widths.code, "CODE",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, t.calculateTotalWidth(widths)))
}

// formatRow formats a single table row with severity-based styling.
func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	content := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s ",
		widths.file, truncateFilePath(row.File, widths.file),
		widths.loc, truncateString(row.Location, widths.loc),
		widths.message, truncateString(row.Message, widths.message),
		widths.code, truncateString(row.Code, widths.code),
	)
	return t.getRowStyle(row.Severity).Render(content)
}

func (t *TableFormatter) getRowStyle(severity marker.Severity) lipgloss.Style {
	switch severity {
	case marker.SeverityError:
		return t.styles.TableErrorRow
	case marker.SeverityWarning:
		return t.styles.TableWarnRow
	case marker.SeverityInfo:
		return t.styles.TableInfoRow
	default:
		return lipgloss.NewStyle()
	}
}

func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(" Legend: rows are colored by severity when color is enabled")
	}

	return t.styles.TableLegend.Render(
		fmt.Sprintf(" Legend: %s = error  %s = warning  %s = info",
			t.styles.TableErrorRow.Render(" error "),
			t.styles.TableWarnRow.Render(" warning "),
			t.styles.TableInfoRow.Render(" info ")),
	)
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
