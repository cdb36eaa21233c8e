// Package cli provides the Cobra command structure for gojshint.
package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gojshint/internal/ui/pretty"
)

// Command groups of the root listing.
const (
	groupLint    = "lint"
	groupResults = "results"
	groupSetup   = "setup"
)

// examplesMarker separates a command's description from the examples kept
// at the end of its long text.
const examplesMarker = "\n\nExamples:\n"

// addCommandGroups declares the root command sections.
func addCommandGroups(root *cobra.Command) {
	root.AddGroup(
		&cobra.Group{ID: groupLint, Title: "Lint Commands:"},
		&cobra.Group{ID: groupResults, Title: "Result Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)
}

// addToGroup adds commands to root under group.
func addToGroup(root *cobra.Command, group string, commands ...*cobra.Command) {
	for _, cmd := range commands {
		cmd.GroupID = group
		root.AddCommand(cmd)
	}
}

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Argument    lipgloss.Style
	EnvVar      lipgloss.Style
	Description lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{
			Command:     plain,
			Heading:     plain,
			Subcommand:  plain,
			Flag:        plain,
			Argument:    plain,
			EnvVar:      plain,
			Description: plain,
			Dim:         plain,
		}
	}

	return &HelpStyles{
		Command:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Argument:    lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		EnvVar:      lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Description: lipgloss.NewStyle(),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders help and usage for the gojshint commands. Color is
// decided when the help is written, after --color was parsed.
type HelpFormatter struct {
	colorMode *string
}

// NewHelpFormatter creates a help formatter reading the color mode from
// colorMode at render time.
func NewHelpFormatter(colorMode *string) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode}
}

const usageTemplate = `{{ styleHeading "Usage:" }}{{if .Runnable}}
  {{ styleCommand .UseLine }}{{end}}{{if .HasAvailableSubCommands}}
  {{ styleCommand .CommandPath }} [command]{{end}}
{{- with (examples .)}}

{{ styleHeading "Examples:" }}
{{ . }}
{{- end}}
{{- commandList .}}
{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ flagTable .LocalFlags }}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ flagTable .InheritedFlags }}
{{- end}}
{{- with (environment .)}}

{{ styleHeading "Environment:" }}
{{ . }}
{{- end}}
{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (description .)}}{{ . }}

{{end}}` + usageTemplate

// render executes tmpl for cmd on the command's output.
func (h *HelpFormatter) render(cmd *cobra.Command, name, tmpl string) error {
	out := cmd.OutOrStdout()
	styles := NewHelpStyles(pretty.IsColorEnabled(h.mode(), out))
	view := &helpView{styles: styles}

	parsed, err := template.New(name).Funcs(view.funcs()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("parse %s template: %w", name, err)
	}
	return parsed.Execute(out, cmd)
}

func (h *HelpFormatter) mode() string {
	if h.colorMode == nil || *h.colorMode == "" {
		return "auto"
	}
	return *h.colorMode
}

// ApplyToCommand installs the help and usage functions on cmd. Subcommands
// inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return h.render(command, "usage", usageTemplate)
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := h.render(command, "help", helpTemplate); err != nil {
			command.PrintErrln(err)
		}
	})
}

// helpView holds the styles of one rendering.
type helpView struct {
	styles *HelpStyles
}

func (v *helpView) funcs() template.FuncMap {
	return template.FuncMap{
		"styleCommand": v.styles.Command.Render,
		"styleHeading": v.styles.Heading.Render,
		"description":  v.description,
		"examples":     v.examples,
		"commandList":  v.commandList,
		"flagTable":    v.flagTable,
		"environment":  v.environment,
	}
}

// description is the long text of cmd without its examples.
func (v *helpView) description(cmd *cobra.Command) string {
	text := cmd.Long
	if text == "" {
		text = cmd.Short
	}
	text, _, _ = strings.Cut(text, examplesMarker)
	return trimTrailingWhitespaces(text)
}

// examples styles the examples of cmd: those at the end of its long text
// and its Example field.
func (v *helpView) examples(cmd *cobra.Command) string {
	var lines []string
	if _, tail, found := strings.Cut(cmd.Long, examplesMarker); found {
		lines = append(lines, strings.Split(strings.TrimRight(tail, "\n"), "\n")...)
	}
	if cmd.Example != "" {
		lines = append(lines, strings.Split(strings.TrimRight(cmd.Example, "\n"), "\n")...)
	}

	for i, line := range lines {
		lines[i] = v.exampleLine(line)
	}
	return strings.Join(lines, "\n")
}

// exampleLine highlights a gojshint invocation: the program and its
// subcommand, flags and arguments. Shell redirections and other lines are
// dimmed.
func (v *helpView) exampleLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]
	if !strings.HasPrefix(trimmed, "gojshint ") {
		return indent + v.styles.Dim.Render(trimmed)
	}

	tokens := strings.Fields(trimmed)
	styled := make([]string, len(tokens))
	redirected := false
	for i, token := range tokens {
		switch {
		case redirected || token == ">" || token == "|":
			redirected = true
			styled[i] = v.styles.Dim.Render(token)
		case i == 0:
			styled[i] = v.styles.Command.Render(token)
		case i == 1 && !strings.HasPrefix(token, "-"):
			styled[i] = v.styles.Subcommand.Render(token)
		case strings.HasPrefix(token, "-"):
			styled[i] = v.styles.Flag.Render(token)
		default:
			styled[i] = v.styles.Argument.Render(token)
		}
	}
	return indent + strings.Join(styled, " ")
}

// commandList lists the subcommands of cmd by group.
func (v *helpView) commandList(cmd *cobra.Command) string {
	var b strings.Builder
	section := func(title string, match func(*cobra.Command) bool) {
		var rows []string
		for _, sub := range cmd.Commands() {
			if !sub.IsAvailableCommand() && sub.Name() != "help" {
				continue
			}
			if !match(sub) {
				continue
			}
			rows = append(rows, "  "+v.styles.Subcommand.Render(rpad(sub.Name(), sub.NamePadding()))+" "+
				v.styles.Description.Render(sub.Short))
		}
		if len(rows) == 0 {
			return
		}
		b.WriteString("\n\n" + v.styles.Heading.Render(title) + "\n" + strings.Join(rows, "\n"))
	}

	if !cmd.HasAvailableSubCommands() {
		return ""
	}
	if len(cmd.Groups()) == 0 {
		section("Available Commands:", func(*cobra.Command) bool { return true })
		return b.String()
	}
	for _, group := range cmd.Groups() {
		id := group.ID
		section(group.Title, func(sub *cobra.Command) bool { return sub.GroupID == id })
	}
	section("Additional Commands:", func(sub *cobra.Command) bool { return sub.GroupID == "" })
	return b.String()
}

type flagRow struct {
	name    string
	varname string
	usage   string
}

func (r flagRow) width() int {
	if r.varname == "" {
		return len(r.name)
	}
	return len(r.name) + 1 + len(r.varname)
}

// flagTable lays out flags in aligned columns: name, value type, usage
// with the default.
func (v *helpView) flagTable(flags *pflag.FlagSet) string {
	var rows []flagRow
	widest := 0
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}

		name := "    --" + flag.Name
		if flag.Shorthand != "" {
			name = "-" + flag.Shorthand + ", --" + flag.Name
		}
		varname, usage := pflag.UnquoteUsage(flag)
		if def := defaultText(flag); def != "" {
			usage += " (default " + def + ")"
		}

		row := flagRow{name: name, varname: varname, usage: usage}
		widest = max(widest, row.width())
		rows = append(rows, row)
	})

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		line := "  " + v.styles.Flag.Render(row.name)
		if row.varname != "" {
			line += " " + v.styles.Dim.Render(row.varname)
		}
		line += strings.Repeat(" ", widest-row.width()+3) + v.styles.Description.Render(row.usage)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// defaultText is the default shown for flag, empty for zero values.
func defaultText(flag *pflag.Flag) string {
	switch flag.DefValue {
	case "", "false", "0", "0s", "[]":
		return ""
	}
	if flag.Value.Type() == "string" {
		return fmt.Sprintf("%q", flag.DefValue)
	}
	return flag.DefValue
}

// environment lists the GOJSHINT_* variables that default flags of cmd.
func (v *helpView) environment(cmd *cobra.Command) string {
	names := make(map[string]string)
	collect := func(flag *pflag.Flag) {
		if env := GetEnvVarName(flag.Name); env != "" && !flag.Hidden {
			names[env] = flag.Name
		}
	}
	cmd.NonInheritedFlags().VisitAll(collect)
	cmd.InheritedFlags().VisitAll(collect)
	if len(names) == 0 {
		return ""
	}

	vars := make([]string, 0, len(names))
	widest := 0
	for env := range names {
		vars = append(vars, env)
		widest = max(widest, len(env))
	}
	sort.Strings(vars)

	lines := make([]string, 0, len(vars))
	for _, env := range vars {
		lines = append(lines, "  "+v.styles.EnvVar.Render(rpad(env, widest))+"   "+
			v.styles.Dim.Render("--"+names[env]))
	}
	return strings.Join(lines, "\n")
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
