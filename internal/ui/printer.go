package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/freightform/internal/leadform"
	"github.com/muurk/freightform/internal/picker"
)

// Printer provides methods for printing report components to a writer.
// This is the primary way CLI commands output styled content.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = clampWidth(width)
	return p
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
	p.Newline()
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Param) {
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintFailure prints an error result box with troubleshooting tips
func (p *Printer) PrintFailure(title string, err error, troubleshooting ...string) {
	p.Println(NewFailureResult(title, err, troubleshooting...).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Param) {
	p.Println(NewWarningResult(title, details...).SetWidth(p.width).Render())
}

// PrintSummary prints a lead summary box
func (p *Printer) PrintSummary(sections []leadform.SummarySection) {
	p.Println(RenderSummary(sections, p.width))
}

// PrintOptions prints an option table
func (p *Printer) PrintOptions(title string, options []picker.Option) {
	p.Println(RenderOptionTable(title, options, p.width))
}

// PrintIssues prints validation findings, errors first then warnings
func (p *Printer) PrintIssues(issues []error) {
	p.Println(RenderIssues(issues, p.width))
}

// RenderSummary renders the review of a lead, one block per step
func RenderSummary(sections []leadform.SummarySection, width int) string {
	width = clampWidth(width)

	keyWidth := 0
	for _, section := range sections {
		for _, line := range section.Lines {
			keyWidth = max(keyWidth, lipgloss.Width(line.Label)+1)
		}
	}
	keyStyle := lipgloss.NewStyle().Foreground(MutedColor).Width(keyWidth + 2)

	var blocks []string
	for _, section := range sections {
		lines := []string{SectionTitleStyle.Render(section.Title)}
		if len(section.Lines) == 0 {
			lines = append(lines, StepNoteStyle.Render("  (nothing entered)"))
		}
		for _, line := range section.Lines {
			lines = append(lines, keyStyle.Render("  "+line.Label+":")+ResultValueStyle.Render(line.Value))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	return SummaryBoxStyle(width).Render(strings.Join(blocks, "\n\n"))
}

// RenderOptionTable renders reference options as a two-column table with
// group headings where the group changes
func RenderOptionTable(title string, options []picker.Option, width int) string {
	width = clampWidth(width)

	keyWidth := 0
	for _, o := range options {
		keyWidth = max(keyWidth, lipgloss.Width(o.Key))
	}
	keyStyle := TableKeyStyle.Width(keyWidth + 2)

	lines := []string{SectionTitleStyle.Render(title), ""}
	if len(options) == 0 {
		lines = append(lines, StepNoteStyle.Render("No matches"))
	}
	group := ""
	for _, o := range options {
		if o.Group != "" && o.Group != group {
			group = o.Group
			lines = append(lines, TableGroupStyle.Render(group))
		}
		lines = append(lines, keyStyle.Render(o.Key)+ResultValueStyle.Render(o.Display()))
	}
	lines = append(lines, "", StepNoteStyle.Render(fmt.Sprintf("%d entries", len(options))))

	return SummaryBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderIssues renders validation findings; an empty list renders a success box
func RenderIssues(issues []error, width int) string {
	width = clampWidth(width)
	warnings, errs := leadform.SeparateWarningsAndErrors(issues)

	if len(errs) == 0 && len(warnings) == 0 {
		return NewSuccessResult("The lead is complete").SetWidth(width).Render()
	}

	var lines []string
	if len(errs) > 0 {
		lines = append(lines, "", ErrorTitleStyle.Render(fmt.Sprintf(" %s  %d problem(s)", FailureMarker, len(errs))), "")
		for _, err := range errs {
			lines = append(lines, ErrorMessageStyle.Render("  • "+err.Error()))
		}
	}
	if len(warnings) > 0 {
		lines = append(lines, "", WarningTitleStyle.Render(fmt.Sprintf(" %s  %d warning(s)", WarningMarker, len(warnings))), "")
		for _, w := range warnings {
			lines = append(lines, TroubleshootingItemStyle.Render("  • "+w.Error()))
		}
	}
	lines = append(lines, "")

	style := WarningBoxStyle(width)
	if len(errs) > 0 {
		style = ErrorBoxStyle(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}
