package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Report palette. Blue is the brand colour shared with the wizard.
var (
	PrimaryColor = lipgloss.Color("#1F6FEB") // headers, borders, codes
	SuccessColor = lipgloss.Color("#43BF6D") // delivered, valid
	ErrorColor   = lipgloss.Color("#FF5555") // rejected, invalid
	WarningColor = lipgloss.Color("#FFA500") // implausible values, confirmations
	MutedColor   = lipgloss.Color("#626262") // notes, labels
	TextColor    = lipgloss.Color("#FFFFFF")
)

// Report widths
const (
	MinTerminalWidth = 60
	MaxContentWidth  = 100
	DefaultPadding   = 2
)

// tone is a plain foreground style
func tone(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// heading is a bold foreground style
func heading(c lipgloss.Color) lipgloss.Style {
	return tone(c).Bold(true)
}

// Header block ("LEAD VALIDATION", "freightform validate", "File: lead.yaml")
var (
	HeaderTitleStyle      = heading(TextColor).PaddingLeft(2)
	HeaderCommandStyle    = tone(MutedColor).PaddingLeft(2)
	HeaderParamKeyStyle   = tone(MutedColor).PaddingLeft(2)
	HeaderParamValueStyle = tone(TextColor)
)

// Runner steps
var (
	StepCompleteStyle = tone(SuccessColor)
	StepRunningStyle  = tone(WarningColor)
	StepPendingStyle  = tone(MutedColor)
	StepNoteStyle     = tone(MutedColor).Italic(true)
)

// Result boxes, issue lists and troubleshooting tips
var (
	SuccessTitleStyle         = heading(SuccessColor)
	ErrorTitleStyle           = heading(ErrorColor)
	WarningTitleStyle         = heading(WarningColor)
	ErrorMessageStyle         = tone(ErrorColor)
	ResultKeyStyle            = tone(MutedColor).Width(22)
	ResultValueStyle          = tone(TextColor)
	TroubleshootingTitleStyle = heading(MutedColor)
	TroubleshootingItemStyle  = tone(MutedColor)
)

// Lead summaries and reference data tables
var (
	SectionTitleStyle = heading(PrimaryColor)
	TableKeyStyle     = heading(PrimaryColor)
	TableGroupStyle   = tone(MutedColor).Italic(true)
)

// Markers
const (
	StepMarkerComplete = "✓"
	StepMarkerRunning  = "●"
	StepMarkerPending  = "·"
	StepMarkerSkipped  = "⊘"
	SuccessMarker      = "✓"
	FailureMarker      = "✗"
	WarningMarker      = "⚠"
)

// GetTerminalWidth returns the stdout width capped to the report range.
// Pipes and redirections get the minimum width.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth
	}
	return min(clampWidth(width), MaxContentWidth)
}

// clampWidth keeps a rendering width above the supported minimum
func clampWidth(width int) int {
	return max(width, MinTerminalWidth)
}

// box is a bordered block filling width, borders included
func box(width int, border lipgloss.Border, color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(color).
		Width(width - 2)
}

// HeaderBorderStyle frames command headers
func HeaderBorderStyle(width int) lipgloss.Style {
	return box(width, lipgloss.RoundedBorder(), PrimaryColor)
}

// SuccessBoxStyle frames a delivered lead or a finished command
func SuccessBoxStyle(width int) lipgloss.Style {
	return box(width, lipgloss.DoubleBorder(), SuccessColor).Padding(0, DefaultPadding)
}

// ErrorBoxStyle frames a failure or a lead with problems
func ErrorBoxStyle(width int) lipgloss.Style {
	return box(width, lipgloss.DoubleBorder(), ErrorColor).Padding(0, DefaultPadding)
}

// WarningBoxStyle frames warnings and confirmation prompts
func WarningBoxStyle(width int) lipgloss.Style {
	return box(width, lipgloss.DoubleBorder(), WarningColor).Padding(0, DefaultPadding)
}

// SummaryBoxStyle frames lead summaries and option tables
func SummaryBoxStyle(width int) lipgloss.Style {
	return box(width, lipgloss.RoundedBorder(), MutedColor).Padding(0, 1)
}

// TroubleshootingBoxStyle frames the tips nested inside a failure box
func TroubleshootingBoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(max(width-12, 40)).
		Padding(0, 1).
		MarginLeft(3)
}

// RenderHorizontalDivider draws a brand coloured rule of width cells
func RenderHorizontalDivider(width int, char string) string {
	return tone(PrimaryColor).Render(strings.Repeat(char, max(width, 1)))
}
