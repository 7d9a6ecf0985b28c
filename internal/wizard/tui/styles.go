package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/freightform/internal/version"
)

// Application branding constants
const (
	AppName = "FREIGHTFORM"
	AppURL  = "github.com/muurk/freightform"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth  = 72 // Minimum supported terminal width
	MinTerminalHeight = 20 // Minimum supported terminal height
	labelWidth        = 28 // Field label column
	triggerWidth      = 34 // Field value column
	contentIndent     = 2  // Left margin of the form content
)

// Palette, shared with the command reports
var (
	PrimaryColor   = lipgloss.Color("#1F6FEB") // brand blue: titles, frames, focus
	SecondaryColor = lipgloss.Color("#43BF6D") // valid fields, delivered leads
	WarningColor   = lipgloss.Color("#FFA500") // blocked transitions
	ErrorColor     = lipgloss.Color("#FF5555") // invalid fields, failed delivery

	TextColor       = lipgloss.Color("#FFFFFF")
	SubtleColor     = lipgloss.Color("#626262")
	BorderColor     = PrimaryColor
	HighlightColor  = SecondaryColor
)

func tone(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func strong(c lipgloss.Color) lipgloss.Style {
	return tone(c).Bold(true)
}

func note(c lipgloss.Color) lipgloss.Style {
	return tone(c).Italic(true)
}

func framed(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c)
}

// Screen text
var (
	TitleStyle      = strong(PrimaryColor)
	SubtitleStyle   = note(SubtleColor)
	PhaseTitleStyle = strong(TextColor)
	NoticeStyle     = strong(WarningColor) // blocked transitions
	ExplainStyle    = note(ErrorColor)     // under a focused invalid field
	SpinnerStyle    = tone(PrimaryColor)
)

// Form rows: label, trigger and validity marker
var (
	LabelStyle          = tone(SubtleColor)
	FocusedLabelStyle   = strong(HighlightColor)
	BlockedLabelStyle   = tone(ErrorColor)
	TriggerStyle        = tone(TextColor)
	PlaceholderStyle    = note(SubtleColor)
	FocusedTriggerStyle = strong(PrimaryColor)

	ValidMarkerStyle   = tone(SecondaryColor)
	InvalidMarkerStyle = tone(ErrorColor)
	PendingMarkerStyle = tone(SubtleColor)
)

// Step trail
var (
	CurrentStepStyle = strong(PrimaryColor)
	ReachedStepStyle = tone(TextColor)
	FutureStepStyle  = tone(SubtleColor)
)

// Dropdown panel
var (
	PanelStyle             = framed(PrimaryColor)
	HighlightedOptionStyle = strong(HighlightColor)
	GroupTagStyle          = note(SubtleColor) // "sea", "popular"
)

// Review and confirmation
var (
	MenuItemStyle         = tone(TextColor).PaddingLeft(2)
	SelectedMenuItemStyle = strong(HighlightColor)

	ButtonStyle        = tone(TextColor).Background(SubtleColor).Padding(0, 2)
	FocusedButtonStyle = strong(TextColor).Background(PrimaryColor).Padding(0, 2)

	SuccessBoxStyle = framed(SecondaryColor).Foreground(SecondaryColor).Bold(true).Padding(1, 2)
	ErrorBoxStyle   = framed(ErrorColor).Foreground(ErrorColor).Bold(true).Padding(0, 1)
	HelpBoxStyle    = framed(PrimaryColor).Padding(1, 2)
)

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderMenuItem renders a menu item with selection indicator
func RenderMenuItem(text string, selected bool) string {
	if selected {
		return SelectedMenuItemStyle.Render("› " + text)
	}
	return MenuItemStyle.Render(text)
}

// BuildHeaderContent lays out "FREIGHTFORM vX  <title>  <url>"
func BuildHeaderContent(title string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		strong(TextColor).Render(AppName+" v"+AppVersion()), "  ",
		tone(PrimaryColor).Render(title), "  ",
		tone(SubtleColor).Render(AppURL),
	)
}

// BuildFooterContent renders the context help line
func BuildFooterContent(helpText string) string {
	return tone(SubtleColor).Render(helpText)
}

// Rows taken by RenderApplicationContainer above and below the content
const (
	containerTopRows    = 3 // outer border, header line, header rule
	containerBottomRows = 3 // footer rule, footer line, outer border
	containerLeftCols   = 1 // outer border
)

// RenderApplicationContainer is the wrapper for every screen: a full-screen
// bordered panel with the application header on top and the context help
// pinned to the bottom.
//
//	func (m AppModel) View() string {
//	    content := m.buildContent()
//	    return RenderApplicationContainer(title, content, m.Help.View(keys), m.Width, m.Height)
//	}
func RenderApplicationContainer(title, content, footerText string, terminalWidth, terminalHeight int) string {
	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4). // Leave room for outer border
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	// The content fills the rows between header and footer so the footer stays pinned
	contentHeight := max(terminalHeight-containerTopRows-containerBottomRows, 1)
	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4).
		Height(contentHeight).
		MaxHeight(contentHeight)

	innerContent := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent(title)),
		contentStyle.Render(content),
		footerStyle.Render(BuildFooterContent(footerText)),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Render(innerContent)

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		bordered,
	)
}

// RenderModal centres modal content over the whole screen; used for the
// full help overlay and the terminal size notice.
func RenderModal(modalContent string, terminalWidth, terminalHeight int) string {
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}

// SafeModalWidth returns requestedWidth, shrunk to fit the terminal with a
// margin, never below 40 columns
func SafeModalWidth(requestedWidth, terminalWidth int) int {
	return min(requestedWidth, max(terminalWidth-4, 40))
}
