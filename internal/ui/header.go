package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// Param is one labelled value shown in a header or result box.
// Params keep the order they are given in.
type Param struct {
	Key   string
	Value string
}

// Header opens a command's report: the title, the command line and the
// parameters the command runs with. Params with an empty value are left out.
type Header struct {
	Title   string // upper-cased when rendered, e.g. "LEAD SUBMISSION"
	Command string // e.g., "freightform submit"
	Params  []Param
	Width   int
}

// NewHeader creates a header sized to the terminal
func NewHeader(title, command string, params ...Param) *Header {
	return &Header{Title: title, Command: command, Params: params, Width: GetTerminalWidth()}
}

// SetWidth sets the rendering width
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render draws the framed header
func (h *Header) Render() string {
	width := clampWidth(h.Width)
	top := lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(h.Title)),
		HeaderCommandStyle.Render(h.Command),
	)

	params := lo.Filter(h.Params, func(p Param, _ int) bool { return p.Value != "" })
	if len(params) == 0 {
		return HeaderBorderStyle(width).Render(top)
	}

	// Values line up after the longest key
	keyWidth := lo.Max(lo.Map(params, func(p Param, _ int) int { return lipgloss.Width(p.Key) }))
	lines := lo.Map(params, func(p Param, _ int) string {
		key := HeaderParamKeyStyle.Render(p.Key + ":" + strings.Repeat(" ", keyWidth-lipgloss.Width(p.Key)))
		return key + " " + HeaderParamValueStyle.Render(p.Value)
	})

	divider := RenderHorizontalDivider(max(width-6, 10), "─")
	return HeaderBorderStyle(width).Render(lipgloss.JoinVertical(lipgloss.Left, top, divider, strings.Join(lines, "\n")))
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
