package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// ResultType is the outcome a result box reports
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// resultLook is how one outcome is drawn
type resultLook struct {
	label  string
	marker string
	title  lipgloss.Style
	box    func(width int) lipgloss.Style
}

var resultLooks = map[ResultType]resultLook{
	ResultSuccess: {"SUCCESS", SuccessMarker, SuccessTitleStyle, SuccessBoxStyle},
	ResultFailure: {"FAILED", FailureMarker, ErrorTitleStyle, ErrorBoxStyle},
	ResultWarning: {"WARNING", WarningMarker, WarningTitleStyle, WarningBoxStyle},
}

// Result is the box closing a command: a delivered lead, a rejected file,
// or a warning such as a dry run
type Result struct {
	Type            ResultType
	Title           string // e.g., "Lead delivered"
	Details         []Param
	Error           error    // failures only
	Troubleshooting []string // failures only
	Width           int
}

func newResult(t ResultType, title string, details []Param) *Result {
	return &Result{Type: t, Title: title, Details: details, Width: GetTerminalWidth()}
}

// NewSuccessResult creates a success box
func NewSuccessResult(title string, details ...Param) *Result {
	return newResult(ResultSuccess, title, details)
}

// NewFailureResult creates a failure box with optional troubleshooting tips
func NewFailureResult(title string, err error, troubleshooting ...string) *Result {
	r := newResult(ResultFailure, title, nil)
	r.Error = err
	r.Troubleshooting = lo.Compact(troubleshooting)
	return r
}

// NewWarningResult creates a warning box
func NewWarningResult(title string, details ...Param) *Result {
	return newResult(ResultWarning, title, details)
}

// SetWidth sets the rendering width
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends a detail line
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Param{Key: key, Value: value})
	return r
}

// Render draws the box
func (r *Result) Render() string {
	width := clampWidth(r.Width)
	look, ok := resultLooks[r.Type]
	if !ok {
		look = resultLooks[ResultSuccess]
	}

	lines := []string{"", look.title.Render(fmt.Sprintf(" %s  %s  ─  %s", look.marker, look.label, r.Title)), ""}
	if r.Type == ResultFailure && r.Error != nil {
		lines = append(lines, ErrorMessageStyle.Render(" Error: "+r.Error.Error()), "")
	}
	lines = append(lines, r.renderDetails()...)
	if r.Type == ResultFailure && len(r.Troubleshooting) > 0 {
		lines = append(lines, r.renderTroubleshootingBox(width), "")
	}
	return look.box(width).Render(strings.Join(lines, "\n"))
}

func (r *Result) renderDetails() []string {
	if len(r.Details) == 0 {
		return nil
	}
	lines := lo.Map(r.Details, func(d Param, _ int) string {
		return ResultKeyStyle.Render(" "+d.Key+":") + " " + ResultValueStyle.Render(d.Value)
	})
	return append(lines, "")
}

func (r *Result) renderTroubleshootingBox(width int) string {
	lines := []string{TroubleshootingTitleStyle.Render("Troubleshooting:"), ""}
	for _, tip := range r.Troubleshooting {
		lines = append(lines, TroubleshootingItemStyle.Render("  • "+tip))
	}
	return TroubleshootingBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}
