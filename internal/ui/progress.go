package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// StepStatus is the state of one step of a command
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepFailed
	StepSkipped // e.g., delivery without a webhook
)

// settled reports whether the step no longer changes
func (s StepStatus) settled() bool {
	return s == StepComplete || s == StepFailed || s == StepSkipped
}

// done reports whether the step counts towards completion
func (s StepStatus) done() bool {
	return s == StepComplete || s == StepSkipped
}

// stepLook pairs a status with its marker and style
type stepLook struct {
	marker string
	style  lipgloss.Style
}

var stepLooks = map[StepStatus]stepLook{
	StepPending:  {StepMarkerPending, StepPendingStyle},
	StepRunning:  {StepMarkerRunning, StepRunningStyle},
	StepComplete: {StepMarkerComplete, StepCompleteStyle},
	StepFailed:   {FailureMarker, ErrorTitleStyle},
	StepSkipped:  {StepMarkerSkipped, StepPendingStyle},
}

// Step is one line of a command's progress
type Step struct {
	Number  int // 1-based
	Name    string
	Status  StepStatus
	Message string // e.g., "42 values", "no webhook configured"
}

// Progress tracks the steps of a command, e.g. checking then delivering a lead
type Progress struct {
	Steps   []Step
	Current int     // step running last, 1-based
	Total   int
	Percent float64 // settled share, 0.0 - 1.0
	Width   int
	ShowBar bool
	bar     progress.Model
}

// NewProgress creates a tracker with every named step pending
func NewProgress(names ...string) *Progress {
	p := &Progress{
		Steps: lo.Map(names, func(name string, i int) Step {
			return Step{Number: i + 1, Name: name, Status: StepPending}
		}),
		Total: len(names),
	}
	p.SetWidth(GetTerminalWidth())
	return p
}

// SetWidth resizes the bar for a report of width cells
func (p *Progress) SetWidth(width int) *Progress {
	p.Width = width
	p.bar = progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(min(max(width-20, 20), 50)),
	)
	return p
}

// UpdateStep records the status of step stepNumber. Unknown steps are ignored.
func (p *Progress) UpdateStep(stepNumber int, status StepStatus, message string) {
	if stepNumber < 1 || stepNumber > len(p.Steps) {
		return
	}
	step := &p.Steps[stepNumber-1]
	step.Status = status
	step.Message = message

	if status == StepRunning {
		p.Current = stepNumber
	}
	if status.settled() && p.Total > 0 {
		done := lo.CountBy(p.Steps, func(s Step) bool { return s.Status.done() })
		p.Percent = float64(done) / float64(p.Total)
	}
}

// Render draws the optional bar followed by one line per step
func (p *Progress) Render() string {
	lines := lo.Map(p.Steps, func(s Step, _ int) string { return p.renderStepLine(s) })
	if p.ShowBar {
		lines = append([]string{p.renderProgressBar(), ""}, lines...)
	}
	return strings.Join(lines, "\n")
}

func (p *Progress) renderProgressBar() string {
	return lipgloss.NewStyle().
		PaddingLeft(2).
		Render(fmt.Sprintf("%s  %3.0f%%  [%d/%d]", p.bar.ViewAs(p.Percent), p.Percent*100, p.Current, p.Total))
}

// renderStepLine draws "  [1/2] Deliver request ....... ✓  (note)"
func (p *Progress) renderStepLine(step Step) string {
	look, ok := stepLooks[step.Status]
	if !ok {
		look = stepLooks[StepPending]
	}

	// Markers line up in one column
	const nameColumn = 36
	line := fmt.Sprintf("  [%d/%d] ", step.Number, p.Total) +
		look.style.Render(step.Name) +
		strings.Repeat(" ", max(1, nameColumn-lipgloss.Width(step.Name))) +
		look.style.Render(look.marker)
	if step.Message != "" {
		line += "  " + StepNoteStyle.Render("("+step.Message+")")
	}
	return line
}

// String implements fmt.Stringer
func (p *Progress) String() string {
	return p.Render()
}

// StepCallback reports the progress of an operation, steps are 1-based
type StepCallback func(stepNumber int, status StepStatus, message string)
