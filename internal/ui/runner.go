package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig holds configuration for a multi-step CLI command
type RunnerConfig struct {
	Title     string    // Command title (e.g., "Lead submission")
	Command   string    // Full command (e.g., "freightform submit")
	Params    []Param   // Parameters to display in the header
	StepNames []string  // Names for each step
	Output    io.Writer // Output writer (default: os.Stdout)
	Width     int       // Rendering width (default: terminal width)

	// Troubleshoot returns tips for a failure, nil for none
	Troubleshoot func(err error) []string
}

// Runner orchestrates the output of a multi-step command.
// It manages the header → steps → result flow and provides
// the callback operations report progress through.
type Runner struct {
	config    RunnerConfig
	header    *Header
	progress  *Progress
	output    io.Writer
	startTime time.Time
	width     int

	// now is the clock, replaceable in tests
	now func() time.Time
}

// NewRunner creates a new runner for a command
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	width := config.Width
	if width == 0 {
		width = GetTerminalWidth()
	}

	header := NewHeader(config.Title, config.Command, config.Params...)
	header.SetWidth(width)

	progress := NewProgress(config.StepNames...)
	progress.SetWidth(width)

	return &Runner{
		config:   config,
		header:   header,
		progress: progress,
		output:   config.Output,
		width:    width,
		now:      time.Now,
	}
}

// Operation is the work a runner reports on. It returns the details shown in
// the success box.
type Operation func(ctx context.Context, onStep StepCallback) ([]Param, error)

// Run prints the header, executes the operation while printing each step as
// it settles, then prints the result box.
func (r *Runner) Run(ctx context.Context, operation Operation) ([]Param, error) {
	r.startTime = r.now()

	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	details, err := operation(ctx, r.stepCallback())
	duration := r.now().Sub(r.startTime)

	_, _ = fmt.Fprintln(r.output)
	if err != nil {
		var tips []string
		if r.config.Troubleshoot != nil {
			tips = r.config.Troubleshoot(err)
		}
		result := NewFailureResult(r.config.Title+" failed", err, tips...)
		result.SetWidth(r.width)
		_, _ = fmt.Fprintln(r.output, result.Render())
		return nil, err
	}

	details = append(details, Param{Key: "Duration", Value: duration.Round(time.Millisecond).String()})
	result := NewSuccessResult(r.config.Title+" complete", details...)
	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())

	return details, nil
}

// Progress returns the step tracker
func (r *Runner) Progress() *Progress {
	return r.progress
}

// stepCallback creates the step callback function
func (r *Runner) stepCallback() StepCallback {
	return func(stepNumber int, status StepStatus, message string) {
		r.progress.UpdateStep(stepNumber, status, message)
		if stepNumber < 1 || stepNumber > len(r.progress.Steps) {
			return
		}

		step := r.progress.Steps[stepNumber-1]
		switch status {
		case StepComplete, StepFailed, StepSkipped:
			_, _ = fmt.Fprintln(r.output, r.progress.renderStepLine(step))
		case StepRunning:
			// Overwritten when the step settles
			_, _ = fmt.Fprint(r.output, r.progress.renderStepLine(step)+"\r")
		}
	}
}
