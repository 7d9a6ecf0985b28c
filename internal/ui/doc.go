// Package ui renders the styled output of the freightform CLI commands.
//
// This package uses Lipgloss (and the Bubbles progress bar) to print polished
// reports. Unlike the interactive wizard, these components follow a "run once
// and exit" pattern: they render output and return, with no event loop.
//
// # Components
//
//   - Header: Command banner showing the operation and its parameters
//   - Progress: Step list with markers, optionally with a progress bar
//   - Result: Success, failure and warning boxes
//   - Summary, option table and issue list renderers for leads and reference data
//
// # Usage Pattern
//
// Multi-step commands (submit) use a Runner:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:     "Lead submission",
//	    Command:   "freightform submit",
//	    Params:    []ui.Param{{Key: "File", Value: path}},
//	    StepNames: []string{"Validate lead", "Build payload", "Deliver"},
//	})
//
//	_, err := runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) ([]ui.Param, error) {
//	    onStep(1, ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, ui.StepComplete, "")
//	    return nil, nil
//	})
//
// Single-shot commands (validate, countries, ports) print through a Printer.
//
// # Logging Integration
//
// Logging is controlled via FREIGHTFORM_LOG_LEVEL or --log-level. When unset,
// zap logging is silent so the curated output is displayed cleanly.
package ui
