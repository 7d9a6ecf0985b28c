// Package tui implements the terminal wizard that collects a freight quote request.
//
// The wizard is a single Bubble Tea model over a leadform.Store: every input
// step renders its revealed phases as rows of label, value and validity
// marker, the review step summarises the lead, and the confirmation step shows
// the reference of the delivered request.
//
// # Layout
//
// Every screen is wrapped by RenderApplicationContainer: header with the
// application name and the step title, a fixed-height content area, and the
// context help pinned to the bottom. Input steps show the step trail (with
// the goods sub-step dots) and a progress bar above a scrolling form body.
//
// # Dropdowns
//
// Choice fields and reference data fields (countries, ports, currencies,
// dialing codes) use picker.Select. The open panel is drawn over the form
// rows below or above its trigger. Its placement comes from the position
// package, fed by a screenMeasurer that maps terminal cells onto placement
// units:
//
//	one column = 8 units, one row = position.DefaultItemHeight units
//
// Trigger boxes are recorded on every layout pass, so resizing the terminal
// or scrolling the form re-evaluates the placement of the open panel. Search
// keystrokes are debounced with tea.Tick; a stale tick is ignored by the
// picker.
//
// # Usage Example
//
//	store := leadform.NewStore(leadform.Options{OriginCountry: "CN", Language: "en"})
//	app := tui.NewAppModel(tui.Config{
//	    Sequencer: leadform.NewSequencer(store),
//	    Reference: catalog,
//	    Locales:   bundle,
//	})
//	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
//
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Key Bindings
//
//   - Input steps: ↑/↓ or tab move between fields, enter opens a dropdown,
//     typing searches it, ctrl+n next step, ctrl+p previous step,
//     +/- change the number of units, ctrl+a/ctrl+x add or remove a cargo line,
//     ctrl+l switch language
//   - Review: ↑/↓ choose a section, enter edits it or sends, ctrl+s sends,
//     esc cancels a running submission
//   - Confirmation: enter starts a new request, q quits
//
// # Thread Safety
//
// All store mutations happen inside Update. Submission builds the payload on
// the event loop and only the transport call runs in a command goroutine.
package tui
