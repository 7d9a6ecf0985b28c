// Package position decides where an overlay panel renders relative to its trigger.
//
// The package has two layers:
//
//   - DecidePlacement: a pure function over explicit geometry (trigger rectangle,
//     viewport size, estimated panel size, margin). Identical inputs always
//     produce the identical Placement.
//   - Tracker: a thin adapter that remembers the last decision for one panel and
//     re-runs DecidePlacement when the panel opens, the viewport is resized or
//     scrolled, or (for click-tracking panels) after any global click.
//
// # Placement Rules
//
// Vertical: the panel flips above its trigger only when the space below is smaller
// than the panel height and the space above is strictly larger than the space below.
// Ties stay below.
//
// Horizontal: ShiftRight is set when there is less than the minimum panel width to the
// right of the trigger's left edge; otherwise ShiftLeft is set when there is less than
// the minimum panel width to the left of the trigger's right edge.
//
// # Measurement Failures
//
// When the trigger is not mounted or the viewport reports a zero size, the Tracker
// keeps its last known placement instead of failing. Callers never see an error.
//
// # Deferred Measurement
//
// Opening a panel returns a MeasureToken. The presentation layer re-measures after
// MeasureDelay by handing the token back; closing the panel invalidates the token so
// a late measurement is discarded.
package position
