// Package picker implements the searchable dropdown used for countries, ports,
// currencies and phone prefixes.
//
// A Select owns its transient state: open flag, typed and applied query,
// highlighted index and the placement Tracker for its panel. The selected value
// itself belongs to the form; Select reports a choice through Config.OnSelect and
// the owner writes it into the store.
//
// # Filtering
//
// Queries match case-insensitively anywhere in an option's label after any
// leading emoji flag is stripped. With an empty query the caller's priority keys
// (see PriorityFor) are listed first, in priority order, followed by every other
// option in source order. When nothing matches a non-empty query the Select
// reports StatusNoResults, which the view renders as a distinct "no results"
// panel with fuzzy suggestions.
//
// # Debounce
//
// Pickers configured with a Debounce apply typed queries lazily. Type records
// the keystroke and returns a Pending with a token and due time; the caller
// wakes up at the due time and calls Flush. Only the newest token applies, so
// rapid typing runs the filter once with the final text.
//
// # Global Listeners
//
// While open, a Select holds outside-click, resize and scroll listeners (plus
// click when TrackClicks is set) in a shared Listeners registry. Close releases
// them. An outside click closes the picker and clears its query; it never
// changes any other picker.
package picker
