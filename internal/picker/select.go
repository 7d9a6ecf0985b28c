package picker

import (
	"time"

	"github.com/muurk/freightform/internal/position"
)

// Status is what the panel currently shows
type Status int

const (
	// StatusClosed means the panel is not rendered
	StatusClosed Status = iota
	// StatusOpen means the panel lists at least one option
	StatusOpen
	// StatusNoResults means the panel is open, the query is non-empty and nothing matches
	StatusNoResults
)

// String returns a human-readable status
func (s Status) String() string {
	switch s {
	case StatusClosed:
		return "closed"
	case StatusOpen:
		return "open"
	case StatusNoResults:
		return "no-results"
	default:
		return "unknown"
	}
}

// Config describes one picker instance
type Config struct {
	ID       string        // Unique picker ID, also the trigger handle for measurement
	Kind     position.Kind // Picker family, selects the minimum panel width
	Options  []Option      // Full option set, pre-sorted by the provider
	Priority []string      // Keys shown first when the query is empty

	SearchBox       bool // Panel has a search input
	ItemHeight      int  // Row height for the panel estimate (0 = default)
	SearchBoxHeight int  // Search input height (0 = default)
	MinWidth        int  // Minimum panel width (0 = derived from Kind)
	Margin          int  // Viewport margin (0 = default)

	// Debounce delays query application after typing. Zero applies immediately.
	Debounce time.Duration

	// TrackClicks re-measures on every global click while open
	TrackClicks bool

	Measurer  position.Measurer
	Listeners *Listeners

	// OnSelect receives the chosen option; the owner writes it into the form
	OnSelect func(Option)
}

// Select is a filterable list picker with keyboard navigation.
// It is driven from a single event loop and is not safe for concurrent use.
type Select struct {
	cfg Config

	open        bool
	rawQuery    string
	query       string
	filtered    []Option
	highlighted int
	selectedKey string

	debounce     *Debouncer
	tracker      *position.Tracker
	measureTok   position.MeasureToken
	filterPasses int
}

// New creates a closed picker
func New(cfg Config) *Select {
	if cfg.ItemHeight == 0 {
		cfg.ItemHeight = position.DefaultItemHeight
	}
	if cfg.SearchBoxHeight == 0 {
		cfg.SearchBoxHeight = position.DefaultSearchBoxHeight
	}
	if cfg.MinWidth == 0 {
		cfg.MinWidth = position.MinWidthFor(cfg.Kind)
	}
	if cfg.Margin == 0 {
		cfg.Margin = position.DefaultMargin
	}

	s := &Select{
		cfg:         cfg,
		highlighted: -1,
	}
	if cfg.Debounce > 0 {
		s.debounce = NewDebouncer(cfg.Debounce)
	}
	s.tracker = position.NewTracker(cfg.ID, s.PanelSize(), cfg.Margin)
	s.tracker.TrackClicks = cfg.TrackClicks
	s.refilter()
	return s
}

// ID returns the picker ID
func (s *Select) ID() string {
	return s.cfg.ID
}

// IsOpen reports whether the panel is open
func (s *Select) IsOpen() bool {
	return s.open
}

// Open shows the panel, resets the highlight and registers global listeners
func (s *Select) Open() {
	if s.open {
		return
	}
	s.open = true
	s.refilter()
	s.resetHighlight()
	s.tracker.Panel = s.PanelSize()
	s.measureTok = s.tracker.Open(s.cfg.Measurer)

	if s.cfg.Listeners != nil {
		kinds := []EventKind{EventOutsideClick, EventResize, EventScroll}
		if s.cfg.TrackClicks {
			kinds = append(kinds, EventClick)
		}
		s.cfg.Listeners.Register(s.cfg.ID, kinds, s.handleEvent)
	}
}

// Close hides the panel, clears the transient query and releases listeners
func (s *Select) Close() {
	if s.cfg.Listeners != nil {
		s.cfg.Listeners.Release(s.cfg.ID)
	}
	if s.debounce != nil {
		s.debounce.Cancel()
	}
	s.tracker.Close()

	wasOpen := s.open
	s.open = false
	s.rawQuery = ""
	if s.query != "" || wasOpen {
		s.query = ""
		s.refilter()
	}
	s.highlighted = -1
}

// Toggle opens a closed panel and closes an open one
func (s *Select) Toggle() {
	if s.open {
		s.Close()
		return
	}
	s.Open()
}

func (s *Select) handleEvent(ev Event) {
	switch ev.Kind {
	case EventOutsideClick:
		if ev.Target != s.cfg.ID {
			s.Close()
		}
	case EventResize:
		s.tracker.Recompute(position.ReasonResize, s.cfg.Measurer)
	case EventScroll:
		s.tracker.Recompute(position.ReasonScroll, s.cfg.Measurer)
	case EventClick:
		s.tracker.Recompute(position.ReasonClick, s.cfg.Measurer)
	}
}

// Query returns the applied query
func (s *Select) Query() string {
	return s.query
}

// RawQuery returns the query as typed, which may be ahead of the applied query
func (s *Select) RawQuery() string {
	return s.rawQuery
}

// SetQuery applies a query immediately, bypassing any debounce
func (s *Select) SetQuery(q string) {
	s.rawQuery = q
	if s.debounce != nil {
		s.debounce.Cancel()
	}
	s.applyQuery(q)
}

// Type records a keystroke. Without a debounce the query applies at once and
// the returned Pending is zero. With a debounce the caller must call Flush with
// the returned token once Pending.Due has passed.
func (s *Select) Type(raw string) Pending {
	s.rawQuery = raw
	if s.debounce == nil {
		s.applyQuery(raw)
		return Pending{}
	}
	return s.debounce.Push(raw)
}

// Flush applies a debounced query. It returns false for stale tokens.
func (s *Select) Flush(token Token) bool {
	if s.debounce == nil {
		return false
	}
	value, ok := s.debounce.Fire(token)
	if !ok {
		return false
	}
	s.applyQuery(value)
	return true
}

// Debouncer exposes the debouncer, nil when the picker applies queries immediately
func (s *Select) Debouncer() *Debouncer {
	return s.debounce
}

// FilterPasses counts how many times the filter has run since creation
func (s *Select) FilterPasses() int {
	return s.filterPasses
}

func (s *Select) applyQuery(q string) {
	if q == s.query {
		return
	}
	before := len(s.filtered)
	s.query = q
	s.refilter()
	if len(s.filtered) != before {
		s.resetHighlight()
	}
	s.tracker.Panel = s.PanelSize()
}

// SetOptions replaces the option set (e.g., ports after the country changes)
func (s *Select) SetOptions(options []Option) {
	s.cfg.Options = options
	if s.selectedKey != "" && !s.hasKey(s.selectedKey) {
		s.selectedKey = ""
	}
	s.refilter()
	s.resetHighlight()
}

// SetPriority replaces the priority keys (e.g., after a language switch)
func (s *Select) SetPriority(keys []string) {
	s.cfg.Priority = keys
	s.refilter()
}

// Options returns the full, unfiltered option set
func (s *Select) Options() []Option {
	return s.cfg.Options
}

func (s *Select) hasKey(key string) bool {
	for _, o := range s.cfg.Options {
		if o.Key == key {
			return true
		}
	}
	return false
}

func (s *Select) refilter() {
	s.filtered = Filter(s.cfg.Options, s.query, s.cfg.Priority)
	s.filterPasses++
}

func (s *Select) resetHighlight() {
	if !s.open || len(s.filtered) == 0 {
		s.highlighted = -1
		return
	}
	s.highlighted = 0
}

// Filtered returns the options currently listed in the panel
func (s *Select) Filtered() []Option {
	return append([]Option(nil), s.filtered...)
}

// Highlighted returns the highlighted index, -1 when closed or empty
func (s *Select) Highlighted() int {
	return s.highlighted
}

// HighlightNext moves the highlight down, stopping at the last option
func (s *Select) HighlightNext() {
	if !s.open || len(s.filtered) == 0 {
		return
	}
	if s.highlighted < len(s.filtered)-1 {
		s.highlighted++
	}
}

// HighlightPrevious moves the highlight up, stopping at the first option
func (s *Select) HighlightPrevious() {
	if !s.open || len(s.filtered) == 0 {
		return
	}
	if s.highlighted > 0 {
		s.highlighted--
	}
}

// SelectHighlighted chooses the highlighted option
func (s *Select) SelectHighlighted() (Option, bool) {
	if !s.open || s.highlighted < 0 || s.highlighted >= len(s.filtered) {
		return Option{}, false
	}
	return s.choose(s.filtered[s.highlighted]), true
}

// SelectByKey chooses the option with key from the full option set
func (s *Select) SelectByKey(key string) (Option, bool) {
	for _, o := range s.cfg.Options {
		if o.Key == key {
			return s.choose(o), true
		}
	}
	return Option{}, false
}

func (s *Select) choose(o Option) Option {
	s.selectedKey = o.Key
	s.Close()
	if s.cfg.OnSelect != nil {
		s.cfg.OnSelect(o)
	}
	return o
}

// SetValue syncs the trigger with a value already held by the form, without
// firing OnSelect. An empty or unknown key clears the selection.
func (s *Select) SetValue(key string) {
	if key == "" || !s.hasKey(key) {
		s.selectedKey = ""
		return
	}
	s.selectedKey = key
}

// Selected returns the selected option
func (s *Select) Selected() (Option, bool) {
	if s.selectedKey == "" {
		return Option{}, false
	}
	for _, o := range s.cfg.Options {
		if o.Key == s.selectedKey {
			return o, true
		}
	}
	return Option{}, false
}

// TriggerText returns what the closed trigger shows: the selected option's
// icon and label, or the placeholder.
func (s *Select) TriggerText(placeholder string) string {
	if o, ok := s.Selected(); ok {
		return o.Display()
	}
	return placeholder
}

// Status reports what the panel shows
func (s *Select) Status() Status {
	if !s.open {
		return StatusClosed
	}
	if len(s.filtered) == 0 && s.query != "" {
		return StatusNoResults
	}
	return StatusOpen
}

// Suggestions returns fuzzy near-matches for the current query, for the no-results state
func (s *Select) Suggestions(n int) []Option {
	if s.Status() != StatusNoResults {
		return nil
	}
	return Suggest(s.cfg.Options, s.query, n)
}

// PanelSize returns the estimated panel size for placement
func (s *Select) PanelSize() position.Size {
	return position.Size{
		Width:  s.cfg.MinWidth,
		Height: position.EstimateListHeight(len(s.filtered), s.cfg.ItemHeight, s.cfg.SearchBox, s.cfg.SearchBoxHeight),
	}
}

// Placement returns the last placement decision
func (s *Select) Placement() position.Placement {
	return s.tracker.Placement()
}

// MeasureToken returns the token for the deferred measurement scheduled by Open
func (s *Select) MeasureToken() position.MeasureToken {
	return s.measureTok
}

// Measure runs the deferred measurement; stale tokens are ignored
func (s *Select) Measure(token position.MeasureToken) bool {
	_, ok := s.tracker.Measure(token, s.cfg.Measurer)
	return ok
}

// SetMeasurer replaces the geometry source (the wizard swaps it per render)
func (s *Select) SetMeasurer(m position.Measurer) {
	s.cfg.Measurer = m
}
