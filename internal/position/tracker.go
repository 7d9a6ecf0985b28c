package position

// Reason says why a placement is being recomputed
type Reason int

const (
	ReasonOpen Reason = iota
	ReasonResize
	ReasonScroll
	ReasonClick
	ReasonMeasure
)

// String returns a short name for the reason, used in logs
func (r Reason) String() string {
	switch r {
	case ReasonOpen:
		return "open"
	case ReasonResize:
		return "resize"
	case ReasonScroll:
		return "scroll"
	case ReasonClick:
		return "click"
	case ReasonMeasure:
		return "measure"
	default:
		return "unknown"
	}
}

// Measurer reads live geometry from the windowing system
type Measurer interface {
	// BoundingRect returns the rectangle of the element identified by handle.
	// ok is false when the element is not mounted.
	BoundingRect(handle string) (rect Rect, ok bool)

	// Viewport returns the current viewport dimensions.
	Viewport() (size Size, ok bool)
}

// MeasureToken identifies one pending deferred measurement
type MeasureToken uint64

// Tracker keeps the placement of a single panel up to date.
// It is owned by one picker and is not safe for concurrent use.
type Tracker struct {
	// Handle identifies the trigger element for the Measurer
	Handle string

	// Panel is the estimated panel size (width is the minimum panel width)
	Panel Size

	// Margin is the gap kept from the viewport edge
	Margin int

	// TrackClicks makes every global click trigger a recompute, catching
	// layout shifts caused by other parts of the UI.
	TrackClicks bool

	last  Placement
	open  bool
	token MeasureToken
}

// NewTracker creates a tracker for the trigger identified by handle
func NewTracker(handle string, panel Size, margin int) *Tracker {
	return &Tracker{
		Handle: handle,
		Panel:  panel,
		Margin: margin,
	}
}

// Placement returns the last decision
func (t *Tracker) Placement() Placement {
	return t.last
}

// IsOpen reports whether the panel is currently open
func (t *Tracker) IsOpen() bool {
	return t.open
}

// Open marks the panel open, computes an initial placement and returns the
// token for the deferred re-measurement.
func (t *Tracker) Open(m Measurer) MeasureToken {
	t.open = true
	t.token++
	t.apply(m)
	return t.token
}

// Close marks the panel closed and invalidates any pending measurement
func (t *Tracker) Close() {
	t.open = false
	t.token++
}

// Measure performs a deferred measurement. It returns false, leaving the
// placement untouched, when the token is stale or the panel has closed.
func (t *Tracker) Measure(token MeasureToken, m Measurer) (Placement, bool) {
	if !t.open || token != t.token {
		return t.last, false
	}
	t.apply(m)
	return t.last, true
}

// Recompute re-runs the placement for an event. Closed panels and, unless
// TrackClicks is set, global clicks leave the placement untouched.
func (t *Tracker) Recompute(reason Reason, m Measurer) Placement {
	if !t.open {
		return t.last
	}
	if reason == ReasonClick && !t.TrackClicks {
		return t.last
	}
	t.apply(m)
	return t.last
}

// apply measures and decides, keeping the last placement on any measurement failure
func (t *Tracker) apply(m Measurer) {
	if m == nil {
		return
	}
	trigger, ok := m.BoundingRect(t.Handle)
	if !ok || trigger.Empty() {
		return
	}
	viewport, ok := m.Viewport()
	if !ok || viewport.Zero() {
		return
	}
	t.last = DecidePlacement(trigger, viewport, t.Panel, t.Margin)
}
