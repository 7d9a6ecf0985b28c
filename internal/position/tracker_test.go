package position

import "testing"

// fakeMeasurer is a scripted Measurer
type fakeMeasurer struct {
	rects    map[string]Rect
	viewport Size
}

func (f *fakeMeasurer) BoundingRect(handle string) (Rect, bool) {
	r, ok := f.rects[handle]
	return r, ok
}

func (f *fakeMeasurer) Viewport() (Size, bool) {
	return f.viewport, true
}

func newFakeMeasurer(trigger Rect) *fakeMeasurer {
	return &fakeMeasurer{
		rects:    map[string]Rect{"country": trigger},
		viewport: Size{Width: 1280, Height: 800},
	}
}

func TestTrackerOpenComputesPlacement(t *testing.T) {
	m := newFakeMeasurer(Rect{Top: 700, Left: 100, Bottom: 740, Right: 400})
	tr := NewTracker("country", Size{Width: 300, Height: 300}, DefaultMargin)

	tr.Open(m)

	if !tr.IsOpen() {
		t.Fatal("IsOpen() = false after Open")
	}
	if !tr.Placement().ShowAbove {
		t.Errorf("Placement().ShowAbove = false, want true near bottom edge")
	}
}

func TestTrackerKeepsLastPlacementOnMeasurementFailure(t *testing.T) {
	m := newFakeMeasurer(Rect{Top: 700, Left: 100, Bottom: 740, Right: 400})
	tr := NewTracker("country", Size{Width: 300, Height: 300}, DefaultMargin)
	tr.Open(m)
	want := tr.Placement()

	// Trigger unmounted
	delete(m.rects, "country")
	if got := tr.Recompute(ReasonResize, m); got != want {
		t.Errorf("Recompute with unmounted trigger = %+v, want last %+v", got, want)
	}

	// Zero-sized viewport
	m.rects["country"] = Rect{Top: 10, Left: 100, Bottom: 50, Right: 400}
	m.viewport = Size{}
	if got := tr.Recompute(ReasonScroll, m); got != want {
		t.Errorf("Recompute with zero viewport = %+v, want last %+v", got, want)
	}

	// Nil measurer
	if got := tr.Recompute(ReasonResize, nil); got != want {
		t.Errorf("Recompute with nil measurer = %+v, want last %+v", got, want)
	}
}

func TestTrackerStaleMeasureTokenIgnored(t *testing.T) {
	m := newFakeMeasurer(Rect{Top: 10, Left: 100, Bottom: 50, Right: 400})
	tr := NewTracker("country", Size{Width: 300, Height: 300}, DefaultMargin)

	first := tr.Open(m)
	tr.Close()
	second := tr.Open(m)

	if _, ok := tr.Measure(first, m); ok {
		t.Error("Measure(first) applied a stale token")
	}

	m.rects["country"] = Rect{Top: 700, Left: 100, Bottom: 740, Right: 400}
	got, ok := tr.Measure(second, m)
	if !ok {
		t.Fatal("Measure(second) rejected the live token")
	}
	if !got.ShowAbove {
		t.Error("Measure(second) did not pick up the moved trigger")
	}

	tr.Close()
	if _, ok := tr.Measure(second, m); ok {
		t.Error("Measure after Close applied a cancelled token")
	}
}

func TestTrackerClickRecompute(t *testing.T) {
	m := newFakeMeasurer(Rect{Top: 10, Left: 100, Bottom: 50, Right: 400})

	plain := NewTracker("country", Size{Width: 300, Height: 300}, DefaultMargin)
	plain.Open(m)
	clicky := NewTracker("country", Size{Width: 300, Height: 300}, DefaultMargin)
	clicky.TrackClicks = true
	clicky.Open(m)

	// Layout shift moves the trigger to the bottom
	m.rects["country"] = Rect{Top: 700, Left: 100, Bottom: 740, Right: 400}

	if plain.Recompute(ReasonClick, m).ShowAbove {
		t.Error("non-tracking panel recomputed on global click")
	}
	if !clicky.Recompute(ReasonClick, m).ShowAbove {
		t.Error("click-tracking panel did not recompute on global click")
	}
}

func TestTrackerClosedIgnoresEvents(t *testing.T) {
	m := newFakeMeasurer(Rect{Top: 10, Left: 100, Bottom: 50, Right: 400})
	tr := NewTracker("country", Size{Width: 300, Height: 300}, DefaultMargin)

	m.rects["country"] = Rect{Top: 700, Left: 100, Bottom: 740, Right: 400}
	if tr.Recompute(ReasonResize, m).ShowAbove {
		t.Error("closed tracker recomputed on resize")
	}
}
