package position

import "time"

const (
	// MaxPanelHeight caps the estimated height of list panels
	MaxPanelHeight = 300

	// DefaultMargin is the gap kept between a panel and the viewport edge
	DefaultMargin = 8

	// DefaultItemHeight is the row height used by list panels
	DefaultItemHeight = 40

	// DefaultSearchBoxHeight is the height of the search input inside a panel
	DefaultSearchBoxHeight = 52

	// MeasureDelay is how long to wait after opening before re-measuring,
	// giving the panel's layout time to settle.
	MeasureDelay = 10 * time.Millisecond
)

// Kind identifies a family of pickers that share a minimum panel width
type Kind string

const (
	KindCountry   Kind = "country"
	KindPort      Kind = "port"
	KindCurrency  Kind = "currency"
	KindPhoneCode Kind = "phone-code"
	KindChoice    Kind = "choice"
)

// MinWidthFor returns the minimum panel width for a picker kind.
// Unknown kinds use the widest value so they never clip.
func MinWidthFor(kind Kind) int {
	switch kind {
	case KindCurrency:
		return 250
	case KindPhoneCode, KindChoice:
		return 200
	default:
		return 300
	}
}

// Rect is an axis-aligned rectangle in viewport coordinates
type Rect struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

// Width returns the horizontal extent of the rectangle
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the vertical extent of the rectangle
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// Empty reports whether the rectangle has no area (an unmounted element)
func (r Rect) Empty() bool {
	return r.Width() <= 0 && r.Height() <= 0
}

// Size is a width/height pair
type Size struct {
	Width  int
	Height int
}

// Zero reports whether either dimension is unusable
func (s Size) Zero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Placement is the adjustment chosen for an overlay panel
type Placement struct {
	ShowAbove  bool
	ShiftLeft  bool
	ShiftRight bool
}

// DecidePlacement chooses where a panel renders relative to its trigger.
// panel.Width is the minimum width the panel needs; panel.Height its estimated height.
func DecidePlacement(trigger Rect, viewport Size, panel Size, margin int) Placement {
	var p Placement

	spaceBelow := viewport.Height - trigger.Bottom - margin
	spaceAbove := trigger.Top - margin
	if spaceBelow < panel.Height && spaceAbove > spaceBelow {
		p.ShowAbove = true
	}

	spaceRight := viewport.Width - trigger.Left
	spaceLeft := trigger.Right
	if spaceRight < panel.Width {
		p.ShiftRight = true
	} else if spaceLeft < panel.Width {
		p.ShiftLeft = true
	}

	return p
}

// EstimateListHeight estimates the height of a list panel:
// itemCount rows plus an optional search box, capped at MaxPanelHeight.
func EstimateListHeight(itemCount, itemHeight int, hasSearch bool, searchBoxHeight int) int {
	if itemCount < 0 {
		itemCount = 0
	}
	h := itemCount * itemHeight
	if hasSearch {
		h += searchBoxHeight
	}
	return min(MaxPanelHeight, h)
}
