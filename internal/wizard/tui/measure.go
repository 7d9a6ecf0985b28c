package tui

import (
	"github.com/muurk/freightform/internal/position"
)

// Terminal cells are mapped onto the geometry units of the placement rules:
// one row is one list item tall and one column is cellWidth units wide, so
// the panel estimates of the picker package translate directly into rows.
const (
	cellWidth  = 8
	cellHeight = position.DefaultItemHeight
)

// panelItemRows is how many options an open panel lists at once. It matches
// the panel height cap of the placement estimate.
const panelItemRows = (position.MaxPanelHeight-position.DefaultSearchBoxHeight)/position.DefaultItemHeight - 1

// cellBox is a rectangle in screen cells
type cellBox struct {
	row, col, width, height int
}

func (b cellBox) contains(x, y int) bool {
	return x >= b.col && x < b.col+b.width && y >= b.row && y < b.row+b.height
}

// screenMeasurer answers geometry queries from the last layout pass: trigger
// boxes are recorded as the form is laid out, the viewport is the terminal.
type screenMeasurer struct {
	width, height int
	triggers      map[string]cellBox

	panelID  string
	panelBox cellBox
}

func newScreenMeasurer() *screenMeasurer {
	return &screenMeasurer{triggers: make(map[string]cellBox)}
}

// SetViewport records the terminal size in cells
func (s *screenMeasurer) SetViewport(width, height int) {
	s.width, s.height = width, height
}

// Reset forgets every trigger; unmounted triggers are reported as missing
func (s *screenMeasurer) Reset() {
	s.triggers = make(map[string]cellBox)
	s.panelID = ""
}

// Place records where the trigger for handle was laid out
func (s *screenMeasurer) Place(handle string, box cellBox) {
	s.triggers[handle] = box
}

// PlacePanel records the area covered by the open panel
func (s *screenMeasurer) PlacePanel(handle string, box cellBox) {
	s.panelID, s.panelBox = handle, box
}

// BoundingRect implements position.Measurer
func (s *screenMeasurer) BoundingRect(handle string) (position.Rect, bool) {
	b, ok := s.triggers[handle]
	if !ok {
		return position.Rect{}, false
	}
	return position.Rect{
		Top:    b.row * cellHeight,
		Bottom: (b.row + b.height) * cellHeight,
		Left:   b.col * cellWidth,
		Right:  (b.col + b.width) * cellWidth,
	}, true
}

// Viewport implements position.Measurer
func (s *screenMeasurer) Viewport() (position.Size, bool) {
	if s.width <= 0 || s.height <= 0 {
		return position.Size{}, false
	}
	return position.Size{Width: s.width * cellWidth, Height: s.height * cellHeight}, true
}

// HandleAt returns the picker whose trigger or open panel covers the cell, "" for none
func (s *screenMeasurer) HandleAt(x, y int) string {
	if s.panelID != "" && s.panelBox.contains(x, y) {
		return s.panelID
	}
	for handle, b := range s.triggers {
		if b.contains(x, y) {
			return handle
		}
	}
	return ""
}

// panelColumns converts a minimum panel width in geometry units to cells
func panelColumns(minWidth int) int {
	return (minWidth + cellWidth - 1) / cellWidth
}
