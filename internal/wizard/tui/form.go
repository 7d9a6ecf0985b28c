package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/muurk/freightform/internal/leadform"
	"github.com/muurk/freightform/internal/picker"
	"github.com/muurk/freightform/internal/position"
)

// Rows above the scrolling form body: step trail, progress bar, blank line
const formHeaderRows = 3

// formLine is one row of the form body
type formLine struct {
	text  string
	field leadform.FieldName // set on the row holding a field's trigger
	col   int                // trigger column within the row
}

// fit truncates s to width cells (with an ellipsis) and pads it to exactly width
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) > width {
		runes := []rune(s)
		for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
			runes = runes[:len(runes)-1]
		}
		s = string(runes) + "…"
	}
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// fieldLabel returns the translated label of field. Cargo line fields are
// prefixed with their line number when the form has several lines.
func (m *AppModel) fieldLabel(field leadform.FieldName, numbered bool) string {
	base := baseField(field)
	label := m.tr("field."+string(base), string(base))
	if i, _, ok := leadform.ParseLoadField(field); ok && numbered && m.store.LoadCount() > 1 {
		label = fmt.Sprintf("%s %d: %s", m.tr("status.load", "Cargo line"), i+1, label)
	}
	return label
}

// formBody lays out every revealed phase of the current step
func (m *AppModel) formBody() []formLine {
	data := m.store.Snapshot()
	focused := m.focusedField()

	var lines []formLine
	add := func(text string) { lines = append(lines, formLine{text: text}) }
	phase := func(p leadform.Phase) {
		add(PhaseTitleStyle.Render(m.tr("phase."+string(p), string(p))))
	}

	if m.store.Step() == leadform.StepFreight {
		for i, l := range data.Loads {
			add(SubtitleStyle.Render(fmt.Sprintf("%s %d", m.tr("status.load", "Cargo line"), i+1)))
			for _, p := range leadform.LoadPhases(l) {
				phase(p)
				for _, f := range leadform.LoadPhaseFields(i, p, l) {
					lines = append(lines, m.fieldLines(f, &data, focused)...)
				}
			}
			add("")
		}
		return lines
	}

	for _, p := range leadform.VisiblePhases(m.store.Step(), m.store.SubStep(), &data) {
		phase(p)
		for _, f := range leadform.PhaseFields(p, &data) {
			lines = append(lines, m.fieldLines(f, &data, focused)...)
		}
		add("")
	}
	return lines
}

// fieldLines renders a field row, plus the validation message when the
// focused field is invalid
func (m *AppModel) fieldLines(field leadform.FieldName, data *leadform.FormData, focused leadform.FieldName) []formLine {
	isFocused := field == focused

	prefix, labelStyle := "  ", LabelStyle
	switch {
	case isFocused:
		prefix, labelStyle = "› ", FocusedLabelStyle
	case lo.Contains(m.blocked, field) && m.store.Validity(field) != leadform.Valid:
		labelStyle = BlockedLabelStyle
	}

	label := labelStyle.Render(fit(m.fieldLabel(field, false), labelWidth))
	row := formLine{
		text:  prefix + label + m.renderTrigger(field, isFocused) + " " + m.renderMarker(field),
		field: field,
		col:   contentIndent + labelWidth,
	}
	lines := []formLine{row}

	if isFocused && m.store.Validity(field) == leadform.Invalid {
		var fe *leadform.FormError
		if err := m.store.Rules().Explain(field, m.store.Value(field), data); errors.As(err, &fe) {
			lines = append(lines, formLine{text: strings.Repeat(" ", row.col) + ExplainStyle.Render(fe.Message)})
		}
	}
	return lines
}

// renderTrigger renders the value column of a field, exactly triggerWidth cells wide
func (m *AppModel) renderTrigger(field leadform.FieldName, focused bool) string {
	switch kindOf(field) {
	case kindPicker:
		sel, ok := m.pickers[field]
		if !ok {
			return strings.Repeat(" ", triggerWidth)
		}
		arrow := "▾"
		if sel.IsOpen() {
			arrow = "▴"
		}
		_, selected := sel.Selected()
		text := fit(sel.TriggerText(m.tr("picker.placeholder", "Select...")), triggerWidth-4)

		style := TriggerStyle
		switch {
		case focused:
			style = FocusedTriggerStyle
		case !selected:
			style = PlaceholderStyle
		}
		return style.Render("[ " + text + arrow + "]")

	case kindStepper:
		in := m.inputs[field]
		style := TriggerStyle
		if focused {
			style = FocusedTriggerStyle
		}
		return fit(style.Render("[-]")+" "+fit(in.View(), 8)+" "+style.Render("[+]"), triggerWidth)

	default:
		in := m.inputs[field]
		view := "▏" + in.View()
		if lipgloss.Width(view) > triggerWidth {
			return lipgloss.NewStyle().MaxWidth(triggerWidth).Render(view)
		}
		return view + strings.Repeat(" ", triggerWidth-lipgloss.Width(view))
	}
}

// renderMarker renders the validity marker shown after a field
func (m *AppModel) renderMarker(field leadform.FieldName) string {
	switch m.store.Validity(field) {
	case leadform.Valid:
		return ValidMarkerStyle.Render("✓")
	case leadform.Invalid:
		return InvalidMarkerStyle.Render("✗")
	default:
		if leadform.IsOptional(baseField(field)) {
			return " "
		}
		return PendingMarkerStyle.Render("•")
	}
}

// stepTrail renders the numbered step names, the current one highlighted.
// The goods step carries its sub-step dots.
func (m *AppModel) stepTrail() string {
	current, reached := m.store.Step(), m.store.Reached()
	steps := append(leadform.InputSteps(), leadform.StepReview)

	parts := lo.Map(steps, func(step leadform.Step, i int) string {
		label := fmt.Sprintf("%d %s", i+1, m.tr("step."+step.String(), step.String()))
		switch {
		case step == current:
			if step == leadform.StepGoodsDetails {
				label += " " + subStepDots(m.store.SubStep())
			}
			return CurrentStepStyle.Render(label)
		case step <= reached:
			return ReachedStepStyle.Render(label)
		default:
			return FutureStepStyle.Render(label)
		}
	})
	return strings.Join(parts, FutureStepStyle.Render(" › "))
}

func subStepDots(subStep int) string {
	dots := lo.Map(leadform.SubStepProgress(subStep), func(mk leadform.SubStepMarker, _ int) string {
		switch {
		case mk.Active:
			return "◉"
		case mk.Completed:
			return "●"
		default:
			return "○"
		}
	})
	return strings.Join(dots, "")
}

// completion returns how far through the input steps the lead is, 0 to 1
func (m *AppModel) completion() float64 {
	total := float64(len(leadform.InputSteps()))
	done := float64(m.store.Step())
	if m.store.Step() == leadform.StepGoodsDetails {
		done += float64(m.store.SubStep()-1) / float64(leadform.GoodsSubSteps)
	}
	return min(1, done/total)
}

// noticeLine lists the fields that blocked the last Next and are still not valid
func (m *AppModel) noticeLine() string {
	pending := lo.Filter(m.blocked, func(f leadform.FieldName, _ int) bool {
		return m.store.Validity(f) != leadform.Valid
	})
	if len(pending) == 0 {
		return ""
	}
	labels := lo.Map(pending, func(f leadform.FieldName, _ int) string { return m.fieldLabel(f, true) })
	return NoticeStyle.Render(m.tr("status.missing", "Still missing") + ": " + strings.Join(labels, ", "))
}

// bodyHeight is how many form rows fit between the progress header and the notice line
func (m *AppModel) bodyHeight() int {
	return max(3, m.Height-containerTopRows-containerBottomRows-formHeaderRows-1)
}

// relayout recomputes scroll and the screen boxes of every visible trigger
// and of the open panel. It runs after every change that can move them; a
// scroll change is reported to the open picker so its placement follows.
func (m *AppModel) relayout() {
	m.measurer.SetViewport(m.Width, m.Height)
	m.measurer.Reset()

	step := m.store.Step()
	if step >= leadform.StepReview {
		m.scroll = 0
		return
	}

	body := m.formBody()
	window := m.bodyHeight()
	prev := m.scroll

	focused := m.focusedField()
	if row := lo.IndexOf(lo.Map(body, func(l formLine, _ int) leadform.FieldName { return l.field }), focused); row >= 0 && focused != "" {
		if row-1 < m.scroll {
			m.scroll = row - 1
		}
		if row+2 > m.scroll+window {
			m.scroll = row + 2 - window
		}
	}
	m.scroll = max(0, min(m.scroll, len(body)-window))

	top := containerTopRows + formHeaderRows
	end := min(len(body), m.scroll+window)
	open := m.openPicker()
	for i := m.scroll; i < end; i++ {
		l := body[i]
		if l.field == "" {
			continue
		}
		row := top + i - m.scroll
		m.measurer.Place(string(l.field), cellBox{row: row, col: containerLeftCols + l.col, width: triggerWidth, height: 1})

		if open != nil && open.ID() == string(l.field) {
			start, col, panel := m.panelFrame(open, i-m.scroll, l.col)
			m.measurer.PlacePanel(open.ID(), cellBox{
				row:    top + start,
				col:    containerLeftCols + col,
				width:  lipgloss.Width(panel[0]),
				height: len(panel),
			})
		}
	}

	if m.scroll != prev {
		m.listeners.Dispatch(picker.Event{Kind: picker.EventScroll})
	}
}

// renderPanel renders the open dropdown: search line, a window of options
// around the highlight, or the no-results state with suggestions
func (m *AppModel) renderPanel(sel *picker.Select) []string {
	width := max(panelColumns(sel.PanelSize().Width), triggerWidth)
	inner := width - 2

	var rows []string
	if pickerKind(leadform.FieldName(sel.ID())) != position.KindChoice {
		query := sel.RawQuery()
		if query == "" {
			query = PlaceholderStyle.Render(m.tr("picker.search", "Type to search"))
		}
		rows = append(rows, fit("🔍 "+query+"▏", inner))
	}

	if sel.Status() == picker.StatusNoResults {
		rows = append(rows, SubtitleStyle.Render(fit(m.tr("picker.noResults", "No results"), inner)))
		if sugg := sel.Suggestions(m.cfg.Suggestions); len(sugg) > 0 {
			names := lo.Map(sugg, func(o picker.Option, _ int) string { return picker.StripEmojiPrefix(o.Label) })
			rows = append(rows, fit(m.tr("picker.didYouMean", "Did you mean")+": "+strings.Join(names, ", "), inner))
		}
		return strings.Split(PanelStyle.Width(inner).Render(strings.Join(rows, "\n")), "\n")
	}

	filtered, hl := sel.Filtered(), sel.Highlighted()
	start := 0
	if hl >= panelItemRows {
		start = hl - panelItemRows + 1
	}
	end := min(len(filtered), start+panelItemRows)
	for i := start; i < end; i++ {
		o := filtered[i]
		tag := ""
		if o.Group != "" {
			tag = GroupTagStyle.Render(m.tr("picker."+o.Group, o.Group))
		}
		text := fit(o.Display(), inner-2-lipgloss.Width(tag)) + tag
		if i == hl {
			rows = append(rows, HighlightedOptionStyle.Render("› "+text))
		} else {
			rows = append(rows, "  "+text)
		}
	}
	if len(filtered) > end-start {
		rows = append(rows, SubtitleStyle.Render(fit(fmt.Sprintf("  %d/%d", hl+1, len(filtered)), inner)))
	}
	return strings.Split(PanelStyle.Width(inner).Render(strings.Join(rows, "\n")), "\n")
}

// panelFrame returns the rendered panel and where it goes, relative to the
// form body window: below the trigger row or above it, aligned with the
// trigger's left edge or shifted so its right edge meets the trigger's.
func (m *AppModel) panelFrame(sel *picker.Select, triggerRow, triggerCol int) (start, col int, panel []string) {
	panel = m.renderPanel(sel)
	p := sel.Placement()

	start = triggerRow + 1
	if p.ShowAbove {
		start = triggerRow - len(panel)
	}
	col = triggerCol
	if p.ShiftRight {
		col = max(0, triggerCol+triggerWidth-lipgloss.Width(panel[0]))
	}
	return start, col, panel
}

// overlay replaces rows of base with the panel lines from row start on,
// indented to col
func overlay(base []string, panel []string, start, col int) []string {
	rows := append([]string(nil), base...)
	for i, line := range panel {
		r := start + i
		if r < 0 {
			continue
		}
		for r >= len(rows) {
			rows = append(rows, "")
		}
		rows[r] = strings.Repeat(" ", col) + line
	}
	return rows
}

// formView renders an input step
func (m *AppModel) formView() string {
	body := m.formBody()
	window := m.bodyHeight()
	start := min(m.scroll, len(body))
	end := min(len(body), start+window)
	visible := body[start:end]

	rows := lo.Map(visible, func(l formLine, _ int) string { return l.text })
	if sel := m.openPicker(); sel != nil {
		for i, l := range visible {
			if string(l.field) == sel.ID() {
				at, col, panel := m.panelFrame(sel, i, l.col)
				rows = overlay(rows, panel, at, col)
				break
			}
		}
	}
	for len(rows) < window {
		rows = append(rows, "")
	}
	rows = rows[:window]

	var b strings.Builder
	b.WriteString(m.stepTrail())
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(m.completion()))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n")
	b.WriteString(m.noticeLine())
	return b.String()
}
