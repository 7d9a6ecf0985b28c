package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/muurk/freightform/internal/leadform"
	"github.com/muurk/freightform/internal/logging"
	"github.com/muurk/freightform/internal/picker"
	"github.com/muurk/freightform/internal/position"
	"github.com/muurk/freightform/internal/refdata"
)

// fieldKind selects the editor a field is rendered with
type fieldKind int

const (
	kindText    fieldKind = iota // free text input
	kindPicker                   // searchable or plain dropdown
	kindStepper                  // numeric input with +/- buttons
)

func baseField(field leadform.FieldName) leadform.FieldName {
	if _, name, ok := leadform.ParseLoadField(field); ok {
		return name
	}
	return field
}

// pickerKind returns the dropdown family of field, "" for fields without one
func pickerKind(field leadform.FieldName) position.Kind {
	switch base := baseField(field); base {
	case leadform.FieldCountry, leadform.FieldOriginCountry:
		return position.KindCountry
	case leadform.FieldDestPort, leadform.FieldOrigin:
		return position.KindPort
	case leadform.FieldGoodsCurrency:
		return position.KindCurrency
	case leadform.FieldPhoneCountryCode:
		return position.KindPhoneCode
	default:
		if leadform.Choices(base) != nil {
			return position.KindChoice
		}
		return ""
	}
}

func kindOf(field leadform.FieldName) fieldKind {
	if pickerKind(field) != "" {
		return kindPicker
	}
	if baseField(field) == leadform.FieldNumberOfUnits {
		return kindStepper
	}
	return kindText
}

// portCountry returns the field holding the country a port field lists ports of
func portCountry(field leadform.FieldName) leadform.FieldName {
	if field == leadform.FieldOrigin {
		return leadform.FieldOriginCountry
	}
	return leadform.FieldCountry
}

// optionsFor builds the option list of a picker field
func (m *AppModel) optionsFor(field leadform.FieldName) []picker.Option {
	ref := m.cfg.Reference
	switch pickerKind(field) {
	case position.KindCountry:
		return refdata.CountryOptions(ref.Countries())
	case position.KindPhoneCode:
		return refdata.PhonePrefixOptions(ref.Countries())
	case position.KindCurrency:
		return refdata.CurrencyOptions(ref.Currencies())
	case position.KindPort:
		return refdata.PortOptions(ref.Ports(m.store.Value(portCountry(field))))
	default:
		return lo.Map(leadform.Choices(baseField(field)), func(c string, _ int) picker.Option {
			return picker.Option{Key: c, Label: m.choiceLabel(c)}
		})
	}
}

// choiceLabel translates an enumerated value
func (m *AppModel) choiceLabel(value string) string {
	switch value {
	case "true":
		return m.tr("option.yes", "Yes")
	case "false":
		return m.tr("option.no", "No")
	default:
		return m.tr("option."+value, value)
	}
}

// priorityFor returns the keys listed first in a picker with an empty query
func (m *AppModel) priorityFor(kind position.Kind) []string {
	if kind != position.KindCountry && kind != position.KindPhoneCode {
		return nil
	}
	if len(m.cfg.PriorityCodes) > 0 {
		return m.cfg.PriorityCodes
	}
	return picker.PriorityFor(m.store.Language())
}

// ensurePicker returns the picker of field, creating and registering it on first use
func (m *AppModel) ensurePicker(field leadform.FieldName) *picker.Select {
	if sel, ok := m.pickers[field]; ok {
		return sel
	}

	kind := pickerKind(field)
	search := kind != position.KindChoice
	store := m.store
	cfg := picker.Config{
		ID:          string(field),
		Kind:        kind,
		Options:     m.optionsFor(field),
		Priority:    m.priorityFor(kind),
		SearchBox:   search,
		TrackClicks: kind == position.KindPort,
		Measurer:    m.measurer,
		Listeners:   m.listeners,
		OnSelect: func(o picker.Option) {
			if err := store.Set(field, o.Key); err != nil {
				logging.Warn("failed to store picker choice", zap.String("field", string(field)), zap.Error(err))
			}
		},
	}
	if search {
		cfg.Debounce = m.cfg.Debounce
	}

	sel := picker.New(cfg)
	sel.SetValue(store.Value(field))
	store.RegisterPicker(sel)
	m.pickers[field] = sel
	if kind == position.KindPort {
		m.portSources[field] = store.Value(portCountry(field))
	}
	return sel
}

// dropPicker closes and forgets the picker of field
func (m *AppModel) dropPicker(field leadform.FieldName) {
	sel, ok := m.pickers[field]
	if !ok {
		return
	}
	sel.Close()
	m.store.UnregisterPicker(sel.ID())
	delete(m.pickers, field)
	delete(m.portSources, field)
}

// dropAllPickers forgets every picker (after a language switch relabels options)
func (m *AppModel) dropAllPickers() {
	for field := range m.pickers {
		m.dropPicker(field)
	}
}

// ensureInput returns the text input of field, creating it on first use
func (m *AppModel) ensureInput(field leadform.FieldName) textinput.Model {
	if in, ok := m.inputs[field]; ok {
		return in
	}
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 500
	in.Width = triggerWidth - 2
	if kindOf(field) == kindStepper {
		in.Width = 6
		in.CharLimit = 6
	}
	in.SetValue(m.store.Value(field))
	return in
}

// openPicker returns the open picker, nil when none is open
func (m *AppModel) openPicker() *picker.Select {
	id := m.store.OpenPickerID()
	if id == "" {
		return nil
	}
	return m.pickers[leadform.FieldName(id)]
}

// syncFields aligns every editor with the store after a mutation: visible
// fields get an editor holding the stored value, hidden ones are released,
// and port pickers follow their country.
func (m *AppModel) syncFields() {
	fields := m.visibleFields()
	live := lo.SliceToMap(fields, func(f leadform.FieldName) (leadform.FieldName, bool) { return f, true })

	for field := range m.pickers {
		if !live[field] {
			m.dropPicker(field)
		}
	}
	for field := range m.inputs {
		if !live[field] {
			delete(m.inputs, field)
		}
	}

	if m.focus >= len(fields) {
		m.focus = len(fields) - 1
	}
	if m.focus < 0 {
		m.focus = 0
	}
	focused := m.focusedField()

	for _, field := range fields {
		switch kindOf(field) {
		case kindPicker:
			sel := m.ensurePicker(field)
			if pickerKind(field) == position.KindPort {
				country := m.store.Value(portCountry(field))
				if m.portSources[field] != country {
					sel.SetOptions(m.optionsFor(field))
					m.portSources[field] = country
				}
			}
			sel.SetValue(m.store.Value(field))
		default:
			in := m.ensureInput(field)
			if field == focused {
				in.Focus()
			} else {
				in.Blur()
			}
			if !in.Focused() && in.Value() != m.store.Value(field) {
				in.SetValue(m.store.Value(field))
			}
			m.inputs[field] = in
		}
	}
}

// visibleFields returns the fields of the current step, in focus order
func (m *AppModel) visibleFields() []leadform.FieldName {
	data := m.store.Snapshot()
	return leadform.VisibleFields(m.store.Step(), m.store.SubStep(), &data)
}

// focusedField returns the field holding keyboard focus, "" when the step has none
func (m *AppModel) focusedField() leadform.FieldName {
	fields := m.visibleFields()
	if m.focus < 0 || m.focus >= len(fields) {
		return ""
	}
	return fields[m.focus]
}
