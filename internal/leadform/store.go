package leadform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/muurk/freightform/internal/logging"
	"github.com/muurk/freightform/internal/refdata"
)

// Picker is the part of a dropdown the store coordinates: at most one
// picker is open at a time.
type Picker interface {
	ID() string
	IsOpen() bool
	Open()
	Close()
}

// Options configures a new Store
type Options struct {
	// OriginCountry is the fixed pickup country (ISO code)
	OriginCountry string
	// Language is the BCP-47 tag of the session
	Language string
	// Directory enables existence checks of country, port and currency codes
	Directory refdata.Provider
}

// dependents lists the fields whose validity must be recomputed when the
// key changes, besides the key itself
var dependents = map[FieldName][]FieldName{
	FieldCountry:          {FieldDestPort, FieldPhoneCountryCode},
	FieldDestLocationType: {FieldDestPort, FieldDestCity, FieldDestZipCode},
	FieldOriginCountry:    {FieldOrigin},
	FieldLocationType:     {FieldOrigin, FieldCity, FieldZipCode},
	FieldCustomerType:     {FieldCompanyName},
}

// loadDependents is dependents for the fields of one cargo line
var loadDependents = map[FieldName][]FieldName{
	FieldShippingType:    loadFieldNames,
	FieldCalculationType: looseFieldOrder,
	FieldPackageType:     {FieldPalletType},
	FieldPalletType:      {FieldLength, FieldWidth, FieldDimensionUnit},
}

// codeFields are stored upper-cased and trimmed
var codeFields = map[FieldName]bool{
	FieldCountry:          true,
	FieldDestPort:         true,
	FieldOriginCountry:    true,
	FieldOrigin:           true,
	FieldGoodsCurrency:    true,
	FieldPhoneCountryCode: true,
}

// palletFootprints are the length and width (cm) filled in when a standard
// pallet type is chosen
var palletFootprints = map[string][2]string{
	PalletEuro:     {"120", "80"},
	PalletStandard: {"120", "100"},
}

// Store owns the form session: the lead being entered, the validity of every
// field, the current step and the registry of pickers.
//
// Every mutation recomputes the affected validity before it returns, so
// readers never observe a value without its matching validity. Store is
// driven from a single event loop and is not safe for concurrent use.
type Store struct {
	data     FormData
	validity map[FieldName]Validity
	rules    Rules
	origin   string
	language string

	step    Step
	subStep int
	reached Step

	pickers  map[string]Picker
	revision int
}

// NewStore creates a store holding an empty lead
func NewStore(opts Options) *Store {
	s := &Store{
		rules:    Rules{Directory: opts.Directory},
		origin:   strings.ToUpper(strings.TrimSpace(opts.OriginCountry)),
		language: opts.Language,
		pickers:  make(map[string]Picker),
	}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.data = NewFormData(s.origin)
	s.step = StepDestination
	s.subStep = 1
	s.reached = StepDestination
	s.recomputeAll()
}

// Reset discards the lead and returns to the first step
func (s *Store) Reset() {
	s.ClosePickers()
	s.reset()
	s.revision++
	logging.LogTransition("reset", StepDestination.String(), 1)
}

// Replace loads a complete lead (e.g., from a file) and recomputes all validity.
// The step position is left unchanged.
func (s *Store) Replace(data FormData) {
	s.data = data.Clone()
	if len(s.data.Loads) == 0 {
		s.data.Loads = []LoadDetails{NewLoad()}
	}
	if s.data.OriginCountry == "" {
		s.data.OriginCountry = s.origin
	}
	s.recomputeAll()
	s.revision++
}

// Snapshot returns a copy of the lead
func (s *Store) Snapshot() FormData {
	return s.data.Clone()
}

// Value returns the stored value of field
func (s *Store) Value(field FieldName) string {
	return s.data.Value(field)
}

// Validity returns the last computed validity of field
func (s *Store) Validity(field FieldName) Validity {
	if v, ok := s.validity[field]; ok {
		return v
	}
	return s.rules.Validate(field, s.data.Value(field), &s.data)
}

// ValidityMap returns a copy of the validity of every field
func (s *Store) ValidityMap() map[FieldName]Validity {
	m := make(map[FieldName]Validity, len(s.validity))
	for k, v := range s.validity {
		m[k] = v
	}
	return m
}

// Rules returns the validation rules in use
func (s *Store) Rules() Rules {
	return s.rules
}

// Language returns the session language tag
func (s *Store) Language() string {
	return s.language
}

// SetLanguage switches the session language
func (s *Store) SetLanguage(lang string) {
	s.language = lang
	s.revision++
}

// Step returns the current step
func (s *Store) Step() Step {
	return s.step
}

// SubStep returns the current goods details sub-step (1 on other steps)
func (s *Store) SubStep() int {
	return s.subStep
}

// Reached returns the furthest step visited
func (s *Store) Reached() Step {
	return s.reached
}

// Revision increases on every mutation; views use it to skip redundant work
func (s *Store) Revision() int {
	return s.revision
}

func (s *Store) moveTo(step Step, subStep int) {
	s.step = step
	s.subStep = subStep
	if step > s.reached {
		s.reached = step
	}
	s.revision++
}

// Set writes value into field and applies its side effects:
//   - changing the destination country clears the destination port and
//     defaults the phone dialing code
//   - changing a location type clears the port, city and postal code it governs
//   - changing the origin country clears the origin port
//   - choosing a euro or standard pallet fills in its footprint
//
// Cargo line fields are addressed with LoadField.
func (s *Store) Set(field FieldName, value string) error {
	prev, ok := s.data.Get(field)
	if !ok {
		return NewUnknownFieldError(field)
	}

	base := field
	index, name, isLoad := ParseLoadField(field)
	if isLoad {
		base = name
	}
	if codeFields[base] {
		value = strings.ToUpper(strings.TrimSpace(value))
	}

	s.data.set(field, value)
	touched := []FieldName{field}

	if value != prev {
		if isLoad {
			touched = append(touched, s.loadSideEffects(index, name, value)...)
		} else {
			touched = append(touched, s.sideEffects(field, value)...)
		}
	}

	for _, f := range touched {
		s.recompute(f)
	}
	s.revision++

	logging.LogFieldChange(string(field), s.validity[field].String())
	return nil
}

func (s *Store) sideEffects(field FieldName, value string) []FieldName {
	var cleared []FieldName
	clearFields := func(fields ...FieldName) {
		for _, f := range fields {
			if s.data.Value(f) != "" {
				s.data.set(f, "")
				cleared = append(cleared, f)
			}
		}
	}

	switch field {
	case FieldCountry:
		clearFields(FieldDestPort)
		if s.data.PhoneCountryCode == "" && value != "" {
			s.data.PhoneCountryCode = value
		}
	case FieldDestLocationType:
		clearFields(FieldDestPort, FieldDestCity, FieldDestZipCode)
	case FieldOriginCountry:
		clearFields(FieldOrigin)
	case FieldLocationType:
		clearFields(FieldOrigin, FieldCity, FieldZipCode)
	}

	if len(cleared) > 0 {
		logging.LogFieldsCleared(string(field), fieldStrings(cleared))
	}
	return dependents[field]
}

func (s *Store) loadSideEffects(i int, name FieldName, value string) []FieldName {
	if name == FieldPalletType {
		if footprint, ok := palletFootprints[value]; ok {
			load := &s.data.Loads[i]
			load.Loose.Length = footprint[0]
			load.Loose.Width = footprint[1]
			load.Loose.DimensionUnit = "cm"
		}
	}

	var touched []FieldName
	for _, dep := range loadDependents[name] {
		touched = append(touched, LoadField(i, dep))
	}
	return touched
}

// SetLoadField writes a field of cargo line i
func (s *Store) SetLoadField(i int, name FieldName, value string) error {
	return s.Set(LoadField(i, name), value)
}

// SetShippingType switches cargo line i between loose, container and unsure.
// The details of every branch are kept, so switching back restores them.
func (s *Store) SetShippingType(i int, shippingType string) error {
	return s.SetLoadField(i, FieldShippingType, shippingType)
}

// LoadCount returns the number of cargo lines
func (s *Store) LoadCount() int {
	return len(s.data.Loads)
}

// AddLoad appends a cargo line with default values and returns its index
func (s *Store) AddLoad() int {
	s.data.Loads = append(s.data.Loads, NewLoad())
	i := len(s.data.Loads) - 1
	for _, name := range loadFieldNames {
		s.recompute(LoadField(i, name))
	}
	s.revision++
	logging.Debug("Cargo line added")
	return i
}

// RemoveLoad deletes cargo line i. The last remaining line cannot be removed.
func (s *Store) RemoveLoad(i int) error {
	if i < 0 || i >= len(s.data.Loads) {
		return NewUnknownFieldError(LoadField(i, FieldShippingType))
	}
	if len(s.data.Loads) == 1 {
		return NewValidationError("loads", "at least one cargo line is required")
	}

	s.data.Loads = append(s.data.Loads[:i], s.data.Loads[i+1:]...)

	// Indices shift, so every cargo line validity is rebuilt
	for f := range s.validity {
		if _, _, ok := ParseLoadField(f); ok {
			delete(s.validity, f)
		}
	}
	for j := range s.data.Loads {
		for _, name := range loadFieldNames {
			s.recompute(LoadField(j, name))
		}
	}
	s.revision++
	logging.Debug("Cargo line removed")
	return nil
}

// IncrementUnits adds one unit to cargo line i. Unparseable or
// non-positive counts restart from 1.
func (s *Store) IncrementUnits(i int) error {
	field := LoadField(i, FieldNumberOfUnits)
	raw, ok := s.data.Get(field)
	if !ok {
		return NewUnknownFieldError(field)
	}
	n, ok := ParseUnits(raw)
	if !ok {
		n = defaultUnits - 1
	}
	return s.Set(field, strconv.Itoa(n+1))
}

// DecrementUnits removes one unit from cargo line i. The result is never
// below 1, whatever the starting value.
func (s *Store) DecrementUnits(i int) error {
	field := LoadField(i, FieldNumberOfUnits)
	raw, ok := s.data.Get(field)
	if !ok {
		return NewUnknownFieldError(field)
	}
	n, ok := ParseUnits(raw)
	if !ok {
		n = defaultUnits
	}
	n--
	if n < defaultUnits {
		n = defaultUnits
	}
	return s.Set(field, strconv.Itoa(n))
}

func (s *Store) recompute(field FieldName) {
	s.validity[field] = s.rules.Validate(field, s.data.Value(field), &s.data)
}

func (s *Store) recomputeAll() {
	s.validity = make(map[FieldName]Validity)
	for _, f := range s.data.AllFields() {
		s.recompute(f)
	}
}

// Missing returns the fields among fields whose validity is not Valid
func (s *Store) Missing(fields []FieldName) []FieldName {
	var missing []FieldName
	for _, f := range fields {
		if s.Validity(f) != Valid {
			missing = append(missing, f)
		}
	}
	return missing
}

// RegisterPicker adds a picker to the registry, replacing any with the same ID
func (s *Store) RegisterPicker(p Picker) {
	s.pickers[p.ID()] = p
}

// UnregisterPicker closes and forgets a picker (its step is going away)
func (s *Store) UnregisterPicker(id string) {
	if p, ok := s.pickers[id]; ok {
		p.Close()
		delete(s.pickers, id)
	}
}

// OpenPicker opens the picker with id and closes any other open picker
func (s *Store) OpenPicker(id string) error {
	p, ok := s.pickers[id]
	if !ok {
		return fmt.Errorf("picker %q is not registered", id)
	}
	for _, other := range s.pickerIDs() {
		if other != id && s.pickers[other].IsOpen() {
			s.pickers[other].Close()
		}
	}
	p.Open()
	return nil
}

// ClosePickers closes every open picker
func (s *Store) ClosePickers() {
	for _, id := range s.pickerIDs() {
		if s.pickers[id].IsOpen() {
			s.pickers[id].Close()
		}
	}
}

// OpenPickerID returns the ID of the open picker, or "" when none is open
func (s *Store) OpenPickerID() string {
	for _, id := range s.pickerIDs() {
		if s.pickers[id].IsOpen() {
			return id
		}
	}
	return ""
}

func (s *Store) pickerIDs() []string {
	ids := make([]string, 0, len(s.pickers))
	for id := range s.pickers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func fieldStrings(fields []FieldName) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
