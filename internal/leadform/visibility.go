package leadform

import (
	"strings"

	"github.com/samber/lo"
)

// Phase is a section of a step revealed once its prerequisites are met.
// "phase." + the phase value is its translation key.
type Phase string

const (
	PhaseDestCountry  Phase = "destination.country"
	PhaseDestLocation Phase = "destination.location"
	PhaseDestAddress  Phase = "destination.address"

	PhaseOriginLocation Phase = "origin.location"
	PhaseOriginAddress  Phase = "origin.address"

	PhaseShippingType     Phase = "freight.type"
	PhaseLooseDetails     Phase = "freight.loose"
	PhaseContainerDetails Phase = "freight.container"

	PhaseGoodsValue  Phase = "goods.value"
	PhaseGoodsNature Phase = "goods.nature"
	PhaseGoodsExtra  Phase = "goods.extra"

	PhaseContactType       Phase = "contact.type"
	PhaseContactPersonal   Phase = "contact.personal"
	PhaseContactExperience Phase = "contact.experience"
	PhaseContactBusiness   Phase = "contact.business"
	PhaseContactInfo       Phase = "contact.info"
	PhaseContactNotes      Phase = "contact.notes"
)

// optionalFields never block a transition; they are still checked when filled
var optionalFields = map[FieldName]bool{
	FieldOriginCountry:       true,
	FieldGoodsDescription:    true,
	FieldSpecialRequirements: true,
	FieldPhoneCountryCode:    true,
	FieldRemarks:             true,
}

// IsOptional reports whether field may be left empty
func IsOptional(field FieldName) bool {
	if _, base, ok := ParseLoadField(field); ok {
		field = base
	}
	return optionalFields[field]
}

// InputSteps returns the steps that collect input
func InputSteps() []Step {
	return []Step{StepDestination, StepOrigin, StepFreight, StepGoodsDetails, StepContact}
}

// DestinationPhases: country, then location type, then port or address
func DestinationPhases(d *FormData) []Phase {
	phases := []Phase{PhaseDestCountry}
	if d.Country == "" {
		return phases
	}
	phases = append(phases, PhaseDestLocation)
	if d.DestLocationType == "" {
		return phases
	}
	return append(phases, PhaseDestAddress)
}

// OriginPhases: location type, then port or address
func OriginPhases(d *FormData) []Phase {
	phases := []Phase{PhaseOriginLocation}
	if d.LocationType == "" {
		return phases
	}
	return append(phases, PhaseOriginAddress)
}

// LoadPhases: shipping type, then the details of the chosen branch only
func LoadPhases(l LoadDetails) []Phase {
	phases := []Phase{PhaseShippingType}
	switch l.ShippingType {
	case ShippingLoose:
		phases = append(phases, PhaseLooseDetails)
	case ShippingContainer:
		phases = append(phases, PhaseContainerDetails)
	}
	return phases
}

// GoodsPhases returns the single phase shown on a goods sub-step (1..3)
func GoodsPhases(subStep int) []Phase {
	switch clampSubStep(subStep) {
	case 1:
		return []Phase{PhaseGoodsValue}
	case 2:
		return []Phase{PhaseGoodsNature}
	default:
		return []Phase{PhaseGoodsExtra}
	}
}

// ContactPhases reveals the contact step progressively:
// customer type, personal information once a type is chosen, shipping
// experience once both names are filled, business information for companies
// once the experience is chosen, contact information once everything before
// it is complete, and notes once email and phone are valid.
func ContactPhases(d *FormData) []Phase {
	phases := []Phase{PhaseContactType}
	if !lo.Contains(customerTypes, d.CustomerType) {
		return phases
	}

	phases = append(phases, PhaseContactPersonal)
	if strings.TrimSpace(d.FirstName) == "" || strings.TrimSpace(d.LastName) == "" {
		return phases
	}

	phases = append(phases, PhaseContactExperience)
	if !lo.Contains(shipperTypes, d.ShipperType) {
		return phases
	}

	if d.CustomerType == CustomerCompany {
		phases = append(phases, PhaseContactBusiness)
		if Validate(FieldCompanyName, d.CompanyName, d) != Valid {
			return phases
		}
	}

	phases = append(phases, PhaseContactInfo)
	if Validate(FieldEmail, d.Email, d) != Valid || Validate(FieldPhone, d.Phone, d) != Valid {
		return phases
	}

	return append(phases, PhaseContactNotes)
}

// ContactComplete reports whether the contact step has revealed its last
// phase, which is when the step is ready to submit
func ContactComplete(d *FormData) bool {
	return lo.Contains(ContactPhases(d), PhaseContactNotes)
}

// VisiblePhases returns the phases currently revealed on step. For the
// freight step it is the union over all cargo lines.
func VisiblePhases(step Step, subStep int, d *FormData) []Phase {
	switch step {
	case StepDestination:
		return DestinationPhases(d)
	case StepOrigin:
		return OriginPhases(d)
	case StepFreight:
		var phases []Phase
		for _, l := range d.Loads {
			phases = append(phases, LoadPhases(l)...)
		}
		return lo.Uniq(phases)
	case StepGoodsDetails:
		return GoodsPhases(subStep)
	case StepContact:
		return ContactPhases(d)
	default:
		return nil
	}
}

// PhaseFields returns the fields rendered in a phase, in display order.
// Cargo line phases are expanded through LoadPhaseFields instead.
func PhaseFields(p Phase, d *FormData) []FieldName {
	var fields []FieldName
	switch p {
	case PhaseDestCountry:
		fields = []FieldName{FieldCountry}
	case PhaseDestLocation:
		fields = []FieldName{FieldDestLocationType}
	case PhaseDestAddress:
		fields = []FieldName{FieldDestPort, FieldDestCity, FieldDestZipCode}
	case PhaseOriginLocation:
		fields = []FieldName{FieldOriginCountry, FieldLocationType}
	case PhaseOriginAddress:
		fields = []FieldName{FieldOrigin, FieldCity, FieldZipCode}
	case PhaseGoodsValue:
		fields = []FieldName{FieldGoodsValue, FieldGoodsCurrency}
	case PhaseGoodsNature:
		fields = []FieldName{FieldIsPersonalOrHazardous, FieldAreGoodsReady}
	case PhaseGoodsExtra:
		fields = []FieldName{FieldGoodsDescription, FieldSpecialRequirements}
	case PhaseContactType:
		fields = []FieldName{FieldCustomerType}
	case PhaseContactPersonal:
		fields = []FieldName{FieldFirstName, FieldLastName}
	case PhaseContactExperience:
		fields = []FieldName{FieldShipperType}
	case PhaseContactBusiness:
		fields = []FieldName{FieldCompanyName}
	case PhaseContactInfo:
		fields = []FieldName{FieldEmail, FieldPhoneCountryCode, FieldPhone}
	case PhaseContactNotes:
		fields = []FieldName{FieldRemarks}
	}
	return lo.Filter(fields, func(f FieldName, _ int) bool { return Relevant(f, d) })
}

var (
	looseFieldOrder = []FieldName{
		FieldCalculationType, FieldPackageType, FieldPalletType, FieldNumberOfUnits,
		FieldLength, FieldWidth, FieldHeight, FieldDimensionUnit,
		FieldWeightPerUnit, FieldWeightUnit,
		FieldTotalVolume, FieldVolumeUnit, FieldTotalWeight, FieldTotalWeightUnit,
	}
	containerFieldOrder = []FieldName{FieldContainerType, FieldNumberOfUnits, FieldIsOverweight}
)

// LoadPhaseFields returns the fields of cargo line i rendered in phase p
func LoadPhaseFields(i int, p Phase, l LoadDetails) []FieldName {
	var names []FieldName
	switch p {
	case PhaseShippingType:
		names = []FieldName{FieldShippingType}
	case PhaseLooseDetails:
		names = looseFieldOrder
	case PhaseContainerDetails:
		names = containerFieldOrder
	}
	relevant := lo.Filter(names, func(n FieldName, _ int) bool { return loadFieldRelevant(n, l) })
	return lo.Map(relevant, func(n FieldName, _ int) FieldName { return LoadField(i, n) })
}

// VisibleFields returns every field rendered on step right now, in order
func VisibleFields(step Step, subStep int, d *FormData) []FieldName {
	var fields []FieldName
	if step == StepFreight {
		for i, l := range d.Loads {
			for _, p := range LoadPhases(l) {
				fields = append(fields, LoadPhaseFields(i, p, l)...)
			}
		}
		return fields
	}
	for _, p := range VisiblePhases(step, subStep, d) {
		fields = append(fields, PhaseFields(p, d)...)
	}
	return fields
}

// Relevant reports whether field takes part in the form as currently
// configured. An irrelevant field never gates progression, whatever its
// stored validity.
func Relevant(field FieldName, d *FormData) bool {
	if i, name, ok := ParseLoadField(field); ok {
		if i < 0 || i >= len(d.Loads) {
			return false
		}
		return loadFieldRelevant(name, d.Loads[i])
	}

	switch field {
	case FieldDestPort:
		return d.DestLocationType == LocationPort
	case FieldDestCity, FieldDestZipCode:
		return d.DestLocationType != "" && d.DestLocationType != LocationPort
	case FieldOrigin:
		return d.LocationType == LocationPort
	case FieldCity, FieldZipCode:
		return d.LocationType != "" && d.LocationType != LocationPort
	case FieldCompanyName:
		return d.CustomerType == CustomerCompany
	}
	_, known := d.Get(field)
	return known
}

func loadFieldRelevant(name FieldName, l LoadDetails) bool {
	loose := l.ShippingType == ShippingLoose
	unit := loose && l.Loose.CalculationType == CalculationUnit
	total := loose && l.Loose.CalculationType == CalculationTotal

	switch name {
	case FieldShippingType:
		return true
	case FieldContainerType, FieldIsOverweight:
		return l.ShippingType == ShippingContainer
	case FieldNumberOfUnits:
		return l.ShippingType == ShippingContainer || unit
	case FieldCalculationType:
		return loose
	case FieldPackageType, FieldLength, FieldWidth, FieldHeight,
		FieldDimensionUnit, FieldWeightPerUnit, FieldWeightUnit:
		return unit
	case FieldPalletType:
		return unit && l.Loose.PackageType == PackagePallets
	case FieldTotalVolume, FieldVolumeUnit, FieldTotalWeight, FieldTotalWeightUnit:
		return total
	}
	return false
}

// StepFields returns every relevant field of a step, required or optional,
// regardless of how far its phases have been revealed
func StepFields(step Step, d *FormData) []FieldName {
	var fields []FieldName
	switch step {
	case StepDestination:
		fields = []FieldName{FieldCountry, FieldDestLocationType, FieldDestPort, FieldDestCity, FieldDestZipCode}
	case StepOrigin:
		fields = []FieldName{FieldOriginCountry, FieldLocationType, FieldOrigin, FieldCity, FieldZipCode}
	case StepFreight:
		for i := range d.Loads {
			for _, name := range loadFieldNames {
				fields = append(fields, LoadField(i, name))
			}
		}
	case StepGoodsDetails:
		for sub := 1; sub <= GoodsSubSteps; sub++ {
			fields = append(fields, goodsSubStepFields(sub)...)
		}
	case StepContact:
		fields = []FieldName{
			FieldCustomerType, FieldFirstName, FieldLastName, FieldShipperType,
			FieldCompanyName, FieldEmail, FieldPhoneCountryCode, FieldPhone, FieldRemarks,
		}
	}
	return lo.Filter(fields, func(f FieldName, _ int) bool { return Relevant(f, d) })
}

func goodsSubStepFields(subStep int) []FieldName {
	return PhaseFields(GoodsPhases(subStep)[0], &FormData{})
}

// RequiredFields returns the fields that must be valid to leave the given
// step (and goods sub-step) in the current configuration
func RequiredFields(step Step, subStep int, d *FormData) []FieldName {
	var fields []FieldName
	if step == StepGoodsDetails {
		fields = goodsSubStepFields(clampSubStep(subStep))
	} else {
		fields = StepFields(step, d)
	}
	return lo.Reject(fields, func(f FieldName, _ int) bool { return IsOptional(f) })
}

// StepRequiredFields returns the required fields of a step across all of its sub-steps
func StepRequiredFields(step Step, d *FormData) []FieldName {
	return lo.Reject(StepFields(step, d), func(f FieldName, _ int) bool { return IsOptional(f) })
}

// SubStepMarker is one dot of the goods details progress indicator
type SubStepMarker struct {
	Index     int
	Completed bool
	Active    bool
}

// SubStepProgress returns the progress markers for the goods sub-steps
func SubStepProgress(subStep int) []SubStepMarker {
	markers := make([]SubStepMarker, GoodsSubSteps)
	for k := 1; k <= GoodsSubSteps; k++ {
		markers[k-1] = SubStepMarker{
			Index:     k,
			Completed: subStep > k,
			Active:    subStep == k,
		}
	}
	return markers
}

func clampSubStep(subStep int) int {
	if subStep < 1 {
		return 1
	}
	if subStep > GoodsSubSteps {
		return GoodsSubSteps
	}
	return subStep
}
