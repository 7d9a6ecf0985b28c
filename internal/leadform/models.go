package leadform

import (
	"fmt"
	"regexp"
	"strconv"
)

// Step is one top-level page of the wizard
type Step int

const (
	StepDestination Step = iota
	StepOrigin
	StepFreight
	StepGoodsDetails
	StepContact
	StepReview
	StepConfirmation
)

// StepCount is the number of top-level steps
const StepCount = 7

// GoodsSubSteps is the number of sub-steps inside StepGoodsDetails
const GoodsSubSteps = 3

// String returns the step identifier, also used as its translation key suffix
func (s Step) String() string {
	switch s {
	case StepDestination:
		return "destination"
	case StepOrigin:
		return "origin"
	case StepFreight:
		return "freight"
	case StepGoodsDetails:
		return "goods"
	case StepContact:
		return "contact"
	case StepReview:
		return "review"
	case StepConfirmation:
		return "confirmation"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Steps returns every step in order
func Steps() []Step {
	return []Step{StepDestination, StepOrigin, StepFreight, StepGoodsDetails, StepContact, StepReview, StepConfirmation}
}

// Validity is a field's tri-state validation result
type Validity int

const (
	// Untouched means the field is empty or has not been judged yet
	Untouched Validity = iota
	Valid
	Invalid
)

// String returns a human-readable validity
func (v Validity) String() string {
	switch v {
	case Untouched:
		return "untouched"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("Validity(%d)", int(v))
	}
}

// FieldName identifies a form field. Fields of a cargo line are addressed as
// "loads[i].<name>" (see LoadField).
type FieldName string

// Destination group
const (
	FieldCountry          FieldName = "country"
	FieldDestLocationType FieldName = "destLocationType"
	FieldDestCity         FieldName = "destCity"
	FieldDestZipCode      FieldName = "destZipCode"
	FieldDestPort         FieldName = "destPort"
)

// Origin group
const (
	FieldOriginCountry FieldName = "originCountry"
	FieldLocationType  FieldName = "locationType"
	FieldCity          FieldName = "city"
	FieldZipCode       FieldName = "zipCode"
	FieldOrigin        FieldName = "origin"
)

// Cargo line fields, combined with an index through LoadField
const (
	FieldShippingType    FieldName = "shippingType"
	FieldCalculationType FieldName = "calculationType"
	FieldPackageType     FieldName = "packageType"
	FieldPalletType      FieldName = "palletType"
	FieldNumberOfUnits   FieldName = "numberOfUnits"
	FieldLength          FieldName = "length"
	FieldWidth           FieldName = "width"
	FieldHeight          FieldName = "height"
	FieldDimensionUnit   FieldName = "dimensionUnit"
	FieldWeightPerUnit   FieldName = "weightPerUnit"
	FieldWeightUnit      FieldName = "weightUnit"
	FieldTotalVolume     FieldName = "totalVolume"
	FieldVolumeUnit      FieldName = "volumeUnit"
	FieldTotalWeight     FieldName = "totalWeight"
	FieldTotalWeightUnit FieldName = "totalWeightUnit"
	FieldContainerType   FieldName = "containerType"
	FieldIsOverweight    FieldName = "isOverweight"
)

// Goods group
const (
	FieldGoodsValue            FieldName = "goodsValue"
	FieldGoodsCurrency         FieldName = "goodsCurrency"
	FieldIsPersonalOrHazardous FieldName = "isPersonalOrHazardous"
	FieldAreGoodsReady         FieldName = "areGoodsReady"
	FieldGoodsDescription      FieldName = "goodsDescription"
	FieldSpecialRequirements   FieldName = "specialRequirements"
)

// Contact group
const (
	FieldCustomerType     FieldName = "customerType"
	FieldFirstName        FieldName = "firstName"
	FieldLastName         FieldName = "lastName"
	FieldShipperType      FieldName = "shipperType"
	FieldEmail            FieldName = "email"
	FieldPhone            FieldName = "phone"
	FieldPhoneCountryCode FieldName = "phoneCountryCode"
	FieldCompanyName      FieldName = "companyName"
	FieldRemarks          FieldName = "remarks"
)

// Location types for pickup and delivery
const (
	LocationFactory     = "factory"
	LocationPort        = "port"
	LocationBusiness    = "business"
	LocationResidential = "residential"
)

// Shipping types of a cargo line
const (
	ShippingLoose     = "loose"
	ShippingContainer = "container"
	ShippingUnsure    = "unsure"
)

// Loose cargo calculation modes
const (
	CalculationUnit  = "unit"
	CalculationTotal = "total"
)

// Package and pallet types
const (
	PackagePallets = "pallets"
	PackageBoxes   = "boxes"
	PalletEuro     = "euro"
	PalletStandard = "standard"
	PalletCustom   = "custom"
)

// defaultUnits is the unit count of a fresh cargo line and the floor of decrement
const defaultUnits = 1

// Container sizes
const (
	Container20   = "20'"
	Container40   = "40'"
	Container40HC = "40'HC"
	Container45HC = "45'HC"
)

// Customer types
const (
	CustomerIndividual = "individual"
	CustomerCompany    = "company"
)

var (
	locationTypes    = []string{LocationFactory, LocationPort, LocationBusiness, LocationResidential}
	shippingTypes    = []string{ShippingLoose, ShippingContainer, ShippingUnsure}
	calculationTypes = []string{CalculationUnit, CalculationTotal}
	packageTypes     = []string{PackagePallets, PackageBoxes}
	palletTypes      = []string{PalletEuro, PalletStandard, PalletCustom}
	dimensionUnits   = []string{"cm", "in"}
	weightUnits      = []string{"kg", "lb"}
	volumeUnits      = []string{"cbm", "cft"}
	containerTypes   = []string{Container20, Container40, Container40HC, Container45HC}
	readinessCodes   = []string{"ready-now", "within-2-weeks", "within-month", "not-yet-known"}
	requirementCodes = []string{"none", "fragile", "temperature", "oversized", "insurance"}
	customerTypes    = []string{CustomerIndividual, CustomerCompany}
	shipperTypes     = []string{"first-time", "occasional", "regular"}
	booleanValues    = []string{"true", "false"}
)

// enumFields lists the allowed values of every enumerated field
var enumFields = map[FieldName][]string{
	FieldDestLocationType:      locationTypes,
	FieldLocationType:          locationTypes,
	FieldShippingType:          shippingTypes,
	FieldCalculationType:       calculationTypes,
	FieldPackageType:           packageTypes,
	FieldPalletType:            palletTypes,
	FieldDimensionUnit:         dimensionUnits,
	FieldWeightUnit:            weightUnits,
	FieldVolumeUnit:            volumeUnits,
	FieldTotalWeightUnit:       weightUnits,
	FieldContainerType:         containerTypes,
	FieldIsOverweight:          booleanValues,
	FieldIsPersonalOrHazardous: booleanValues,
	FieldAreGoodsReady:         readinessCodes,
	FieldSpecialRequirements:   requirementCodes,
	FieldCustomerType:          customerTypes,
	FieldShipperType:           shipperTypes,
}

// Choices returns the allowed values of an enumerated field, nil for free text.
// Cargo line fields may be passed with or without their load prefix.
func Choices(field FieldName) []string {
	if _, base, ok := ParseLoadField(field); ok {
		field = base
	}
	return append([]string(nil), enumFields[field]...)
}

// LooseCargo holds the loose (LCL) branch of a cargo line
type LooseCargo struct {
	CalculationType string `yaml:"calculationType,omitempty" json:"calculationType,omitempty"`
	PackageType     string `yaml:"packageType,omitempty" json:"packageType,omitempty"`
	PalletType      string `yaml:"palletType,omitempty" json:"palletType,omitempty"`
	NumberOfUnits   string `yaml:"numberOfUnits,omitempty" json:"numberOfUnits,omitempty"`
	Length          string `yaml:"length,omitempty" json:"length,omitempty"`
	Width           string `yaml:"width,omitempty" json:"width,omitempty"`
	Height          string `yaml:"height,omitempty" json:"height,omitempty"`
	DimensionUnit   string `yaml:"dimensionUnit,omitempty" json:"dimensionUnit,omitempty"`
	WeightPerUnit   string `yaml:"weightPerUnit,omitempty" json:"weightPerUnit,omitempty"`
	WeightUnit      string `yaml:"weightUnit,omitempty" json:"weightUnit,omitempty"`
	TotalVolume     string `yaml:"totalVolume,omitempty" json:"totalVolume,omitempty"`
	VolumeUnit      string `yaml:"volumeUnit,omitempty" json:"volumeUnit,omitempty"`
	TotalWeight     string `yaml:"totalWeight,omitempty" json:"totalWeight,omitempty"`
	TotalWeightUnit string `yaml:"totalWeightUnit,omitempty" json:"totalWeightUnit,omitempty"`
}

// ContainerCargo holds the full container (FCL) branch of a cargo line
type ContainerCargo struct {
	ContainerType string `yaml:"containerType,omitempty" json:"containerType,omitempty"`
	NumberOfUnits string `yaml:"numberOfUnits,omitempty" json:"numberOfUnits,omitempty"`
	IsOverweight  bool   `yaml:"isOverweight" json:"isOverweight"`
}

// LoadDetails is one cargo line. Both branches are kept so that switching
// the shipping type back and forth never loses what was typed.
type LoadDetails struct {
	ShippingType string         `yaml:"shippingType,omitempty" json:"shippingType,omitempty"`
	Loose        LooseCargo     `yaml:"loose" json:"loose"`
	Container    ContainerCargo `yaml:"container" json:"container"`
}

// NewLoad returns a cargo line with the defaults shown when a branch is first opened
func NewLoad() LoadDetails {
	return LoadDetails{
		Loose: LooseCargo{
			CalculationType: CalculationUnit,
			NumberOfUnits:   strconv.Itoa(defaultUnits),
			DimensionUnit:   "cm",
			WeightUnit:      "kg",
			VolumeUnit:      "cbm",
			TotalWeightUnit: "kg",
		},
		Container: ContainerCargo{
			ContainerType: Container20,
			NumberOfUnits: strconv.Itoa(defaultUnits),
			IsOverweight:  false,
		},
	}
}

// FormData is the complete lead. Numeric inputs are kept as typed so that
// malformed input can be stored and judged Invalid.
type FormData struct {
	// Destination
	Country          string `yaml:"country,omitempty" json:"country,omitempty"`
	DestLocationType string `yaml:"destLocationType,omitempty" json:"destLocationType,omitempty"`
	DestCity         string `yaml:"destCity,omitempty" json:"destCity,omitempty"`
	DestZipCode      string `yaml:"destZipCode,omitempty" json:"destZipCode,omitempty"`
	DestPort         string `yaml:"destPort,omitempty" json:"destPort,omitempty"`

	// Origin (country fixed by configuration)
	OriginCountry string `yaml:"originCountry,omitempty" json:"originCountry,omitempty"`
	LocationType  string `yaml:"locationType,omitempty" json:"locationType,omitempty"`
	City          string `yaml:"city,omitempty" json:"city,omitempty"`
	ZipCode       string `yaml:"zipCode,omitempty" json:"zipCode,omitempty"`
	Origin        string `yaml:"origin,omitempty" json:"origin,omitempty"`

	// Cargo, always at least one line
	Loads []LoadDetails `yaml:"loads" json:"loads"`

	// Goods
	GoodsValue            string `yaml:"goodsValue,omitempty" json:"goodsValue,omitempty"`
	GoodsCurrency         string `yaml:"goodsCurrency,omitempty" json:"goodsCurrency,omitempty"`
	IsPersonalOrHazardous *bool  `yaml:"isPersonalOrHazardous,omitempty" json:"isPersonalOrHazardous,omitempty"` // nil until answered
	AreGoodsReady         string `yaml:"areGoodsReady,omitempty" json:"areGoodsReady,omitempty"`
	GoodsDescription      string `yaml:"goodsDescription,omitempty" json:"goodsDescription,omitempty"`
	SpecialRequirements   string `yaml:"specialRequirements,omitempty" json:"specialRequirements,omitempty"`

	// Contact
	CustomerType     string `yaml:"customerType,omitempty" json:"customerType,omitempty"`
	FirstName        string `yaml:"firstName,omitempty" json:"firstName,omitempty"`
	LastName         string `yaml:"lastName,omitempty" json:"lastName,omitempty"`
	ShipperType      string `yaml:"shipperType,omitempty" json:"shipperType,omitempty"`
	Email            string `yaml:"email,omitempty" json:"email,omitempty"`
	Phone            string `yaml:"phone,omitempty" json:"phone,omitempty"`
	PhoneCountryCode string `yaml:"phoneCountryCode,omitempty" json:"phoneCountryCode,omitempty"`
	CompanyName      string `yaml:"companyName,omitempty" json:"companyName,omitempty"`
	Remarks          string `yaml:"remarks,omitempty" json:"remarks,omitempty"`
}

// NewFormData returns an empty lead with one default cargo line
func NewFormData(originCountry string) FormData {
	return FormData{
		OriginCountry: originCountry,
		Loads:         []LoadDetails{NewLoad()},
	}
}

// Clone returns a deep copy
func (d FormData) Clone() FormData {
	c := d
	c.Loads = append([]LoadDetails(nil), d.Loads...)
	if d.IsPersonalOrHazardous != nil {
		v := *d.IsPersonalOrHazardous
		c.IsPersonalOrHazardous = &v
	}
	return c
}

var loadFieldPattern = regexp.MustCompile(`^loads\[(\d+)\]\.([A-Za-z]+)$`)

// LoadField addresses a field of cargo line i
func LoadField(i int, name FieldName) FieldName {
	return FieldName(fmt.Sprintf("loads[%d].%s", i, name))
}

// ParseLoadField splits "loads[i].name" into its index and base name
func ParseLoadField(field FieldName) (int, FieldName, bool) {
	m := loadFieldPattern.FindStringSubmatch(string(field))
	if m == nil {
		return 0, "", false
	}
	i, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return i, FieldName(m[2]), true
}

// loadFieldNames lists every cargo line field
var loadFieldNames = []FieldName{
	FieldShippingType, FieldCalculationType, FieldPackageType, FieldPalletType,
	FieldNumberOfUnits, FieldLength, FieldWidth, FieldHeight, FieldDimensionUnit,
	FieldWeightPerUnit, FieldWeightUnit, FieldTotalVolume, FieldVolumeUnit,
	FieldTotalWeight, FieldTotalWeightUnit, FieldContainerType, FieldIsOverweight,
}

// routeFieldNames and detailFieldNames list the fields before and after the
// cargo lines, in form order
var routeFieldNames = []FieldName{
	FieldCountry, FieldDestLocationType, FieldDestCity, FieldDestZipCode, FieldDestPort,
	FieldOriginCountry, FieldLocationType, FieldCity, FieldZipCode, FieldOrigin,
}

var detailFieldNames = []FieldName{
	FieldGoodsValue, FieldGoodsCurrency, FieldIsPersonalOrHazardous, FieldAreGoodsReady,
	FieldGoodsDescription, FieldSpecialRequirements,
	FieldCustomerType, FieldFirstName, FieldLastName, FieldShipperType, FieldEmail,
	FieldPhone, FieldPhoneCountryCode, FieldCompanyName, FieldRemarks,
}

// AllFields lists every field of d in form order, cargo lines expanded
func (d *FormData) AllFields() []FieldName {
	fields := make([]FieldName, 0, len(routeFieldNames)+len(detailFieldNames)+len(d.Loads)*len(loadFieldNames))
	fields = append(fields, routeFieldNames...)
	for i := range d.Loads {
		for _, name := range loadFieldNames {
			fields = append(fields, LoadField(i, name))
		}
	}
	fields = append(fields, detailFieldNames...)
	return fields
}

// Get returns the raw value of field. Unknown fields and out-of-range cargo
// lines report false. Numeric and enum values are returned as stored; the
// number of units comes from the branch selected by the line's shipping type.
func (d *FormData) Get(field FieldName) (string, bool) {
	if i, name, ok := ParseLoadField(field); ok {
		if i < 0 || i >= len(d.Loads) {
			return "", false
		}
		return d.Loads[i].get(name)
	}

	switch field {
	case FieldCountry:
		return d.Country, true
	case FieldDestLocationType:
		return d.DestLocationType, true
	case FieldDestCity:
		return d.DestCity, true
	case FieldDestZipCode:
		return d.DestZipCode, true
	case FieldDestPort:
		return d.DestPort, true
	case FieldOriginCountry:
		return d.OriginCountry, true
	case FieldLocationType:
		return d.LocationType, true
	case FieldCity:
		return d.City, true
	case FieldZipCode:
		return d.ZipCode, true
	case FieldOrigin:
		return d.Origin, true
	case FieldGoodsValue:
		return d.GoodsValue, true
	case FieldGoodsCurrency:
		return d.GoodsCurrency, true
	case FieldIsPersonalOrHazardous:
		if d.IsPersonalOrHazardous == nil {
			return "", true
		}
		return strconv.FormatBool(*d.IsPersonalOrHazardous), true
	case FieldAreGoodsReady:
		return d.AreGoodsReady, true
	case FieldGoodsDescription:
		return d.GoodsDescription, true
	case FieldSpecialRequirements:
		return d.SpecialRequirements, true
	case FieldCustomerType:
		return d.CustomerType, true
	case FieldFirstName:
		return d.FirstName, true
	case FieldLastName:
		return d.LastName, true
	case FieldShipperType:
		return d.ShipperType, true
	case FieldEmail:
		return d.Email, true
	case FieldPhone:
		return d.Phone, true
	case FieldPhoneCountryCode:
		return d.PhoneCountryCode, true
	case FieldCompanyName:
		return d.CompanyName, true
	case FieldRemarks:
		return d.Remarks, true
	}
	return "", false
}

// Value is Get without the presence flag
func (d *FormData) Value(field FieldName) string {
	v, _ := d.Get(field)
	return v
}

// set writes a raw value; the store layers side effects on top
func (d *FormData) set(field FieldName, value string) bool {
	if i, name, ok := ParseLoadField(field); ok {
		if i < 0 || i >= len(d.Loads) {
			return false
		}
		return d.Loads[i].set(name, value)
	}

	switch field {
	case FieldCountry:
		d.Country = value
	case FieldDestLocationType:
		d.DestLocationType = value
	case FieldDestCity:
		d.DestCity = value
	case FieldDestZipCode:
		d.DestZipCode = value
	case FieldDestPort:
		d.DestPort = value
	case FieldOriginCountry:
		d.OriginCountry = value
	case FieldLocationType:
		d.LocationType = value
	case FieldCity:
		d.City = value
	case FieldZipCode:
		d.ZipCode = value
	case FieldOrigin:
		d.Origin = value
	case FieldGoodsValue:
		d.GoodsValue = value
	case FieldGoodsCurrency:
		d.GoodsCurrency = value
	case FieldIsPersonalOrHazardous:
		b, err := strconv.ParseBool(value)
		if err != nil {
			d.IsPersonalOrHazardous = nil
		} else {
			d.IsPersonalOrHazardous = &b
		}
	case FieldAreGoodsReady:
		d.AreGoodsReady = value
	case FieldGoodsDescription:
		d.GoodsDescription = value
	case FieldSpecialRequirements:
		d.SpecialRequirements = value
	case FieldCustomerType:
		d.CustomerType = value
	case FieldFirstName:
		d.FirstName = value
	case FieldLastName:
		d.LastName = value
	case FieldShipperType:
		d.ShipperType = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldPhoneCountryCode:
		d.PhoneCountryCode = value
	case FieldCompanyName:
		d.CompanyName = value
	case FieldRemarks:
		d.Remarks = value
	default:
		return false
	}
	return true
}

func (l *LoadDetails) get(name FieldName) (string, bool) {
	switch name {
	case FieldShippingType:
		return l.ShippingType, true
	case FieldNumberOfUnits:
		if l.ShippingType == ShippingContainer {
			return l.Container.NumberOfUnits, true
		}
		return l.Loose.NumberOfUnits, true
	case FieldContainerType:
		return l.Container.ContainerType, true
	case FieldIsOverweight:
		return strconv.FormatBool(l.Container.IsOverweight), true
	case FieldCalculationType:
		return l.Loose.CalculationType, true
	case FieldPackageType:
		return l.Loose.PackageType, true
	case FieldPalletType:
		return l.Loose.PalletType, true
	case FieldLength:
		return l.Loose.Length, true
	case FieldWidth:
		return l.Loose.Width, true
	case FieldHeight:
		return l.Loose.Height, true
	case FieldDimensionUnit:
		return l.Loose.DimensionUnit, true
	case FieldWeightPerUnit:
		return l.Loose.WeightPerUnit, true
	case FieldWeightUnit:
		return l.Loose.WeightUnit, true
	case FieldTotalVolume:
		return l.Loose.TotalVolume, true
	case FieldVolumeUnit:
		return l.Loose.VolumeUnit, true
	case FieldTotalWeight:
		return l.Loose.TotalWeight, true
	case FieldTotalWeightUnit:
		return l.Loose.TotalWeightUnit, true
	}
	return "", false
}

func (l *LoadDetails) set(name FieldName, value string) bool {
	switch name {
	case FieldShippingType:
		l.ShippingType = value
	case FieldNumberOfUnits:
		if l.ShippingType == ShippingContainer {
			l.Container.NumberOfUnits = value
		} else {
			l.Loose.NumberOfUnits = value
		}
	case FieldContainerType:
		l.Container.ContainerType = value
	case FieldIsOverweight:
		l.Container.IsOverweight = value == "true"
	case FieldCalculationType:
		l.Loose.CalculationType = value
	case FieldPackageType:
		l.Loose.PackageType = value
	case FieldPalletType:
		l.Loose.PalletType = value
	case FieldLength:
		l.Loose.Length = value
	case FieldWidth:
		l.Loose.Width = value
	case FieldHeight:
		l.Loose.Height = value
	case FieldDimensionUnit:
		l.Loose.DimensionUnit = value
	case FieldWeightPerUnit:
		l.Loose.WeightPerUnit = value
	case FieldWeightUnit:
		l.Loose.WeightUnit = value
	case FieldTotalVolume:
		l.Loose.TotalVolume = value
	case FieldVolumeUnit:
		l.Loose.VolumeUnit = value
	case FieldTotalWeight:
		l.Loose.TotalWeight = value
	case FieldTotalWeightUnit:
		l.Loose.TotalWeightUnit = value
	default:
		return false
	}
	return true
}
