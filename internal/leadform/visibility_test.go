package leadform

import (
	"reflect"
	"testing"
)

func TestRelevant(t *testing.T) {
	port := &FormData{DestLocationType: LocationPort, LocationType: LocationFactory, CustomerType: CustomerIndividual}
	unset := &FormData{}

	tests := []struct {
		name  string
		field FieldName
		data  *FormData
		want  bool
	}{
		{"dest port for port delivery", FieldDestPort, port, true},
		{"dest city for port delivery", FieldDestCity, port, false},
		{"dest port before a type is chosen", FieldDestPort, unset, false},
		{"dest zip before a type is chosen", FieldDestZipCode, unset, false},
		{"origin port for factory pickup", FieldOrigin, port, false},
		{"origin city for factory pickup", FieldCity, port, true},
		{"company name for individual", FieldCompanyName, port, false},
		{"company name for company", FieldCompanyName, &FormData{CustomerType: CustomerCompany}, true},
		{"email always", FieldEmail, unset, true},
		{"unknown field", FieldName("favouriteColour"), unset, false},
		{"load out of range", LoadField(1, FieldShippingType), &FormData{Loads: []LoadDetails{NewLoad()}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Relevant(tt.field, tt.data); got != tt.want {
				t.Errorf("Relevant(%s) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestLoadFieldRelevance(t *testing.T) {
	unitPallets := NewLoad()
	unitPallets.ShippingType = ShippingLoose
	unitPallets.Loose.PackageType = PackagePallets

	total := NewLoad()
	total.ShippingType = ShippingLoose
	total.Loose.CalculationType = CalculationTotal

	container := NewLoad()
	container.ShippingType = ShippingContainer

	unsure := NewLoad()
	unsure.ShippingType = ShippingUnsure

	tests := []struct {
		name string
		load LoadDetails
		want []FieldName
	}{
		{"unsure", unsure, []FieldName{FieldShippingType}},
		{"container", container, []FieldName{FieldShippingType, FieldContainerType, FieldNumberOfUnits, FieldIsOverweight}},
		{"loose by unit with pallets", unitPallets, []FieldName{
			FieldShippingType, FieldCalculationType, FieldPackageType, FieldPalletType, FieldNumberOfUnits,
			FieldLength, FieldWidth, FieldHeight, FieldDimensionUnit, FieldWeightPerUnit, FieldWeightUnit,
		}},
		{"loose by total", total, []FieldName{
			FieldShippingType, FieldCalculationType,
			FieldTotalVolume, FieldVolumeUnit, FieldTotalWeight, FieldTotalWeightUnit,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &FormData{Loads: []LoadDetails{tt.load}}
			got := VisibleFields(StepFreight, 1, d)
			var want []FieldName
			for _, name := range tt.want {
				want = append(want, LoadField(0, name))
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("VisibleFields() = %v, want %v", got, want)
			}
		})
	}
}

func TestRequiredFieldsExcludeOptional(t *testing.T) {
	d := &FormData{
		Country:          "FR",
		DestLocationType: LocationPort,
		LocationType:     LocationPort,
		CustomerType:     CustomerCompany,
		Loads:            []LoadDetails{NewLoad()},
	}

	tests := []struct {
		step    Step
		subStep int
		want    []FieldName
	}{
		{StepDestination, 1, []FieldName{FieldCountry, FieldDestLocationType, FieldDestPort}},
		{StepOrigin, 1, []FieldName{FieldLocationType, FieldOrigin}},
		{StepFreight, 1, []FieldName{LoadField(0, FieldShippingType)}},
		{StepGoodsDetails, 1, []FieldName{FieldGoodsValue, FieldGoodsCurrency}},
		{StepGoodsDetails, 2, []FieldName{FieldIsPersonalOrHazardous, FieldAreGoodsReady}},
		{StepGoodsDetails, 3, nil},
		{StepContact, 1, []FieldName{
			FieldCustomerType, FieldFirstName, FieldLastName, FieldShipperType,
			FieldCompanyName, FieldEmail, FieldPhone,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.step.String(), func(t *testing.T) {
			got := RequiredFields(tt.step, tt.subStep, d)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RequiredFields(%v, %d) = %v, want %v", tt.step, tt.subStep, got, tt.want)
			}
		})
	}
}

func TestDestinationPhases(t *testing.T) {
	d := &FormData{}
	if got := DestinationPhases(d); !reflect.DeepEqual(got, []Phase{PhaseDestCountry}) {
		t.Errorf("empty = %v", got)
	}

	d.Country = "FR"
	if got := DestinationPhases(d); len(got) != 2 {
		t.Errorf("with country = %v", got)
	}

	d.DestLocationType = LocationBusiness
	got := VisibleFields(StepDestination, 1, d)
	want := []FieldName{FieldCountry, FieldDestLocationType, FieldDestCity, FieldDestZipCode}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("VisibleFields() = %v, want %v", got, want)
	}
}

func TestContactPhasesRevealProgressively(t *testing.T) {
	d := &FormData{}

	steps := []struct {
		name  string
		apply func()
		want  []Phase
	}{
		{"nothing chosen", func() {}, []Phase{PhaseContactType}},
		{"individual", func() { d.CustomerType = CustomerIndividual },
			[]Phase{PhaseContactType, PhaseContactPersonal}},
		{"first name only", func() { d.FirstName = "Ana" },
			[]Phase{PhaseContactType, PhaseContactPersonal}},
		{"both names", func() { d.LastName = "Lee" },
			[]Phase{PhaseContactType, PhaseContactPersonal, PhaseContactExperience}},
		{"first-time shipper", func() { d.ShipperType = "first-time" },
			[]Phase{PhaseContactType, PhaseContactPersonal, PhaseContactExperience, PhaseContactInfo}},
		{"valid email only", func() { d.Email = "ana.lee@example.com" },
			[]Phase{PhaseContactType, PhaseContactPersonal, PhaseContactExperience, PhaseContactInfo}},
		{"valid phone", func() { d.Phone = "+33 6 12 34 56 78" },
			[]Phase{PhaseContactType, PhaseContactPersonal, PhaseContactExperience, PhaseContactInfo, PhaseContactNotes}},
	}

	for _, step := range steps {
		step.apply()
		if got := ContactPhases(d); !reflect.DeepEqual(got, step.want) {
			t.Fatalf("%s: ContactPhases() = %v, want %v", step.name, got, step.want)
		}
	}

	if !ContactComplete(d) {
		t.Error("ContactComplete() = false after every phase was revealed")
	}
	for _, p := range ContactPhases(d) {
		if p == PhaseContactBusiness {
			t.Error("business phase must not appear for individuals")
		}
	}
}

func TestContactBusinessPhaseBlocksUntilCompanyNameValid(t *testing.T) {
	d := &FormData{
		CustomerType: CustomerCompany,
		FirstName:    "Ana",
		LastName:     "Lee",
		ShipperType:  "regular",
		Email:        "ana@acme.example",
		Phone:        "0612345678",
	}

	want := []Phase{PhaseContactType, PhaseContactPersonal, PhaseContactExperience, PhaseContactBusiness}
	if got := ContactPhases(d); !reflect.DeepEqual(got, want) {
		t.Errorf("without company name = %v, want %v", got, want)
	}

	d.CompanyName = "Acme Freight"
	got := ContactPhases(d)
	if got[len(got)-1] != PhaseContactNotes {
		t.Errorf("with company name = %v, want every phase", got)
	}
}

func TestPhaseFieldsInfo(t *testing.T) {
	got := PhaseFields(PhaseContactInfo, &FormData{})
	want := []FieldName{FieldEmail, FieldPhoneCountryCode, FieldPhone}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PhaseFields(info) = %v, want %v", got, want)
	}
}

func TestGoodsPhases(t *testing.T) {
	tests := []struct {
		subStep int
		want    Phase
	}{
		{0, PhaseGoodsValue},
		{1, PhaseGoodsValue},
		{2, PhaseGoodsNature},
		{3, PhaseGoodsExtra},
		{9, PhaseGoodsExtra},
	}
	for _, tt := range tests {
		if got := GoodsPhases(tt.subStep); got[0] != tt.want {
			t.Errorf("GoodsPhases(%d) = %v, want %v", tt.subStep, got, tt.want)
		}
	}
}

func TestSubStepProgress(t *testing.T) {
	tests := []struct {
		subStep   int
		completed []bool
		active    []bool
	}{
		{1, []bool{false, false, false}, []bool{true, false, false}},
		{2, []bool{true, false, false}, []bool{false, true, false}},
		{3, []bool{true, true, false}, []bool{false, false, true}},
	}

	for _, tt := range tests {
		markers := SubStepProgress(tt.subStep)
		if len(markers) != GoodsSubSteps {
			t.Fatalf("got %d markers, want %d", len(markers), GoodsSubSteps)
		}
		for k, m := range markers {
			if m.Index != k+1 || m.Completed != tt.completed[k] || m.Active != tt.active[k] {
				t.Errorf("sub-step %d marker %d = %+v", tt.subStep, k+1, m)
			}
		}
	}
}

func TestVisiblePhasesFreightUnion(t *testing.T) {
	loose := NewLoad()
	loose.ShippingType = ShippingLoose
	container := NewLoad()
	container.ShippingType = ShippingContainer
	d := &FormData{Loads: []LoadDetails{loose, container, loose}}

	got := VisiblePhases(StepFreight, 1, d)
	want := []Phase{PhaseShippingType, PhaseLooseDetails, PhaseContainerDetails}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("VisiblePhases(freight) = %v, want %v", got, want)
	}
}
