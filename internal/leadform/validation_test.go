package leadform

import (
	"strings"
	"testing"

	"github.com/muurk/freightform/internal/refdata"
)

func TestValidate(t *testing.T) {
	company := &FormData{CustomerType: CustomerCompany}
	individual := &FormData{CustomerType: CustomerIndividual}

	tests := []struct {
		name  string
		field FieldName
		raw   string
		data  *FormData
		want  Validity
	}{
		// Required text
		{"empty first name", FieldFirstName, "", nil, Untouched},
		{"blank first name", FieldFirstName, "   ", nil, Untouched},
		{"first name", FieldFirstName, "Ana", nil, Valid},
		{"accented name", FieldLastName, "Müller-Lüdenscheidt", nil, Valid},
		{"name with digits", FieldLastName, "Lee2", nil, Invalid},
		{"name too long", FieldFirstName, strings.Repeat("a", 51), nil, Invalid},

		{"email", FieldEmail, "ana.lee@example.com", nil, Valid},
		{"email with plus", FieldEmail, "ana+quotes@mail.example.co.uk", nil, Valid},
		{"email without at", FieldEmail, "ana.example.com", nil, Invalid},
		{"email without tld", FieldEmail, "ana@example", nil, Invalid},
		{"email with double dot", FieldEmail, "ana..lee@example.com", nil, Invalid},

		{"phone", FieldPhone, "+33 6 12 34 56 78", nil, Valid},
		{"phone with parentheses", FieldPhone, "(555) 123-4567", nil, Valid},
		{"phone too short", FieldPhone, "12345", nil, Invalid},
		{"phone too long", FieldPhone, "1234567890123456", nil, Invalid},
		{"phone with letters", FieldPhone, "06 12 AB 56", nil, Invalid},

		{"city", FieldDestCity, "Le Havre", nil, Valid},
		{"city one letter", FieldCity, "X", nil, Invalid},
		{"city digits", FieldCity, "75001", nil, Invalid},

		{"zip", FieldDestZipCode, "75001", nil, Valid},
		{"zip with space", FieldZipCode, "SW1A 1AA", nil, Valid},
		{"zip too short", FieldZipCode, "75", nil, Invalid},
		{"zip symbols", FieldZipCode, "75#01", nil, Invalid},

		// Numeric
		{"goods value", FieldGoodsValue, "1500", nil, Valid},
		{"goods value decimal", FieldGoodsValue, "1500.50", nil, Valid},
		{"goods value decimal comma", FieldGoodsValue, "1500,50", nil, Valid},
		{"goods value zero", FieldGoodsValue, "0", nil, Invalid},
		{"goods value negative", FieldGoodsValue, "-10", nil, Invalid},
		{"goods value text", FieldGoodsValue, "a lot", nil, Invalid},
		{"units", LoadField(0, FieldNumberOfUnits), "3", nil, Valid},
		{"units zero", LoadField(0, FieldNumberOfUnits), "0", nil, Invalid},
		{"units fraction", LoadField(0, FieldNumberOfUnits), "1.5", nil, Invalid},
		{"length", LoadField(2, FieldLength), "120", nil, Valid},
		{"weight text", LoadField(0, FieldWeightPerUnit), "heavy", nil, Invalid},

		// Codes
		{"country", FieldCountry, "FR", nil, Valid},
		{"country lower case", FieldCountry, "fr", nil, Invalid},
		{"country three letters", FieldCountry, "FRA", nil, Invalid},
		{"currency", FieldGoodsCurrency, "EUR", nil, Valid},
		{"currency short", FieldGoodsCurrency, "EU", nil, Invalid},
		{"port", FieldDestPort, "FRLEH", nil, Valid},
		{"port symbols", FieldDestPort, "FR-LEH", nil, Invalid},

		// Enumerations
		{"location type", FieldDestLocationType, LocationPort, nil, Valid},
		{"location type unknown", FieldDestLocationType, "moon", nil, Invalid},
		{"container type", LoadField(0, FieldContainerType), "40'HC", nil, Valid},
		{"container type unknown", LoadField(0, FieldContainerType), "10'", nil, Invalid},
		{"readiness", FieldAreGoodsReady, "within-2-weeks", nil, Valid},
		{"hazardous flag", FieldIsPersonalOrHazardous, "false", nil, Valid},
		{"hazardous flag garbage", FieldIsPersonalOrHazardous, "maybe", nil, Invalid},
		{"shipper type", FieldShipperType, "first-time", nil, Valid},

		// Conditional
		{"company name for company", FieldCompanyName, "Acme Freight", company, Valid},
		{"company name too short", FieldCompanyName, "A", company, Invalid},
		{"company name for individual", FieldCompanyName, "A", individual, Untouched},

		// Optional
		{"remarks", FieldRemarks, "Please call before noon", nil, Valid},
		{"remarks too long", FieldRemarks, strings.Repeat("x", 1001), nil, Invalid},

		// Unknown
		{"unknown field", FieldName("favouriteColour"), "blue", nil, Untouched},
		{"unknown load field", LoadField(0, "colour"), "blue", nil, Untouched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.field, tt.raw, tt.data); got != tt.want {
				t.Errorf("Validate(%s, %q) = %v, want %v", tt.field, tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidateNeverPanics(t *testing.T) {
	inputs := []string{"", " ", "\x00", "💥", "1e999999", "--", strings.Repeat("9", 400), "NaN", "+", ","}
	fields := (&FormData{Loads: []LoadDetails{NewLoad()}}).AllFields()

	for _, field := range fields {
		for _, raw := range inputs {
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Errorf("Validate(%s, %q) panicked: %v", field, raw, r)
					}
				}()
				_ = Validate(field, raw, nil)
			}()
		}
	}
}

func TestRulesWithDirectory(t *testing.T) {
	catalog := refdata.NewCatalog(
		[]refdata.Country{{Code: "FR", Name: "France"}, {Code: "CN", Name: "China"}},
		map[string][]refdata.Port{
			"FR": {{Code: "FRLEH", Name: "Le Havre"}},
			"CN": {{Code: "CNSHA", Name: "Shanghai"}},
		},
		[]refdata.Currency{{Code: "EUR", Name: "Euro"}},
	)
	rules := Rules{Directory: catalog}
	data := &FormData{Country: "FR", OriginCountry: "CN"}

	tests := []struct {
		field FieldName
		raw   string
		want  Validity
	}{
		{FieldCountry, "FR", Valid},
		{FieldCountry, "ZZ", Invalid},
		{FieldGoodsCurrency, "EUR", Valid},
		{FieldGoodsCurrency, "XYZ", Invalid},
		{FieldDestPort, "FRLEH", Valid},
		{FieldDestPort, "CNSHA", Invalid},
		{FieldOrigin, "CNSHA", Valid},
		{FieldOrigin, "FRLEH", Invalid},
	}

	for _, tt := range tests {
		t.Run(string(tt.field)+"="+tt.raw, func(t *testing.T) {
			if got := rules.Validate(tt.field, tt.raw, data); got != tt.want {
				t.Errorf("Validate(%s, %q) = %v, want %v", tt.field, tt.raw, got, tt.want)
			}
		})
	}
}

func TestExplain(t *testing.T) {
	rules := Rules{}

	if err := rules.Explain(FieldEmail, "ana@example.com", nil); err != nil {
		t.Errorf("Explain(valid email) = %v, want nil", err)
	}

	err := rules.Explain(FieldEmail, "nope", nil)
	if err == nil || !IsValidationError(err) {
		t.Fatalf("Explain(invalid email) = %v, want validation error", err)
	}
	if !strings.Contains(err.Error(), "email") {
		t.Errorf("error %q should name the field", err)
	}

	err = rules.Explain(FieldFirstName, "", nil)
	if err == nil || !strings.Contains(err.Error(), "required") {
		t.Errorf("Explain(empty) = %v, want required", err)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"1500", "1500", true},
		{" 12.50 ", "12.5", true},
		{"12,50", "12.5", true},
		{"1,234.50", "", false},
		{"0", "", false},
		{"-1", "", false},
		{"abc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseAmount(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ParseAmount(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if ok && got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.raw, got.String(), tt.want)
			}
		})
	}
}

func TestValidateStep(t *testing.T) {
	data := NewFormData("CN")
	data.Country = "FR"
	data.DestLocationType = LocationResidential
	data.DestCity = "Paris"
	data.DestZipCode = "7"

	errs := ValidateStep(StepDestination, &data)
	if len(errs) != 1 {
		t.Fatalf("ValidateStep() returned %d errors, want 1: %v", len(errs), errs)
	}
	formErr, ok := errs[0].(*FormError)
	if !ok || formErr.Field != FieldDestZipCode {
		t.Errorf("error = %v, want destZipCode", errs[0])
	}

	// The port is irrelevant for residential deliveries and is not reported
	for _, err := range errs {
		if strings.Contains(err.Error(), string(FieldDestPort)) {
			t.Errorf("irrelevant field reported: %v", err)
		}
	}
}

func TestValidateStepOptionalFields(t *testing.T) {
	yes := false
	data := NewFormData("CN")
	data.GoodsValue = "100"
	data.GoodsCurrency = "EUR"
	data.IsPersonalOrHazardous = &yes
	data.AreGoodsReady = "ready-now"

	if errs := ValidateStep(StepGoodsDetails, &data); len(errs) != 0 {
		t.Errorf("empty optional fields should pass, got %v", errs)
	}

	data.SpecialRequirements = "express"
	errs := ValidateStep(StepGoodsDetails, &data)
	if len(errs) != 1 {
		t.Fatalf("invalid optional value should be reported, got %v", errs)
	}
}

func TestFormatValidationErrors(t *testing.T) {
	if got := FormatValidationErrors(nil); got != "No validation errors" {
		t.Errorf("FormatValidationErrors(nil) = %q", got)
	}

	got := FormatValidationErrors([]error{
		NewValidationError(FieldEmail, "must be a valid email address"),
		NewValidationError(FieldPhone, "is required"),
	})
	for _, want := range []string{"2 error(s)", "1. email must be a valid email address", "2. phone is required"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestCheckPlausibility(t *testing.T) {
	hazardous := true
	data := NewFormData("CN")
	data.Loads[0].ShippingType = ShippingLoose
	data.Loads[0].Loose.PackageType = PackagePallets
	data.Loads[0].Loose.WeightPerUnit = "2000"
	data.IsPersonalOrHazardous = &hazardous

	warnings := CheckPlausibility(&data)
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(warnings), warnings)
	}
	for _, w := range warnings {
		if !IsWarning(w) {
			t.Errorf("%v should be a warning", w)
		}
	}

	w, errs := SeparateWarningsAndErrors(append(warnings, NewValidationError(FieldEmail, "is required")))
	if len(w) != 2 || len(errs) != 1 {
		t.Errorf("SeparateWarningsAndErrors() = %d warnings, %d errors", len(w), len(errs))
	}
}
