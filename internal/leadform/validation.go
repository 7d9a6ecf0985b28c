package leadform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/muurk/freightform/internal/refdata"
)

const (
	maxNameLength        = 50
	maxCityLength        = 85
	maxEmailLength       = 254
	minPhoneDigits       = 6
	maxPhoneDigits       = 15
	minCompanyLength     = 2
	maxCompanyLength     = 100
	maxDescriptionLength = 500
	maxRemarksLength     = 1000
)

var (
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9()\- ]+$`)
	zipPattern      = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 \-]{1,8}[A-Za-z0-9]$`)
	placePattern    = regexp.MustCompile(`^\p{L}[\p{L}\p{M} .'\-]*$`)
	countryPattern  = regexp.MustCompile(`^[A-Z]{2}$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	portPattern     = regexp.MustCompile(`^[A-Z0-9]{3,6}$`)
)

// Rules judges field values. A zero Rules checks formats only; with a
// Directory, country, port and currency codes must also exist.
type Rules struct {
	Directory refdata.Provider
}

// Validate judges raw as the value of field given the rest of the form.
// It is total: empty input is Untouched, malformed input is Invalid, and
// unknown fields are Untouched. It never panics.
func Validate(field FieldName, raw string, data *FormData) Validity {
	return Rules{}.Validate(field, raw, data)
}

// Validate judges raw as the value of field given the rest of the form
func (r Rules) Validate(field FieldName, raw string, data *FormData) Validity {
	v, _ := r.check(field, raw, data)
	return v
}

// Explain returns nil when raw is a valid value for field, otherwise a
// validation error describing why it is empty or rejected
func (r Rules) Explain(field FieldName, raw string, data *FormData) error {
	v, reason := r.check(field, raw, data)
	if v == Valid {
		return nil
	}
	return NewValidationError(field, reason)
}

func (r Rules) check(field FieldName, raw string, data *FormData) (Validity, string) {
	if data == nil {
		data = &FormData{}
	}
	base := field
	if _, name, ok := ParseLoadField(field); ok {
		base = name
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return Untouched, "is required"
	}

	switch base {
	case FieldFirstName, FieldLastName:
		return checkPersonName(value)
	case FieldEmail:
		return checkEmail(value)
	case FieldPhone:
		return checkPhone(value)
	case FieldDestCity, FieldCity:
		return checkCity(value)
	case FieldDestZipCode, FieldZipCode:
		if !zipPattern.MatchString(value) {
			return Invalid, "must be 3-10 letters or digits"
		}
		return Valid, ""
	case FieldGoodsValue, FieldLength, FieldWidth, FieldHeight,
		FieldWeightPerUnit, FieldTotalVolume, FieldTotalWeight:
		if _, ok := ParseAmount(value); !ok {
			return Invalid, "must be a number greater than zero"
		}
		return Valid, ""
	case FieldNumberOfUnits:
		if _, ok := ParseUnits(value); !ok {
			return Invalid, "must be a whole number of at least 1"
		}
		return Valid, ""
	case FieldCountry, FieldOriginCountry, FieldPhoneCountryCode:
		return r.checkCountry(value)
	case FieldGoodsCurrency:
		return r.checkCurrency(value)
	case FieldDestPort:
		return r.checkPort(data.Country, value)
	case FieldOrigin:
		return r.checkPort(data.OriginCountry, value)
	case FieldCompanyName:
		if data.CustomerType != CustomerCompany {
			return Untouched, "only asked of companies"
		}
		return checkLength(value, minCompanyLength, maxCompanyLength)
	case FieldGoodsDescription:
		return checkLength(value, 1, maxDescriptionLength)
	case FieldRemarks:
		return checkLength(value, 1, maxRemarksLength)
	}

	if allowed, ok := enumFields[base]; ok {
		if !lo.Contains(allowed, value) {
			return Invalid, fmt.Sprintf("must be one of %s", strings.Join(allowed, ", "))
		}
		return Valid, ""
	}

	return Untouched, "unknown field"
}

func checkPersonName(value string) (Validity, string) {
	if utf8.RuneCountInString(value) > maxNameLength {
		return Invalid, fmt.Sprintf("must be at most %d characters", maxNameLength)
	}
	if !placePattern.MatchString(value) {
		return Invalid, "must contain letters only"
	}
	return Valid, ""
}

func checkCity(value string) (Validity, string) {
	n := utf8.RuneCountInString(value)
	if n < 2 || n > maxCityLength {
		return Invalid, fmt.Sprintf("must be 2-%d characters", maxCityLength)
	}
	if !placePattern.MatchString(value) {
		return Invalid, "must contain letters only"
	}
	return Valid, ""
}

func checkEmail(value string) (Validity, string) {
	if len(value) > maxEmailLength || strings.Contains(value, "..") || !emailPattern.MatchString(value) {
		return Invalid, "must be a valid email address"
	}
	return Valid, ""
}

func checkPhone(value string) (Validity, string) {
	if !phonePattern.MatchString(value) {
		return Invalid, "may contain digits, spaces, +, - and parentheses only"
	}
	digits := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return Invalid, fmt.Sprintf("must have %d-%d digits", minPhoneDigits, maxPhoneDigits)
	}
	return Valid, ""
}

func checkLength(value string, minLen, maxLen int) (Validity, string) {
	n := utf8.RuneCountInString(value)
	if n < minLen || n > maxLen {
		return Invalid, fmt.Sprintf("must be %d-%d characters", minLen, maxLen)
	}
	return Valid, ""
}

func (r Rules) checkCountry(value string) (Validity, string) {
	if !countryPattern.MatchString(value) {
		return Invalid, "must be a two-letter country code"
	}
	if r.Directory != nil {
		if _, ok := r.Directory.Country(value); !ok {
			return Invalid, fmt.Sprintf("unknown country %q", value)
		}
	}
	return Valid, ""
}

func (r Rules) checkCurrency(value string) (Validity, string) {
	if !currencyPattern.MatchString(value) {
		return Invalid, "must be a three-letter currency code"
	}
	if r.Directory != nil {
		if _, ok := r.Directory.Currency(value); !ok {
			return Invalid, fmt.Sprintf("unknown currency %q", value)
		}
	}
	return Valid, ""
}

func (r Rules) checkPort(country, value string) (Validity, string) {
	if !portPattern.MatchString(value) {
		return Invalid, "must be a port code"
	}
	if r.Directory != nil {
		if _, ok := r.Directory.Port(country, value); !ok {
			return Invalid, fmt.Sprintf("unknown port %q for country %q", value, country)
		}
	}
	return Valid, ""
}

// ParseAmount parses a positive decimal amount. A single comma is accepted
// as the decimal separator when no dot is present ("1234,50").
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

// ParseUnits parses a unit count of at least 1
func ParseUnits(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// ValidateStep checks every field the step currently asks for.
// Returns a slice of validation errors (empty if valid).
func ValidateStep(step Step, data *FormData) []error {
	return Rules{}.ValidateStep(step, data)
}

// ValidateStep checks every field the step currently asks for: required
// fields must be valid and optional fields, when filled, must not be invalid.
func (r Rules) ValidateStep(step Step, data *FormData) []error {
	var errors []error

	for _, field := range StepFields(step, data) {
		raw := data.Value(field)
		v := r.Validate(field, raw, data)
		if v == Valid || (v == Untouched && IsOptional(field)) {
			continue
		}
		errors = append(errors, r.Explain(field, raw, data))
	}

	return errors
}

// ValidateForm checks every step that collects input.
// This is the main validation entry point for lead files.
// Returns a slice of validation errors (empty if valid).
func (r Rules) ValidateForm(data *FormData) []error {
	var allErrors []error

	for _, step := range InputSteps() {
		allErrors = append(allErrors, r.ValidateStep(step, data)...)
	}

	allErrors = append(allErrors, CheckPlausibility(data)...)

	return allErrors
}

// CheckPlausibility checks for values that are valid individually but worth
// a second look before a quote is prepared.
func CheckPlausibility(data *FormData) []error {
	var warnings []error

	for i, load := range data.Loads {
		if load.ShippingType != ShippingLoose || load.Loose.CalculationType != CalculationUnit {
			continue
		}
		weight, ok := ParseAmount(load.Loose.WeightPerUnit)
		if !ok {
			continue
		}
		limit := decimal.NewFromInt(1500)
		if load.Loose.WeightUnit == "lb" {
			limit = decimal.NewFromInt(3300)
		}
		if load.Loose.PackageType == PackagePallets && weight.GreaterThan(limit) {
			warnings = append(warnings, NewValidationError(LoadField(i, FieldWeightPerUnit),
				fmt.Sprintf("warning: %s %s per pallet is above the usual limit", weight.String(), load.Loose.WeightUnit)))
		}
	}

	if data.IsPersonalOrHazardous != nil && *data.IsPersonalOrHazardous {
		warnings = append(warnings, NewValidationError(FieldIsPersonalOrHazardous,
			"warning: personal effects and hazardous goods need additional documents"))
	}

	return warnings
}

// FormatValidationErrors formats a slice of validation errors into a user-friendly message.
func FormatValidationErrors(errors []error) string {
	if len(errors) == 0 {
		return "No validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Lead validation failed with %d error(s):\n", len(errors)))

	for i, err := range errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, describe(err)))
	}

	return sb.String()
}

func describe(err error) string {
	if formErr, ok := err.(*FormError); ok && formErr.Type == ErrTypeValidation && formErr.Field != "" {
		return fmt.Sprintf("%s %s", formErr.Field, formErr.Message)
	}
	return err.Error()
}

// IsWarning checks if a validation error is a warning (non-fatal).
// Warnings have error messages starting with "warning:".
func IsWarning(err error) bool {
	if formErr, ok := err.(*FormError); ok {
		return strings.HasPrefix(formErr.Message, "warning:")
	}
	return strings.Contains(err.Error(), "warning:")
}

// SeparateWarningsAndErrors separates validation errors into warnings and errors.
func SeparateWarningsAndErrors(errors []error) (warnings []error, criticalErrors []error) {
	for _, err := range errors {
		if IsWarning(err) {
			warnings = append(warnings, err)
		} else {
			criticalErrors = append(criticalErrors, err)
		}
	}
	return warnings, criticalErrors
}
