package leadform

import (
	"fmt"
	"strings"

	"github.com/muurk/freightform/internal/i18n"
)

// Names turns reference codes into display names, falling back to the raw
// code when a code is unknown. *refdata.Catalog implements it.
type Names interface {
	CountryName(code string) string
	PortName(country, code string) string
	CurrencyName(code string) string
}

// SummaryLine is one labelled value on the review step
type SummaryLine struct {
	Field FieldName
	Label string
	Value string
}

// SummarySection groups the lines of one step
type SummarySection struct {
	Step  Step
	Title string
	Lines []SummaryLine
}

// unitOf pairs a measurement with the field holding its unit
var unitOf = map[FieldName]FieldName{
	FieldLength:        FieldDimensionUnit,
	FieldWidth:         FieldDimensionUnit,
	FieldHeight:        FieldDimensionUnit,
	FieldWeightPerUnit: FieldWeightUnit,
	FieldTotalVolume:   FieldVolumeUnit,
	FieldTotalWeight:   FieldTotalWeightUnit,
}

// Summarize builds the review of d: one section per input step, holding the
// relevant fields that have a value, translated through tr.
func Summarize(d FormData, names Names, tr i18n.Translator) []SummarySection {
	if tr == nil {
		tr = func(_, fallback string) string { return fallback }
	}

	var sections []SummarySection
	for _, step := range InputSteps() {
		section := SummarySection{
			Step:  step,
			Title: tr("step."+step.String(), step.String()),
		}
		for _, field := range StepFields(step, &d) {
			if line, ok := summaryLine(field, &d, names, tr); ok {
				section.Lines = append(section.Lines, line)
			}
		}
		sections = append(sections, section)
	}
	return sections
}

func summaryLine(field FieldName, d *FormData, names Names, tr i18n.Translator) (SummaryLine, bool) {
	value := d.Value(field)
	if value == "" {
		return SummaryLine{}, false
	}

	base := field
	index, name, isLoad := ParseLoadField(field)
	if isLoad {
		base = name
		// Units are folded into their measurement
		for _, unit := range unitOf {
			if unit == base {
				return SummaryLine{}, false
			}
		}
	}

	label := tr("field."+string(base), string(base))
	if isLoad && len(d.Loads) > 1 {
		label = fmt.Sprintf("%s %d: %s", tr("status.load", "Cargo line"), index+1, label)
	}

	switch base {
	case FieldCountry, FieldOriginCountry, FieldPhoneCountryCode:
		if names != nil {
			value = names.CountryName(value)
		}
	case FieldDestPort:
		if names != nil {
			value = names.PortName(d.Country, value)
		}
	case FieldOrigin:
		if names != nil {
			value = names.PortName(d.OriginCountry, value)
		}
	case FieldGoodsCurrency:
		if names != nil {
			value = names.CurrencyName(value)
		}
	case FieldGoodsValue:
		if amount, ok := ParseAmount(value); ok {
			value = amount.StringFixed(2)
		}
		if d.GoodsCurrency != "" {
			value += " " + d.GoodsCurrency
		}
	case FieldIsPersonalOrHazardous, FieldIsOverweight:
		if value == "true" {
			value = tr("option.yes", "Yes")
		} else {
			value = tr("option.no", "No")
		}
	default:
		if unitField, ok := unitOf[base]; ok && isLoad {
			value = strings.TrimSpace(value + " " + d.Value(LoadField(index, unitField)))
		} else if Choices(base) != nil {
			value = tr("option."+value, value)
		}
	}

	return SummaryLine{Field: field, Label: label, Value: value}, true
}

// FormatSummary returns the review as plain text, one block per step
func FormatSummary(sections []SummarySection) string {
	var b strings.Builder

	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("=== %s ===\n", section.Title))
		if len(section.Lines) == 0 {
			b.WriteString("(nothing entered)\n")
			continue
		}
		width := 0
		for _, line := range section.Lines {
			if n := len([]rune(line.Label)); n > width {
				width = n
			}
		}
		for _, line := range section.Lines {
			pad := width - len([]rune(line.Label))
			b.WriteString(fmt.Sprintf("%s:%s %s\n", line.Label, strings.Repeat(" ", pad), line.Value))
		}
	}

	return b.String()
}
