package picker

import (
	"golang.org/x/text/language"
)

// countryPriority lists the countries shown first for each interface language
var countryPriority = map[string][]string{
	"en": {"GB", "US", "CA", "AU", "IE", "NZ"},
	"fr": {"FR", "BE", "CH", "CA", "LU", "MC"},
	"de": {"DE", "AT", "CH", "LU", "LI"},
	"es": {"ES", "MX", "AR", "CO", "CL", "PE"},
	"it": {"IT", "CH", "SM", "VA"},
	"nl": {"NL", "BE", "SR"},
	"pt": {"PT", "BR", "AO", "MZ"},
}

// PriorityFor returns the priority country codes for a language tag such as "fr" or "fr-CA".
// Unknown or malformed tags yield nil, which means plain source order.
func PriorityFor(lang string) []string {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil
	}
	base, _ := tag.Base()
	keys, ok := countryPriority[base.String()]
	if !ok {
		return nil
	}
	return append([]string(nil), keys...)
}
