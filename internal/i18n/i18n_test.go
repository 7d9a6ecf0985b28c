package i18n

import (
	"testing"
)

func testCatalog() *Catalog {
	return NewCatalog(map[string]map[string]string{
		"en": {
			"action.next":  "Next",
			"action.back":  "Back",
			"field.email":  "Email",
			"status.blank": "",
		},
		"fr": {
			"action.next": "Suivant",
		},
		"de": {
			"action.next": "Weiter",
		},
	}, "en")
}

func TestResolveFallbackChain(t *testing.T) {
	c := testCatalog()

	tests := []struct {
		name     string
		lang     string
		key      string
		fallback string
		want     string
	}{
		{"active language has key", "fr", "action.next", "x", "Suivant"},
		{"region tag matches base language", "fr-CA", "action.next", "x", "Suivant"},
		{"missing key falls back to default language", "fr", "action.back", "x", "Back"},
		{"missing everywhere falls back to literal", "fr", "action.unknown", "literal", "literal"},
		{"unsupported language uses default", "ja", "action.next", "x", "Next"},
		{"unparseable tag uses default", "not a tag!!", "action.next", "x", "Next"},
		{"empty tag uses default", "", "field.email", "x", "Email"},
		{"empty translation counts as missing", "en", "status.blank", "literal", "literal"},
		{"default language directly", "en-GB", "action.back", "x", "Back"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Resolve(tt.lang, tt.key, tt.fallback)
			if got != tt.want {
				t.Errorf("Resolve(%q, %q, %q) = %q, want %q", tt.lang, tt.key, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestResolveNilCatalog(t *testing.T) {
	var c *Catalog
	if got := c.Resolve("fr", "action.next", "Next"); got != "Next" {
		t.Errorf("nil catalog Resolve() = %q, want literal fallback", got)
	}
	if c.Has("fr", "action.next") {
		t.Error("nil catalog Has() = true")
	}
}

func TestMatch(t *testing.T) {
	c := testCatalog()

	tests := []struct {
		lang string
		want string
	}{
		{"fr", "fr"},
		{"fr-BE", "fr"},
		{"de-AT", "de"},
		{"en-US", "en"},
		{"zz", "en"},
		{"", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			if got := c.Match(tt.lang); got != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.lang, got, tt.want)
			}
		})
	}
}

func TestLanguagesDefaultFirst(t *testing.T) {
	langs := testCatalog().Languages()
	if len(langs) != 3 || langs[0] != "en" {
		t.Errorf("Languages() = %v, want en first", langs)
	}
}

func TestTranslator(t *testing.T) {
	tr := For(testCatalog(), "fr")
	if got := tr("action.next", "Next"); got != "Suivant" {
		t.Errorf("tr(action.next) = %q", got)
	}

	var nilLocalizer Localizer
	if got := For(nilLocalizer, "fr")("action.next", "Next"); got != "Next" {
		t.Errorf("nil localizer translator = %q, want fallback", got)
	}
}

func TestEmbeddedLocales(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	langs := c.Languages()
	if langs[0] != DefaultLanguage {
		t.Errorf("Languages()[0] = %q, want %q", langs[0], DefaultLanguage)
	}

	// Every key in a translated table must exist in the default table
	for lang, table := range c.tables {
		for key := range table {
			if _, ok := c.tables[DefaultLanguage][key]; !ok {
				t.Errorf("%s defines %q which is missing from %s", lang, key, DefaultLanguage)
			}
		}
	}

	if got := c.Resolve("fr", "action.next", ""); got != "Suivant" {
		t.Errorf("fr action.next = %q", got)
	}
	// de has no phase titles and falls back to English
	if got := c.Resolve("de", "phase.contact.notes", ""); got != "Notes" {
		t.Errorf("de phase.contact.notes = %q, want English fallback", got)
	}
}
