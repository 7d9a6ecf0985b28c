// Package i18n resolves translation keys to display text.
//
// Tables are flat key/value YAML files embedded from locales/, one per base
// language. Resolve falls back from the requested language to the default
// language and finally to the caller's literal, so a missing key or an
// unparseable tag never surfaces as an error.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

// DefaultLanguage is consulted when the active language lacks a key
const DefaultLanguage = "en"

// Localizer is the lookup contract consumed by the form and the wizard
type Localizer interface {
	Resolve(lang, key, fallback string) string
}

// Catalog holds the translation tables for every supported language
type Catalog struct {
	tables  map[string]map[string]string
	def     string
	tags    []language.Tag
	bases   []string
	matcher language.Matcher
}

// Load reads the embedded locale tables
func Load() (*Catalog, error) {
	entries, err := localesFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to list locales: %w", err)
	}

	tables := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".yaml" {
			continue
		}
		data, err := localesFS.ReadFile("locales/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", name, err)
		}
		table := make(map[string]string)
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", name, err)
		}
		tables[strings.TrimSuffix(name, ".yaml")] = table
	}

	return NewCatalog(tables, DefaultLanguage), nil
}

// MustLoad is Load for program start-up
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog builds a catalog from in-memory tables keyed by base language
func NewCatalog(tables map[string]map[string]string, defaultLang string) *Catalog {
	c := &Catalog{
		tables: tables,
		def:    defaultLang,
	}

	// The matcher falls back to its first tag, so the default goes first
	bases := make([]string, 0, len(tables))
	for lang := range tables {
		if lang != defaultLang {
			bases = append(bases, lang)
		}
	}
	sort.Strings(bases)
	bases = append([]string{defaultLang}, bases...)

	for _, b := range bases {
		tag, err := language.Parse(b)
		if err != nil {
			continue
		}
		c.tags = append(c.tags, tag)
		c.bases = append(c.bases, b)
	}
	c.matcher = language.NewMatcher(c.tags)
	return c
}

// Languages returns the supported base languages, default first
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.bases...)
}

// Match maps a BCP-47 tag onto a supported base language ("fr-CA" → "fr").
// Unparseable or unsupported tags map to the default language.
func (c *Catalog) Match(lang string) string {
	if c == nil || len(c.tags) == 0 {
		return DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return c.def
	}
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(c.bases) {
		return c.def
	}
	return c.bases[idx]
}

// Resolve returns the text for key in lang, then in the default language,
// then fallback. It never fails.
func (c *Catalog) Resolve(lang, key, fallback string) string {
	if c == nil {
		return fallback
	}
	if text, ok := c.lookup(c.Match(lang), key); ok {
		return text
	}
	if text, ok := c.lookup(c.def, key); ok {
		return text
	}
	return fallback
}

// Has reports whether lang's own table (not the fallback chain) defines key
func (c *Catalog) Has(lang, key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.lookup(c.Match(lang), key)
	return ok
}

func (c *Catalog) lookup(lang, key string) (string, bool) {
	table, ok := c.tables[lang]
	if !ok {
		return "", false
	}
	text, ok := table[key]
	if !ok || text == "" {
		return "", false
	}
	return text, true
}

// Translator resolves keys for one fixed language
type Translator func(key, fallback string) string

// For binds a localizer to a language
func For(l Localizer, lang string) Translator {
	return func(key, fallback string) string {
		if l == nil {
			return fallback
		}
		return l.Resolve(lang, key, fallback)
	}
}
