// Package refdata supplies the read-only reference lists the wizard picks from:
// countries, ports (including airports and rail terminals) and currencies.
//
// The default data set is embedded YAML. Lists are returned sorted by name and
// must be treated as immutable by callers.
package refdata

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/muurk/freightform/internal/picker"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Country is a destination or origin country
type Country struct {
	Code        string `yaml:"code"`         // ISO 3166-1 alpha-2
	Name        string `yaml:"name"`         // English display name
	Flag        string `yaml:"flag"`         // Emoji flag
	PhonePrefix string `yaml:"phone_prefix"` // International dialing prefix (e.g., "+33")
}

// PortType distinguishes sea ports from airports and rail terminals
type PortType string

const (
	PortSea  PortType = "sea"
	PortAir  PortType = "air"
	PortRail PortType = "rail"
)

// Port is a sea port, airport or rail terminal
type Port struct {
	Code   string   `yaml:"code"`   // UN/LOCODE
	Name   string   `yaml:"name"`   // Display name
	Region string   `yaml:"region"` // Region within the country
	Type   PortType `yaml:"type"`
	Volume int      `yaml:"volume"` // Relative traffic rank
	Flag   string   `yaml:"flag"`   // Filled from the owning country on load
}

// Currency is an ISO 4217 currency
type Currency struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
	Flag string `yaml:"flag"`
}

// Provider is the read-only reference data source consumed by the wizard
type Provider interface {
	Countries() []Country
	Country(code string) (Country, bool)
	Ports(country string) []Port
	Port(country, code string) (Port, bool)
	Currencies() []Currency
	Currency(code string) (Currency, bool)
}

// Catalog is an in-memory Provider
type Catalog struct {
	countries  []Country
	ports      map[string][]Port
	currencies []Currency
}

type countriesFile struct {
	Countries []Country `yaml:"countries"`
}

type portsFile struct {
	Ports map[string][]Port `yaml:"ports"`
}

type currenciesFile struct {
	Currencies []Currency `yaml:"currencies"`
}

// Load parses the embedded data set
func Load() (*Catalog, error) {
	var cf countriesFile
	if err := readYAML("data/countries.yaml", &cf); err != nil {
		return nil, err
	}
	var pf portsFile
	if err := readYAML("data/ports.yaml", &pf); err != nil {
		return nil, err
	}
	var uf currenciesFile
	if err := readYAML("data/currencies.yaml", &uf); err != nil {
		return nil, err
	}
	return NewCatalog(cf.Countries, pf.Ports, uf.Currencies), nil
}

// MustLoad is Load for program start-up, where embedded data failing to parse is a build defect
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func readYAML(name string, out interface{}) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// NewCatalog builds a catalog from explicit lists, sorting each by name
func NewCatalog(countries []Country, ports map[string][]Port, currencies []Currency) *Catalog {
	c := &Catalog{
		countries:  append([]Country(nil), countries...),
		ports:      make(map[string][]Port, len(ports)),
		currencies: append([]Currency(nil), currencies...),
	}
	sort.SliceStable(c.countries, func(i, j int) bool { return c.countries[i].Name < c.countries[j].Name })
	sort.SliceStable(c.currencies, func(i, j int) bool { return c.currencies[i].Name < c.currencies[j].Name })

	flags := lo.SliceToMap(c.countries, func(ct Country) (string, string) { return ct.Code, ct.Flag })
	for country, list := range ports {
		country = strings.ToUpper(country)
		copied := append([]Port(nil), list...)
		for i := range copied {
			if copied[i].Flag == "" {
				copied[i].Flag = flags[country]
			}
		}
		sort.SliceStable(copied, func(i, j int) bool { return copied[i].Name < copied[j].Name })
		c.ports[country] = copied
	}
	return c
}

// Countries returns all countries sorted by name
func (c *Catalog) Countries() []Country {
	return c.countries
}

// Country looks up a country by ISO code
func (c *Catalog) Country(code string) (Country, bool) {
	return lo.Find(c.countries, func(ct Country) bool { return ct.Code == strings.ToUpper(code) })
}

// Ports returns the ports of a country sorted by name; nil when none are known
func (c *Catalog) Ports(country string) []Port {
	return c.ports[strings.ToUpper(country)]
}

// Port looks up a port by country and code
func (c *Catalog) Port(country, code string) (Port, bool) {
	return lo.Find(c.Ports(country), func(p Port) bool { return p.Code == strings.ToUpper(code) })
}

// Currencies returns all currencies sorted by name
func (c *Catalog) Currencies() []Currency {
	return c.currencies
}

// Currency looks up a currency by ISO code
func (c *Catalog) Currency(code string) (Currency, bool) {
	return lo.Find(c.currencies, func(cu Currency) bool { return cu.Code == strings.ToUpper(code) })
}

// CountryName returns the display name for code, or the raw code when unknown
func (c *Catalog) CountryName(code string) string {
	if ct, ok := c.Country(code); ok {
		return ct.Name
	}
	return code
}

// PortName returns the display name for a port, or the raw code when unknown
func (c *Catalog) PortName(country, code string) string {
	if p, ok := c.Port(country, code); ok {
		return p.Name
	}
	return code
}

// CurrencyName returns the display name for code, or the raw code when unknown
func (c *Catalog) CurrencyName(code string) string {
	if cu, ok := c.Currency(code); ok {
		return cu.Name
	}
	return code
}

// CountryOptions converts countries to picker options with the flag in the label
func CountryOptions(countries []Country) []picker.Option {
	return lo.Map(countries, func(ct Country, _ int) picker.Option {
		return picker.Option{Key: ct.Code, Label: ct.Flag + " " + ct.Name}
	})
}

// PhonePrefixOptions converts countries to phone prefix options ("🇫🇷 France +33")
func PhonePrefixOptions(countries []Country) []picker.Option {
	return lo.Map(countries, func(ct Country, _ int) picker.Option {
		return picker.Option{Key: ct.Code, Label: ct.Flag + " " + ct.Name + " " + ct.PhonePrefix}
	})
}

// PortOptions converts ports to picker options, grouped by port type
func PortOptions(ports []Port) []picker.Option {
	return lo.Map(ports, func(p Port, _ int) picker.Option {
		label := p.Name
		if p.Region != "" {
			label += " (" + p.Region + ")"
		}
		return picker.Option{Key: p.Code, Label: label, Icon: p.Flag, Group: string(p.Type)}
	})
}

// CurrencyOptions converts currencies to picker options ("EUR Euro")
func CurrencyOptions(currencies []Currency) []picker.Option {
	return lo.Map(currencies, func(cu Currency, _ int) picker.Option {
		return picker.Option{Key: cu.Code, Label: cu.Code + " " + cu.Name, Icon: cu.Flag}
	})
}
