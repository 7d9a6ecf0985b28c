package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/muurk/freightform/internal/logging"
)

// CurrentVersion is the configuration file format version
const CurrentVersion = 1

// Settings represents the entire user configuration file.
type Settings struct {
	Version       int      `yaml:"version"`
	Language      string   `yaml:"language"`                 // BCP-47 tag of the interface language
	OriginCountry string   `yaml:"origin_country"`           // ISO code of the fixed pickup country
	Source        string   `yaml:"source,omitempty"`         // Sent with every lead (e.g., "website-kiosk")
	Webhook       *Webhook `yaml:"webhook,omitempty"`        // Where finished leads are delivered
	Search        *Search  `yaml:"search,omitempty"`         // Dropdown search behaviour
	LogLevel      string   `yaml:"log_level,omitempty"`      // debug, info, warn or error; empty disables logging
	LogFile       string   `yaml:"log_file,omitempty"`       // Log destination while the wizard owns the terminal
	PriorityCodes []string `yaml:"priority_codes,omitempty"` // Country codes listed first, overriding the language default
}

// Webhook configures lead delivery.
// Note: headers may carry tokens, so the file is written with user-only permissions.
type Webhook struct {
	URL            string            `yaml:"url"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	MaxRetries     int               `yaml:"max_retries"`
	Headers        map[string]string `yaml:"headers,omitempty"`
}

// Search configures the searchable dropdowns
type Search struct {
	DebounceMillis int `yaml:"debounce_ms"` // Delay before a typed query is applied
	Suggestions    int `yaml:"suggestions"` // "Did you mean" entries shown on no results
}

// Overrides holds command line values that take precedence over the file.
// Empty fields leave the file value alone.
type Overrides struct {
	Language      string
	OriginCountry string
	WebhookURL    string
	LogLevel      string
	LogFile       string
}

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:       CurrentVersion,
		Language:      "en",
		OriginCountry: "CN",
		Webhook:       defaultWebhook(),
		Search:        defaultSearch(),
	}
}

func defaultWebhook() *Webhook {
	return &Webhook{TimeoutSeconds: 15, MaxRetries: 3}
}

func defaultSearch() *Search {
	return &Search{DebounceMillis: 200, Suggestions: 3}
}

// fillDefaults completes sections missing from a loaded file
func (s *Settings) fillDefaults() {
	if s.Language == "" {
		s.Language = "en"
	}
	if s.Webhook == nil {
		s.Webhook = defaultWebhook()
	}
	if s.Webhook.TimeoutSeconds <= 0 {
		s.Webhook.TimeoutSeconds = defaultWebhook().TimeoutSeconds
	}
	if s.Search == nil {
		s.Search = defaultSearch()
	}
	if s.Search.DebounceMillis <= 0 {
		s.Search.DebounceMillis = defaultSearch().DebounceMillis
	}
	s.OriginCountry = strings.ToUpper(strings.TrimSpace(s.OriginCountry))
}

// Apply copies every non-empty override into s
func (s *Settings) Apply(o Overrides) {
	if o.Language != "" {
		s.Language = o.Language
	}
	if o.OriginCountry != "" {
		s.OriginCountry = strings.ToUpper(strings.TrimSpace(o.OriginCountry))
	}
	if o.WebhookURL != "" {
		if s.Webhook == nil {
			s.Webhook = defaultWebhook()
		}
		s.Webhook.URL = o.WebhookURL
	}
	if o.LogLevel != "" {
		s.LogLevel = o.LogLevel
	}
	if o.LogFile != "" {
		s.LogFile = o.LogFile
	}
}

// Validate checks the settings for values the application cannot use.
// An empty webhook URL is allowed: leads are then only logged.
func (s *Settings) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", s.Version, CurrentVersion)
	}
	if len(s.OriginCountry) != 2 {
		return fmt.Errorf("origin_country must be a two-letter ISO code, got %q", s.OriginCountry)
	}
	if s.LogLevel != "" {
		if _, err := logging.ParseLevel(s.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level: %w", err)
		}
	}
	if s.Webhook != nil && s.Webhook.URL != "" {
		u, err := url.Parse(s.Webhook.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("webhook.url must be an http(s) URL, got %q", s.Webhook.URL)
		}
	}
	if s.Webhook != nil && s.Webhook.MaxRetries < 0 {
		return fmt.Errorf("webhook.max_retries must not be negative")
	}
	return nil
}

// Timeout returns the webhook request timeout
func (s *Settings) Timeout() time.Duration {
	if s.Webhook == nil || s.Webhook.TimeoutSeconds <= 0 {
		return time.Duration(defaultWebhook().TimeoutSeconds) * time.Second
	}
	return time.Duration(s.Webhook.TimeoutSeconds) * time.Second
}

// Debounce returns the dropdown search delay
func (s *Settings) Debounce() time.Duration {
	if s.Search == nil || s.Search.DebounceMillis <= 0 {
		return time.Duration(defaultSearch().DebounceMillis) * time.Millisecond
	}
	return time.Duration(s.Search.DebounceMillis) * time.Millisecond
}

// WebhookURL returns the configured delivery URL, "" when none
func (s *Settings) WebhookURL() string {
	if s.Webhook == nil {
		return ""
	}
	return s.Webhook.URL
}
