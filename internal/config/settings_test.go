package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
		configDir, err := GetConfigDir()
		if err != nil {
			t.Fatalf("GetConfigDir() error = %v", err)
		}
		if configDir != filepath.Join("/tmp/xdg-test", "freightform") {
			t.Errorf("GetConfigDir() = %v, want XDG based path", configDir)
		}
	}

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestConfigEnvVarOverridesDefaultPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiosk.yaml")
	t.Setenv(ConfigEnvVar, path)

	got, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if got != path {
		t.Errorf("GetConfigPath() = %q, want %q", got, path)
	}

	s := NewSettings()
	s.Source = "kiosk"
	if err := s.Save(""); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Source != "kiosk" {
		t.Errorf("Source = %q, want kiosk", loaded.Source)
	}
}

func TestNewSettings(t *testing.T) {
	s := NewSettings()

	if s.Version != CurrentVersion {
		t.Errorf("Version = %v, want %d", s.Version, CurrentVersion)
	}
	if s.Language != "en" || s.OriginCountry != "CN" {
		t.Errorf("Language/OriginCountry = %s/%s", s.Language, s.OriginCountry)
	}
	if s.Debounce() != 200*time.Millisecond {
		t.Errorf("Debounce() = %v, want 200ms", s.Debounce())
	}
	if s.Timeout() != 15*time.Second {
		t.Errorf("Timeout() = %v, want 15s", s.Timeout())
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should be valid: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Language != "en" {
		t.Errorf("Language = %q, want defaults", s.Language)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	s := NewSettings()
	s.Language = "fr"
	s.OriginCountry = "VN"
	s.Webhook.URL = "https://hooks.example.com/quote"
	s.Webhook.Headers = map[string]string{"Authorization": "Bearer token"}
	s.PriorityCodes = []string{"FR", "BE"}

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Language != "fr" || loaded.OriginCountry != "VN" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.WebhookURL() != "https://hooks.example.com/quote" {
		t.Errorf("WebhookURL() = %q", loaded.WebhookURL())
	}
	if loaded.Webhook.Headers["Authorization"] != "Bearer token" {
		t.Errorf("headers = %v", loaded.Webhook.Headers)
	}
	if len(loaded.PriorityCodes) != 2 {
		t.Errorf("PriorityCodes = %v", loaded.PriorityCodes)
	}
}

func TestLoadFillsMissingSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "version: 1\norigin_country: de\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.OriginCountry != "DE" {
		t.Errorf("OriginCountry = %q, want DE", s.OriginCountry)
	}
	if s.Webhook == nil || s.Search == nil || s.Language != "en" {
		t.Errorf("missing sections should get defaults: %+v", s)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "version: [1\n", "failed to parse"},
		{"wrong version", "version: 2\n", "unsupported config version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"https webhook", func(s *Settings) { s.Webhook.URL = "https://hooks.example.com" }, false},
		{"relative webhook", func(s *Settings) { s.Webhook.URL = "hooks.example.com" }, true},
		{"bad origin", func(s *Settings) { s.OriginCountry = "CHN" }, true},
		{"bad log level", func(s *Settings) { s.LogLevel = "loud" }, true},
		{"debug log level", func(s *Settings) { s.LogLevel = "debug" }, false},
		{"negative retries", func(s *Settings) { s.Webhook.MaxRetries = -1 }, true},
		{"wrong version", func(s *Settings) { s.Version = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSettings()
			tt.modify(s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApply(t *testing.T) {
	s := NewSettings()
	s.LogFile = "/var/log/ff.log"

	s.Apply(Overrides{Language: "de", OriginCountry: " vn", WebhookURL: "http://localhost:9000"})

	if s.Language != "de" || s.OriginCountry != "VN" || s.WebhookURL() != "http://localhost:9000" {
		t.Errorf("Apply() = %+v", s)
	}
	if s.LogFile != "/var/log/ff.log" {
		t.Error("empty overrides must keep file values")
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	written, err := CreateDefaultConfig(path)
	if err != nil || written != path {
		t.Fatalf("CreateDefaultConfig() = %q, %v", written, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# freightform configuration file") {
		t.Errorf("file should start with the header comment:\n%s", data)
	}

	if _, err := CreateDefaultConfig(path); err == nil {
		t.Error("CreateDefaultConfig() should not overwrite an existing file")
	}
}
