package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "freightform"
	configFile = "config.yaml"
)

// ConfigEnvVar names a configuration file used instead of the default
// location, e.g. a file shared by every kiosk of a sales office.
// The --config flag still takes precedence.
const ConfigEnvVar = "FREIGHTFORM_CONFIG"

// Serialises writers within the process
var fileMutex sync.Mutex

// GetConfigDir returns the per-user configuration directory:
//   - Linux: $XDG_CONFIG_HOME/freightform or $HOME/.config/freightform
//   - macOS: $HOME/.config/freightform
//   - Windows: %LOCALAPPDATA%\freightform
func GetConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		return windowsConfigDir()
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" && runtime.GOOS != "darwin" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

func windowsConfigDir() (string, error) {
	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		return filepath.Join(local, appName), nil
	}
	profile := os.Getenv("USERPROFILE")
	if profile == "" {
		return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
	}
	return filepath.Join(profile, "AppData", "Local", appName), nil
}

// GetConfigPath returns the configuration file in use when no path is given:
// $FREIGHTFORM_CONFIG, or config.yaml in GetConfigDir.
func GetConfigPath() (string, error) {
	if path := os.Getenv(ConfigEnvVar); path != "" {
		return path, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// resolvePath returns path, or the default location when path is empty
func resolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	resolved, err := GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	return resolved, nil
}

// Load reads the settings at path (the default location when empty).
// A missing file yields the defaults, so a fresh install runs without setup.
func Load(path string) (*Settings, error) {
	configPath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return NewSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	if settings.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", settings.Version, CurrentVersion)
	}

	settings.fillDefaults()
	return &settings, nil
}

// Save writes the settings to path (the default location when empty).
// The file is replaced atomically and readable by the user only, since
// webhook headers may carry tokens.
func (s *Settings) Save(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	configPath, err := resolvePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	body, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	header := "# freightform configuration file\n" +
		"# Leads are posted to webhook.url; without it they are only logged.\n" +
		"#\n" +
		"# Location: " + configPath + "\n\n"

	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, append([]byte(header), body...), 0o600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// CreateDefaultConfig writes the default settings to path unless a file
// already exists there. Returns the path written.
func CreateDefaultConfig(path string) (string, error) {
	configPath, err := resolvePath(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists at %s", configPath)
	}
	if err := NewSettings().Save(configPath); err != nil {
		return "", err
	}
	return configPath, nil
}

// Marshal returns the settings as YAML
func (s *Settings) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
