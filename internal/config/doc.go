// Package config provides user configuration management for freightform.
//
// This package manages a YAML configuration file holding the interface
// language, the fixed origin country, the webhook leads are delivered to and
// the dropdown search timing. The file follows OS-specific conventions for
// its storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/freightform/config.yaml or $HOME/.config/freightform/config.yaml
//   - macOS: $HOME/.config/freightform/config.yaml
//   - Windows: %LOCALAPPDATA%\freightform\config.yaml
//
// FREIGHTFORM_CONFIG points at another file, e.g. one shared by several
// kiosks. An explicit path passed to Load wins over both.
//
// # Usage Example
//
//	settings, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Command line flags win over the file
//	settings.Apply(config.Overrides{Language: "fr"})
//	if err := settings.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// There is no global instance; callers load Settings explicitly and pass
// them on. Save is protected by a mutex and writes atomically.
package config
