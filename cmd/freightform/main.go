// Freightform collects freight quote requests from the terminal.
//
// Running without arguments launches the interactive wizard, which walks the
// user through destination, origin, cargo, goods and contact details and then
// delivers the lead to the configured webhook. The subcommands cover scripted
// use: browsing reference data, checking a lead file and submitting it.
//
// Usage:
//
//	freightform [command] [flags]
//
// See 'freightform --help' for available commands.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/muurk/freightform/internal/config"
	"github.com/muurk/freightform/internal/logging"
	"github.com/muurk/freightform/internal/version"
)

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	overrides  config.Overrides

	// fallbackLogFile is used when neither flags, file nor environment name one
	fallbackLogFile string
)

var rootCmd = &cobra.Command{
	Use:   "freightform",
	Short: "Freight quote request wizard",
	Long: `Collect a freight quote request and send it to the sales team.

The interactive wizard asks where the goods are going, where they are picked
up, how they are packed and who to contact, then delivers the request to the
configured webhook. Without a webhook the request is only logged.

If no command is specified, the interactive wizard will launch automatically.`,
	Version: version.Version,
	Example: `  # Launch the wizard
  freightform

  # Launch the wizard in French with goods leaving Vietnam
  freightform --lang fr --origin VN

  # Look up a destination port
  freightform ports FR havre

  # Check and send a request prepared in a file
  freightform validate --file lead.yaml
  freightform submit --file lead.yaml --webhook https://hooks.example.com/quote`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run wizard when no subcommand provided
		return runWizard(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default: user config directory)")
	rootCmd.PersistentFlags().StringVar(&overrides.Language, "lang", "", "Interface language (e.g., en, fr, de)")
	rootCmd.PersistentFlags().StringVar(&overrides.OriginCountry, "origin", "", "Origin country ISO code")
	rootCmd.PersistentFlags().StringVar(&overrides.WebhookURL, "webhook", "", "Webhook URL leads are delivered to")
	rootCmd.PersistentFlags().StringVar(&overrides.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&overrides.LogFile, "log-file", "", "Log file (the wizard needs one to log)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("freightform %s\n", version.Full())
	},
}

// loadSettings reads the configuration file, applies the command line
// overrides and starts logging
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	settings.Apply(overrides)
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if settings.LogFile == "" && os.Getenv(logging.LogFileEnvVar) == "" && fallbackLogFile != "" {
		settings.LogFile = fallbackLogFile
		if settings.LogLevel != "" || os.Getenv(logging.LogLevelEnvVar) != "" {
			if err := os.MkdirAll(filepath.Dir(fallbackLogFile), 0o700); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
	}
	if err := logging.Initialize(settings.LogLevel, settings.LogFile); err != nil {
		return nil, err
	}
	return settings, nil
}
