package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/muurk/freightform/internal/config"
	"github.com/muurk/freightform/internal/i18n"
	"github.com/muurk/freightform/internal/leadform"
	"github.com/muurk/freightform/internal/logging"
	"github.com/muurk/freightform/internal/picker"
	"github.com/muurk/freightform/internal/refdata"
	"github.com/muurk/freightform/internal/submit"
	"github.com/muurk/freightform/internal/ui"
	"github.com/muurk/freightform/internal/version"
	"github.com/muurk/freightform/internal/wizard/tui"
)

// Command flags
var (
	leadFile  string
	assumeYes bool
	forceInit bool
	showYAML  bool
)

func init() {
	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(countriesCmd)
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(configCmd)
}

// signalContext returns a context cancelled on interrupt
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// newTransport returns the webhook client for settings, or a dry transport
// that only logs when no webhook is configured
func newTransport(settings *config.Settings) (leadform.Transport, bool, error) {
	if settings.WebhookURL() == "" {
		return &submit.Dry{}, true, nil
	}

	client := submit.NewClient(settings.WebhookURL())
	client.SetTimeout(settings.Timeout())
	client.SetRetry(settings.Webhook.MaxRetries, submit.DefaultRetryDelay)
	for k, v := range settings.Webhook.Headers {
		client.SetHeader(k, v)
	}
	if err := client.Validate(); err != nil {
		return nil, false, err
	}
	return client, false, nil
}

// submitBudget bounds a whole delivery: every attempt plus the backoff
// between them
func submitBudget(settings *config.Settings) time.Duration {
	retries := settings.Webhook.MaxRetries
	return settings.Timeout()*time.Duration(retries+1) + submit.DefaultRetryDelay<<retries
}

// newSequencer creates the store and sequencer for one session
func newSequencer(settings *config.Settings, catalog *refdata.Catalog) *leadform.Sequencer {
	store := leadform.NewStore(leadform.Options{
		OriginCountry: settings.OriginCountry,
		Language:      settings.Language,
		Directory:     catalog,
	})
	seq := leadform.NewSequencer(store)
	seq.Source = version.Source(settings.Source)
	return seq
}

// wizardCmd launches the interactive TUI wizard
var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Launch the interactive quote request wizard",
	Long: `Launch the interactive wizard that collects a freight quote request.

The wizard asks for the destination, the pickup location, the cargo, the
goods and the contact details, one step at a time. A step can only be left
once its required fields are valid. The last step summarises the request
and sends it.

While the wizard owns the terminal, logs are written to a file: the one
given with --log-file, or freightform.log in the configuration directory.`,
	Example: `  # Launch the wizard
  freightform wizard
  # Or simply (wizard is default):
  freightform

  # Debug logging while using the wizard
  freightform --log-level debug --log-file /tmp/freightform.log`,
	RunE: runWizard,
}

func runWizard(cmd *cobra.Command, args []string) error {
	// The wizard owns the terminal, so logs must never go to stderr
	fallbackLogFile = filepath.Join(os.TempDir(), "freightform.log")
	if dir, err := config.GetConfigDir(); err == nil {
		fallbackLogFile = filepath.Join(dir, "freightform.log")
	}
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	catalog, err := refdata.Load()
	if err != nil {
		return err
	}
	locales, err := i18n.Load()
	if err != nil {
		return err
	}
	transport, dry, err := newTransport(settings)
	if err != nil {
		return err
	}
	if dry {
		logging.Info("no webhook configured, leads will only be logged")
	}

	ctx, cancel := signalContext()
	defer cancel()

	seq := newSequencer(settings, catalog)
	model := tui.NewAppModel(tui.Config{
		Sequencer:     seq,
		Reference:     catalog,
		Locales:       locales,
		Languages:     locales.Languages(),
		Transport:     transport,
		Debounce:      settings.Debounce(),
		Suggestions:   settings.Search.Suggestions,
		PriorityCodes: settings.PriorityCodes,
		SubmitTimeout: submitBudget(settings),
		Context:       ctx,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("wizard error: %w", err)
	}

	if r := seq.Receipt(); r != nil {
		ui.NewPrinter(os.Stdout).PrintSuccess("Quote request sent",
			ui.Param{Key: "Reference", Value: r.SubmissionID},
			ui.Param{Key: "Sent at", Value: r.SubmittedAt.Local().Format(time.RFC1123)},
		)
	}
	return nil
}

// countriesCmd lists destination countries
var countriesCmd = &cobra.Command{
	Use:   "countries [query]",
	Short: "List destination countries",
	Long: `List the countries a request can be sent to, filtered by an optional query.

Without a query the countries popular for the interface language come first,
exactly as in the wizard's dropdown.`,
	Example: `  # All countries, French priority order
  freightform countries --lang fr

  # Search
  freightform countries united`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCountries,
}

func runCountries(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	catalog, err := refdata.Load()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	priority := settings.PriorityCodes
	if len(priority) == 0 {
		priority = picker.PriorityFor(settings.Language)
	}
	options := picker.Filter(refdata.CountryOptions(catalog.Countries()), query, priority)

	printer := ui.NewPrinter(os.Stdout)
	printer.PrintOptions("Countries", options)
	if len(options) == 0 && query != "" {
		suggestions := picker.Suggest(refdata.CountryOptions(catalog.Countries()), query, settings.Search.Suggestions)
		if len(suggestions) > 0 {
			names := lo.Map(suggestions, func(o picker.Option, _ int) string { return picker.StripEmojiPrefix(o.Label) })
			printer.Println("Did you mean: " + strings.Join(names, ", "))
		}
	}
	return nil
}

// portsCmd lists the ports of a country
var portsCmd = &cobra.Command{
	Use:   "ports <country> [query]",
	Short: "List the ports, airports and rail terminals of a country",
	Example: `  # Every terminal in China
  freightform ports CN

  # Search French ports
  freightform ports fr havre`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPorts,
}

func runPorts(cmd *cobra.Command, args []string) error {
	if _, err := loadSettings(); err != nil {
		return err
	}
	catalog, err := refdata.Load()
	if err != nil {
		return err
	}

	code := strings.ToUpper(strings.TrimSpace(args[0]))
	country, ok := catalog.Country(code)
	if !ok {
		cmd.SilenceUsage = true
		ui.NewPrinter(os.Stdout).PrintFailure("Unknown country", leadform.NewLookupError(leadform.FieldCountry, code),
			"Use a two-letter ISO code, e.g. FR or CN",
			"List the known countries: freightform countries",
		)
		return fmt.Errorf("unknown country %q", code)
	}

	query := ""
	if len(args) > 1 {
		query = args[1]
	}
	options := picker.Filter(refdata.PortOptions(catalog.Ports(code)), query, nil)
	ui.NewPrinter(os.Stdout).PrintOptions("Ports of "+country.Name, options)
	return nil
}

// readLead decodes a lead file. Cargo lines start from the wizard defaults,
// so a file only needs the values that differ.
func readLead(path, originCountry string) (leadform.FormData, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return leadform.FormData{}, fmt.Errorf("failed to read lead file: %w", err)
	}

	data := leadform.NewFormData(originCountry)
	if err := yaml.Unmarshal(content, &data); err != nil {
		return leadform.FormData{}, fmt.Errorf("failed to parse lead file: %w", err)
	}

	var raw struct {
		Loads []yaml.Node `yaml:"loads"`
	}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return leadform.FormData{}, fmt.Errorf("failed to parse lead file: %w", err)
	}
	data.Loads = make([]leadform.LoadDetails, 0, max(1, len(raw.Loads)))
	for i, node := range raw.Loads {
		load := leadform.NewLoad()
		if err := node.Decode(&load); err != nil {
			return leadform.FormData{}, fmt.Errorf("failed to parse cargo line %d: %w", i+1, err)
		}
		data.Loads = append(data.Loads, load)
	}
	if len(data.Loads) == 0 {
		data.Loads = append(data.Loads, leadform.NewLoad())
	}
	return data, nil
}

// validateCmd checks a lead file
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a lead file",
	Long: `Check every relevant field of a lead file against the same rules the
wizard applies, and report implausible values (e.g., a single pallet
weighing more than a full container) as warnings.

The file uses the field names of the request payload:

  country: FR
  destLocationType: port
  destPort: FRLEH
  locationType: factory
  city: Ningbo
  zipCode: "315000"
  loads:
    - shippingType: container
      container: {containerType: "40'HC", numberOfUnits: "2"}
  goodsValue: "12500"
  goodsCurrency: EUR
  ...`,
	Example: `  freightform validate --file lead.yaml`,
	RunE:    runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&leadFile, "file", "f", "", "Lead file (YAML)")
	_ = validateCmd.MarkFlagRequired("file")
}

func runValidate(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	catalog, err := refdata.Load()
	if err != nil {
		return err
	}
	data, err := readLead(leadFile, settings.OriginCountry)
	if err != nil {
		return err
	}

	rules := leadform.Rules{Directory: catalog}
	issues := append(rules.ValidateForm(&data), leadform.CheckPlausibility(&data)...)

	printer := ui.NewPrinter(os.Stdout)
	printer.PrintHeader("Lead validation", "freightform validate",
		ui.Param{Key: "File", Value: leadFile},
		ui.Param{Key: "Cargo lines", Value: strconv.Itoa(len(data.Loads))},
	)
	printer.PrintIssues(issues)

	if _, critical := leadform.SeparateWarningsAndErrors(issues); len(critical) > 0 {
		return fmt.Errorf("lead has %d problem(s)", len(critical))
	}
	return nil
}

// submitCmd sends a lead file
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Send a lead file to the webhook",
	Long: `Send a lead file to the configured webhook, exactly as the wizard would.

The lead is validated first and the summary is shown for confirmation
(skip it with --yes). Without a webhook the payload is only logged.`,
	Example: `  # Send with confirmation
  freightform submit --file lead.yaml --webhook https://hooks.example.com/quote

  # Unattended
  freightform submit --file lead.yaml --yes`,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(&leadFile, "file", "f", "", "Lead file (YAML)")
	submitCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Send without asking for confirmation")
	_ = submitCmd.MarkFlagRequired("file")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	catalog, err := refdata.Load()
	if err != nil {
		return err
	}
	locales, err := i18n.Load()
	if err != nil {
		return err
	}
	data, err := readLead(leadFile, settings.OriginCountry)
	if err != nil {
		return err
	}
	transport, dry, err := newTransport(settings)
	if err != nil {
		return err
	}

	seq := newSequencer(settings, catalog)
	seq.Store().Replace(data)

	printer := ui.NewPrinter(os.Stdout)
	if !assumeYes {
		printer.PrintSummary(leadform.Summarize(data, catalog, i18n.For(locales, settings.Language)))
		destination := settings.WebhookURL()
		if dry {
			destination = "nowhere (no webhook configured, the payload is only logged)"
		}
		if !ui.Confirm(os.Stdin, os.Stdout, "Send quote request", []string{"Destination: " + destination}, "Send this request?") {
			return nil
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Lead submission",
		Command: "freightform submit",
		Params: []ui.Param{
			{Key: "File", Value: leadFile},
			{Key: "Webhook", Value: lo.Ternary(dry, "(none)", settings.WebhookURL())},
		},
		StepNames: []string{"Check required fields", "Deliver request"},
		Troubleshoot: func(err error) []string {
			if missing := leadform.MissingFields(err); len(missing) > 0 {
				return []string{"Fill in: " + strings.Join(lo.Map(missing, func(f leadform.FieldName, _ int) string { return string(f) }), ", "),
					"Check the file: freightform validate --file " + leadFile}
			}
			return hintTips(err)
		},
	})

	_, err = runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) ([]ui.Param, error) {
		onStep(1, ui.StepRunning, "")
		sub, err := seq.Prepare()
		if err != nil {
			onStep(1, ui.StepFailed, err.Error())
			return nil, err
		}
		onStep(1, ui.StepComplete, fmt.Sprintf("%d values", len(sub.Payload)))

		onStep(2, ui.StepRunning, "")
		if err := transport.Send(ctx, sub.Payload); err != nil {
			onStep(2, ui.StepFailed, submit.ShortMessage(err))
			return nil, leadform.NewSubmissionError("failed to send the request", err)
		}
		if dry {
			onStep(2, ui.StepSkipped, "no webhook configured, payload logged")
		} else {
			onStep(2, ui.StepComplete, "")
		}

		receipt := seq.Complete(sub)
		return []ui.Param{
			{Key: "Reference", Value: receipt.SubmissionID},
			{Key: "Language", Value: sub.Meta.Language},
		}, nil
	})
	return err
}

// hintTips turns a delivery hint into troubleshooting tips, one per line
func hintTips(err error) []string {
	var tips []string
	for _, line := range strings.Split(submit.Hint(err), "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "•"))
		if line != "" && line != "Troubleshooting:" {
			tips = append(tips, line)
		}
	}
	return tips
}

// configCmd manages the configuration file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		path := configPath
		if forceInit {
			resolved, err := resolveConfigPath()
			if err != nil {
				return err
			}
			if err := os.Remove(resolved); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove existing config: %w", err)
			}
		}

		written, err := config.CreateDefaultConfig(path)
		if err != nil {
			ui.NewPrinter(os.Stdout).PrintFailure("Configuration not written", err,
				"Use --force to replace the existing file",
			)
			return err
		}
		ui.NewPrinter(os.Stdout).PrintSuccess("Configuration written", ui.Param{Key: "Path", Value: written})
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the settings in effect: the configuration file (--config,
$FREIGHTFORM_CONFIG or the user config directory) with the command line
overrides applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		if showYAML {
			out, err := settings.Marshal()
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		}

		webhook := settings.WebhookURL()
		if webhook == "" {
			webhook = "(none, leads are only logged)"
		}
		ui.NewPrinter(os.Stdout).PrintHeader("Configuration", "freightform config show",
			ui.Param{Key: "File", Value: path},
			ui.Param{Key: "Language", Value: settings.Language},
			ui.Param{Key: "Origin country", Value: settings.OriginCountry},
			ui.Param{Key: "Source", Value: version.Source(settings.Source)},
			ui.Param{Key: "Webhook", Value: webhook},
			ui.Param{Key: "Timeout", Value: settings.Timeout().String()},
			ui.Param{Key: "Max retries", Value: strconv.Itoa(settings.Webhook.MaxRetries)},
			ui.Param{Key: "Search delay", Value: settings.Debounce().String()},
			ui.Param{Key: "Log level", Value: lo.CoalesceOrEmpty(settings.LogLevel, "(silent)")},
		)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Replace an existing configuration file")
	configShowCmd.Flags().BoolVar(&showYAML, "yaml", false, "Print the effective settings as YAML")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

// resolveConfigPath returns --config or the default location
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}
