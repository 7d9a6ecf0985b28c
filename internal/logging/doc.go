// Package logging provides structured logging for freightform.
//
// This package wraps a global zap logger with convenience functions for the
// events the wizard and the submission client care about: field changes,
// step transitions, dropdown placement and webhook deliveries.
//
// # Log Levels
//
//   - Debug: field changes, placement decisions, blocked transitions
//   - Info: step transitions, successful submissions
//   - Warn: failed delivery attempts, retries
//   - Error: unrecoverable failures
//
// # Silent by Default
//
// Nothing is logged unless FREIGHTFORM_LOG_LEVEL (or --log-level) is set.
// The wizard draws on the terminal, so interactive sessions should also set
// FREIGHTFORM_LOG_FILE (or --log-file):
//
//	if err := logging.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Personal Data
//
// Lead forms carry names, emails and phone numbers. LogFieldChange records
// the field name and validity only, never the value.
package logging
