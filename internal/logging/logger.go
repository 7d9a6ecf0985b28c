package logging

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "FREIGHTFORM_LOG_LEVEL"

// LogFileEnvVar names a file to write logs to instead of stderr.
// The wizard owns the terminal, so interactive sessions should log to a file.
const LogFileEnvVar = "FREIGHTFORM_LOG_FILE"

// maxSnippet bounds response bodies and free text copied into log fields
const maxSnippet = 256

// Initialize creates a new logger with the specified level and output file.
// If level is empty, it checks FREIGHTFORM_LOG_LEVEL; if file is empty, it
// checks FREIGHTFORM_LOG_FILE and otherwise writes to stderr.
// If no level is set anywhere, logging is disabled (silent mode).
func Initialize(level, file string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if file == "" {
		file = os.Getenv(LogFileEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	zapLevel, err := ParseLevel(level)
	if err != nil {
		// Unknown level - use info as default when explicitly set to something
		zapLevel = zapcore.InfoLevel
	}

	output := "stderr"
	if file != "" {
		output = file
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if file == "" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// InitializeFromEnv initializes the logger from FREIGHTFORM_LOG_LEVEL and
// FREIGHTFORM_LOG_FILE. Silent unless the level variable is set.
func InitializeFromEnv() error {
	return Initialize("", "")
}

// ParseLevel maps a level name onto a zap level
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// SetLogger replaces the global logger (tests use zaptest/observer cores)
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		// This ensures no unexpected log output in CLI commands
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogFieldChange logs a form field mutation. Only the field name and its new
// validity are recorded; values are personal data and stay out of the log.
func LogFieldChange(field string, validity string) {
	Debug("Field changed",
		zap.String("field", field),
		zap.String("validity", validity),
	)
}

// LogFieldsCleared logs fields reset as a side effect of another change
func LogFieldsCleared(cause string, fields []string) {
	Debug("Dependent fields cleared",
		zap.String("cause", cause),
		zap.Strings("fields", fields),
	)
}

// LogTransition logs a step transition
func LogTransition(from, to string, subStep int) {
	Info("Step transition",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int("sub_step", subStep),
	)
}

// LogTransitionBlocked logs a refused transition together with what is missing
func LogTransitionBlocked(step string, missing []string) {
	Debug("Step transition blocked",
		zap.String("step", step),
		zap.Strings("missing", missing),
	)
}

// LogSubmission logs one webhook delivery attempt
func LogSubmission(submissionID string, attempt int, statusCode int, body []byte, err error) {
	fields := []zap.Field{
		zap.String("submission_id", submissionID),
		zap.Int("attempt", attempt),
		zap.Int("status_code", statusCode),
	}
	if len(body) > 0 {
		fields = append(fields, zap.String("body", Snippet(string(body))))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
		Warn("Submission attempt failed", fields...)
		return
	}
	Info("Submission delivered", fields...)
}

// LogPlacement logs a dropdown placement decision
func LogPlacement(pickerID string, reason string, above, shiftLeft, shiftRight bool) {
	Debug("Dropdown placement",
		zap.String("picker", pickerID),
		zap.String("reason", reason),
		zap.Bool("show_above", above),
		zap.Bool("shift_left", shiftLeft),
		zap.Bool("shift_right", shiftRight),
	)
}

// Snippet shortens s to at most maxSnippet bytes on a rune boundary and
// replaces control characters so multi-line bodies stay on one log line.
func Snippet(s string) string {
	truncated := false
	if len(s) > maxSnippet {
		cut := maxSnippet
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
		truncated = true
	}

	s = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return '.'
		}
		return r
	}, s)

	if truncated {
		return s + "..."
	}
	return s
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
