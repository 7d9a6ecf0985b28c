package leadform

import (
	"fmt"
	"strings"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeValidation indicates a field value or form operation was rejected
	ErrTypeValidation ErrorType = iota
	// ErrTypeTransition indicates a step change was refused
	ErrTypeTransition
	// ErrTypeLookup indicates a code was not found in the reference data
	ErrTypeLookup
	// ErrTypeSubmission indicates the transport failed to deliver the lead
	ErrTypeSubmission
	// ErrTypeUnknownField indicates a field name or cargo line index that does not exist
	ErrTypeUnknownField
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeTransition:
		return "Transition Error"
	case ErrTypeLookup:
		return "Lookup Error"
	case ErrTypeSubmission:
		return "Submission Error"
	case ErrTypeUnknownField:
		return "Unknown Field"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// FormError represents an error raised by a form operation.
// Field-level problems never produce a FormError; they surface as Invalid
// validity. FormErrors are for operations the caller asked for and could
// not have: a blocked step change, an unknown field, a failed submission.
type FormError struct {
	Type    ErrorType   // Category of error
	Message string      // Human-readable error message
	Field   FieldName   // Field concerned (if any)
	Missing []FieldName // Fields still blocking a transition
	Err     error       // Underlying error (if any)
}

// Error implements the error interface
func (e *FormError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Field)
	}
	if len(e.Missing) > 0 {
		msg = fmt.Sprintf("%s: missing %s", msg, joinFields(e.Missing))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns the underlying error for error chain inspection
func (e *FormError) Unwrap() error {
	return e.Err
}

func joinFields(fields []FieldName) string {
	return strings.Join(fieldStrings(fields), ", ")
}

// NewValidationError creates a validation error
func NewValidationError(field FieldName, message string) *FormError {
	return &FormError{
		Type:    ErrTypeValidation,
		Message: message,
		Field:   field,
	}
}

// NewTransitionError creates a transition error listing the fields that block it
func NewTransitionError(message string, missing []FieldName) *FormError {
	return &FormError{
		Type:    ErrTypeTransition,
		Message: message,
		Missing: append([]FieldName(nil), missing...),
	}
}

// NewLookupError creates a reference data lookup error
func NewLookupError(field FieldName, code string) *FormError {
	return &FormError{
		Type:    ErrTypeLookup,
		Message: fmt.Sprintf("unknown code %q", code),
		Field:   field,
	}
}

// NewSubmissionError creates a submission error
func NewSubmissionError(message string, err error) *FormError {
	return &FormError{
		Type:    ErrTypeSubmission,
		Message: message,
		Err:     err,
	}
}

// NewUnknownFieldError creates an unknown field error
func NewUnknownFieldError(field FieldName) *FormError {
	return &FormError{
		Type:    ErrTypeUnknownField,
		Message: "no such field",
		Field:   field,
	}
}

func isType(err error, t ErrorType) bool {
	if formErr, ok := err.(*FormError); ok {
		return formErr.Type == t
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return isType(err, ErrTypeValidation)
}

// IsTransitionError checks if an error is a transition error
func IsTransitionError(err error) bool {
	return isType(err, ErrTypeTransition)
}

// IsLookupError checks if an error is a lookup error
func IsLookupError(err error) bool {
	return isType(err, ErrTypeLookup)
}

// IsSubmissionError checks if an error is a submission error
func IsSubmissionError(err error) bool {
	return isType(err, ErrTypeSubmission)
}

// IsUnknownFieldError checks if an error is an unknown field error
func IsUnknownFieldError(err error) bool {
	return isType(err, ErrTypeUnknownField)
}

// MissingFields returns the fields blocking a transition error, nil otherwise
func MissingFields(err error) []FieldName {
	if formErr, ok := err.(*FormError); ok {
		return formErr.Missing
	}
	return nil
}
