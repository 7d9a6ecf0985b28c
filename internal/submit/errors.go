package submit

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of a delivery failure
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the webhook did not answer in time
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates nothing is listening at the webhook address
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates the webhook host could not be resolved
	ErrTypeDNS
	// ErrTypeHTTP indicates the webhook answered with a non-2xx status
	ErrTypeHTTP
	// ErrTypeEncode indicates the payload could not be encoded or the request built
	ErrTypeEncode
	// ErrTypeCanceled indicates the caller gave up (context canceled)
	ErrTypeCanceled
	// ErrTypeConfig indicates no usable webhook URL is configured
	ErrTypeConfig
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeEncode:
		return "Encode Error"
	case ErrTypeCanceled:
		return "Canceled"
	case ErrTypeConfig:
		return "Configuration Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error describes a failed delivery attempt
type Error struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether another attempt may succeed
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError turns an error from http.Client.Do into an *Error
func ClassifyNetworkError(err error) *Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return &Error{Type: ErrTypeCanceled, Message: "Submission canceled", Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return &Error{Type: ErrTypeTimeout, Message: "Request timed out", Err: err, Retryable: true}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{
			Type:      ErrTypeDNS,
			Message:   fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:       err,
			Retryable: dnsErr.IsTemporary,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &Error{Type: ErrTypeConnectionRefused, Message: "Webhook refused connection", Err: err, Retryable: true}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err)
	}

	return &Error{Type: ErrTypeNetwork, Message: "Network error occurred", Err: err, Retryable: true}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *Error {
	if classified := ClassifyNetworkError(err); classified != nil {
		classified.Message = message
		return classified
	}
	return &Error{Type: ErrTypeNetwork, Message: message, Err: err, Retryable: true}
}

// NewHTTPError creates an error for a non-2xx answer. Server errors and
// 429 Too Many Requests are retryable; other client errors are not.
func NewHTTPError(statusCode int, message string) *Error {
	return &Error{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500 || statusCode == 429,
	}
}

// NewEncodeError creates an error for a payload that could not be sent at all
func NewEncodeError(message string, err error) *Error {
	return &Error{Type: ErrTypeEncode, Message: message, Err: err}
}

// NewConfigError creates an error for a missing or malformed webhook URL
func NewConfigError(message string) *Error {
	return &Error{Type: ErrTypeConfig, Message: message}
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused and DNS)
func IsNetworkError(err error) bool {
	var subErr *Error
	if errors.As(err, &subErr) {
		return subErr.Type == ErrTypeNetwork ||
			subErr.Type == ErrTypeTimeout ||
			subErr.Type == ErrTypeConnectionRefused ||
			subErr.Type == ErrTypeDNS
	}
	return false
}

// IsHTTPError checks if an error is an HTTP status error
func IsHTTPError(err error) bool {
	var subErr *Error
	return errors.As(err, &subErr) && subErr.Type == ErrTypeHTTP
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var subErr *Error
	if errors.As(err, &subErr) {
		return subErr.Retryable
	}
	// Unknown errors are not retryable by default
	return false
}

// ShortMessage returns a concise message suitable for the confirmation screen
func ShortMessage(err error) string {
	var subErr *Error
	if !errors.As(err, &subErr) {
		return err.Error()
	}

	switch subErr.Type {
	case ErrTypeTimeout:
		return "The quote service did not answer in time"
	case ErrTypeConnectionRefused, ErrTypeNetwork:
		return "The quote service could not be reached - check your connection"
	case ErrTypeDNS:
		return "The quote service address could not be resolved"
	case ErrTypeHTTP:
		if subErr.StatusCode >= 500 {
			return fmt.Sprintf("The quote service is having trouble (HTTP %d)", subErr.StatusCode)
		}
		return fmt.Sprintf("The quote service rejected the request (HTTP %d)", subErr.StatusCode)
	case ErrTypeCanceled:
		return "Submission canceled"
	default:
		return subErr.Message
	}
}

// Hint returns troubleshooting advice for an error
func Hint(err error) string {
	var subErr *Error
	if !errors.As(err, &subErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch subErr.Type {
	case ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeNetwork:
		return strings.Join([]string{
			"The request could not be delivered.",
			"Troubleshooting:",
			"  • Check your internet connection",
			"  • Verify webhook.url in the configuration file",
			"  • Your answers are kept; submit again when the service is back",
		}, "\n")
	case ErrTypeDNS:
		return "Check the host name in webhook.url."
	case ErrTypeHTTP:
		if subErr.StatusCode >= 500 {
			return "The service failed while handling the request. Try again in a few minutes."
		}
		return "The service refused the request. Check the webhook configuration."
	case ErrTypeConfig:
		return "Run 'freightform config init' and set webhook.url."
	default:
		return "Please check the error message for details."
	}
}
