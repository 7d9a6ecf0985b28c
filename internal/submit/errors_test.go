package submit

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyNetworkError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
	}{
		{"timeout", timeoutError{}, ErrTypeTimeout, true},
		{"deadline", context.DeadlineExceeded, ErrTypeTimeout, true},
		{"canceled", context.Canceled, ErrTypeCanceled, false},
		{"dns", &net.DNSError{Name: "hooks.invalid", Err: "no such host"}, ErrTypeDNS, false},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, ErrTypeConnectionRefused, true},
		{"wrapped in url error", &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}}, ErrTypeConnectionRefused, true},
		{"generic", errors.New("connection reset"), ErrTypeNetwork, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyNetworkError(tt.err)
			if got.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", got.Type, tt.wantType)
			}
			if got.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", got.Retryable, tt.retryable)
			}
		})
	}

	if ClassifyNetworkError(nil) != nil {
		t.Error("ClassifyNetworkError(nil) should be nil")
	}
}

func TestNewHTTPError(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{400, false},
		{404, false},
		{422, false},
		{429, true},
		{500, true},
		{503, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := NewHTTPError(tt.status, "x")
			if err.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", err.Retryable, tt.retryable)
			}
			if IsNetworkError(err) {
				t.Error("HTTP errors are not network errors")
			}
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	err := NewNetworkError("POST request failed", errors.New("boom"))
	if !strings.Contains(err.Error(), "POST request failed") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, err.Err) {
		t.Error("Unwrap() should expose the cause")
	}
}

func TestShortMessageAndHint(t *testing.T) {
	tests := []struct {
		err       error
		wantShort string
		wantHint  string
	}{
		{NewHTTPError(503, "x"), "having trouble", "Try again"},
		{NewHTTPError(400, "x"), "rejected", "refused"},
		{&Error{Type: ErrTypeTimeout}, "in time", "internet connection"},
		{NewConfigError("no webhook URL configured"), "no webhook URL", "config init"},
		{errors.New("plain"), "plain", "unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := ShortMessage(tt.err); !strings.Contains(got, tt.wantShort) {
				t.Errorf("ShortMessage() = %q, want %q", got, tt.wantShort)
			}
			if got := Hint(tt.err); !strings.Contains(got, tt.wantHint) {
				t.Errorf("Hint() = %q, want %q", got, tt.wantHint)
			}
		})
	}
}
