package submit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/muurk/freightform/internal/leadform"
)

func testPayload() leadform.Payload {
	return leadform.Payload{
		leadform.KeySubmissionID: "6f1c2a9e-0000-4000-8000-000000000001",
		"country":                "FR",
		"loads[0].shippingType":  "container",
	}
}

func fastClient(url string) *Client {
	client := NewClient(url)
	client.SetRetry(3, time.Millisecond)
	client.MaxRetryDelay = 4 * time.Millisecond
	return client
}

func TestNewClient(t *testing.T) {
	client := NewClient("https://hooks.example.com/quote")

	if client.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", client.MaxRetries, DefaultMaxRetries)
	}
	if client.HTTPClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.HTTPClient.Timeout, DefaultTimeout)
	}
	if !client.UseExponentialBackoff {
		t.Error("exponential backoff should be enabled by default")
	}

	client.SetTimeout(2 * time.Second)
	if client.HTTPClient.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", client.HTTPClient.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://hooks.example.com/quote", false},
		{"http://localhost:8080/lead", false},
		{"", true},
		{"hooks.example.com/quote", true},
		{"ftp://hooks.example.com", true},
		{"https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := NewClient(tt.url).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSendSuccess(t *testing.T) {
	var got map[string]string
	var headers http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		headers = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := fastClient(server.URL)
	client.SetHeader("Authorization", "Bearer secret")

	if err := client.Send(context.Background(), testPayload()); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if got["country"] != "FR" || got["loads[0].shippingType"] != "container" {
		t.Errorf("body = %v", got)
	}
	if headers.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", headers.Get("Content-Type"))
	}
	if headers.Get("Idempotency-Key") != "6f1c2a9e-0000-4000-8000-000000000001" {
		t.Errorf("Idempotency-Key = %q", headers.Get("Idempotency-Key"))
	}
	if headers.Get("Authorization") != "Bearer secret" {
		t.Errorf("Authorization = %q", headers.Get("Authorization"))
	}
}

func TestSendRetries(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []int
		wantErr      bool
		wantAttempts int32
		wantStatus   int
	}{
		{"first attempt succeeds", []int{200}, false, 1, 0},
		{"retries 503 then succeeds", []int{503, 503, 200}, false, 3, 0},
		{"retries 429", []int{429, 204}, false, 2, 0},
		{"gives up after max retries", []int{500, 500, 500, 500, 500}, true, 4, 500},
		{"does not retry 400", []int{400, 200}, true, 1, 400},
		{"does not retry 401", []int{401, 200}, true, 1, 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&attempts, 1)
				status := tt.statuses[len(tt.statuses)-1]
				if int(n) <= len(tt.statuses) {
					status = tt.statuses[n-1]
				}
				w.WriteHeader(status)
			}))
			defer server.Close()

			err := fastClient(server.URL).Send(context.Background(), testPayload())

			if (err != nil) != tt.wantErr {
				t.Fatalf("Send() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := atomic.LoadInt32(&attempts); got != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", got, tt.wantAttempts)
			}
			if tt.wantErr {
				var subErr *Error
				if !errors.As(err, &subErr) || subErr.StatusCode != tt.wantStatus {
					t.Errorf("error = %v, want status %d", err, tt.wantStatus)
				}
				if !IsHTTPError(err) {
					t.Errorf("IsHTTPError(%v) = false", err)
				}
			}
		})
	}
}

func TestSendNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := fastClient(url)
	client.SetRetry(1, time.Millisecond)

	err := client.Send(context.Background(), testPayload())
	if err == nil {
		t.Fatal("Send() to a closed server should fail")
	}
	if !IsNetworkError(err) {
		t.Errorf("IsNetworkError(%v) = false", err)
	}
	if !IsRetryable(err) {
		t.Errorf("a refused connection should be retryable: %v", err)
	}
}

func TestSendCanceled(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetRetry(5, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := client.Send(ctx, testPayload())
	if err == nil {
		t.Fatal("Send() should fail when the context ends")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Send() should stop waiting when the context ends")
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestSendWithoutURL(t *testing.T) {
	err := NewClient("").Send(context.Background(), testPayload())

	var subErr *Error
	if !errors.As(err, &subErr) || subErr.Type != ErrTypeConfig {
		t.Errorf("Send() error = %v, want configuration error", err)
	}
}

func TestSequencerSubmitThroughClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := fastClient(server.URL)
	client.SetRetry(0, 0)

	var transport leadform.Transport = client
	err := transport.Send(context.Background(), testPayload())

	wrapped := leadform.NewSubmissionError("failed to send the request", err)
	if !strings.Contains(ShortMessage(wrapped), "HTTP 502") {
		t.Errorf("ShortMessage() = %q, want the status", ShortMessage(wrapped))
	}
	if !IsRetryable(wrapped) {
		t.Error("a wrapped 502 should stay retryable")
	}
}

func TestDry(t *testing.T) {
	dry := &Dry{}
	if err := dry.Send(context.Background(), testPayload()); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(dry.Sent) != 1 || dry.Sent[0]["country"] != "FR" {
		t.Errorf("Sent = %v", dry.Sent)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := dry.Send(ctx, testPayload()); err == nil {
		t.Error("Send() with a canceled context should fail")
	}
}
