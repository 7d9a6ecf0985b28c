package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/muurk/freightform/internal/leadform"
	"github.com/muurk/freightform/internal/logging"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 15 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 30 * time.Second

	// maxResponseBody bounds how much of a response is read for logging
	maxResponseBody = 64 << 10
)

// Client delivers leads to a webhook as a JSON object of strings.
// It implements leadform.Transport.
type Client struct {
	// URL is the webhook endpoint (e.g., "https://hooks.example.com/quote")
	URL string

	// Headers are added to every request (e.g., an authorization token)
	Headers map[string]string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff doubles the delay after each failed attempt
	UseExponentialBackoff bool

	// UserAgent is sent with every request
	UserAgent string
}

// NewClient creates a client for the webhook at rawURL
func NewClient(rawURL string) *Client {
	return &Client{
		URL:                   rawURL,
		Headers:               map[string]string{},
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
		UserAgent:             "freightform",
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// SetHeader adds a header sent with every request
func (c *Client) SetHeader(key, value string) {
	if c.Headers == nil {
		c.Headers = map[string]string{}
	}
	c.Headers[key] = value
}

// Validate checks that the webhook URL is usable
func (c *Client) Validate() error {
	if c.URL == "" {
		return NewConfigError("no webhook URL configured")
	}
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return NewConfigError(fmt.Sprintf("invalid webhook URL %q", c.URL))
	}
	return nil
}

// Send posts the payload, retrying network failures, timeouts and 5xx
// answers with exponential backoff. The submission id is sent as the
// Idempotency-Key header so that the receiver can drop duplicates.
func (c *Client) Send(ctx context.Context, payload leadform.Payload) error {
	if err := c.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string(payload))
	if err != nil {
		return NewEncodeError("failed to encode payload", err)
	}
	id := payload[leadform.KeySubmissionID]

	var lastErr error
	currentDelay := c.RetryDelay

	// Retry loop with exponential backoff
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, currentDelay); err != nil {
				return ClassifyNetworkError(err)
			}

			if c.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		err := c.sendAttempt(ctx, body, id, attempt+1)
		if err == nil {
			return nil
		}

		lastErr = err

		// Don't retry non-retryable errors
		if !IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

// sendAttempt performs a single POST
func (c *Client) sendAttempt(ctx context.Context, body []byte, id string, attempt int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return NewEncodeError("failed to create POST request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if id != "" {
		req.Header.Set("Idempotency-Key", id)
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		subErr := NewNetworkError("POST request failed", err)
		logging.LogSubmission(id, attempt, 0, nil, subErr)
		return subErr
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		subErr := NewHTTPError(resp.StatusCode, fmt.Sprintf("webhook answered with status %d", resp.StatusCode))
		logging.LogSubmission(id, attempt, resp.StatusCode, respBody, subErr)
		return subErr
	}

	logging.LogSubmission(id, attempt, resp.StatusCode, respBody, nil)
	return nil
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Dry is a transport that only logs the payload it would send. It backs
// the wizard when no webhook is configured.
type Dry struct {
	// Sent collects every delivered payload
	Sent []leadform.Payload
}

// Send records the payload
func (d *Dry) Send(ctx context.Context, payload leadform.Payload) error {
	if err := ctx.Err(); err != nil {
		return ClassifyNetworkError(err)
	}
	d.Sent = append(d.Sent, payload)
	logging.LogSubmission(payload[leadform.KeySubmissionID], 1, 0, nil, nil)
	return nil
}
