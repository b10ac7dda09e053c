// Package webhook delivers notification cards to an incoming-webhook URL.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/it-era/intake/internal/notify"
)

const (
	defaultTimeout = 10 * time.Second
	maxRetries     = 3
)

// Option configures a webhook Sink.
type Option func(*Sink)

// WithHeaders sets custom HTTP headers sent with every POST.
func WithHeaders(h map[string]string) Option {
	return func(s *Sink) { s.headers = h }
}

// WithTimeout sets the HTTP client timeout. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(s *Sink) { s.client.Timeout = d }
}

// Sink POSTs the message card of each notification to an HTTP endpoint.
// Escalations are one-per-turn, so cards are sent immediately rather than
// batched. Retries on 5xx with exponential backoff.
type Sink struct {
	client  *http.Client
	url     string
	headers map[string]string
}

// New creates a webhook sink targeting the given URL.
func New(url string, opts ...Option) *Sink {
	s := &Sink{
		client: &http.Client{Timeout: defaultTimeout},
		url:    url,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify POSTs the notification's card as JSON.
func (s *Sink) Notify(ctx context.Context, n notify.Notification) error {
	body, err := json.Marshal(n.Card)
	if err != nil {
		return fmt.Errorf("webhook: marshal: %w", err)
	}
	return s.postWithRetry(ctx, body)
}

// Close is a no-op; the sink holds no buffered state.
func (s *Sink) Close() error {
	return nil
}

func (s *Sink) postWithRetry(ctx context.Context, body []byte) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(1<<(attempt-1)) * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("webhook: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range s.headers {
			req.Header.Set(k, v)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("webhook: %w", err)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		lastErr = fmt.Errorf("webhook: HTTP %d", resp.StatusCode)

		// Only retry on 5xx server errors.
		if resp.StatusCode < 500 {
			return lastErr
		}
	}
	return lastErr
}
