package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/clock"
)

var (
	// ErrInvalidRecipient means the endpoint rejected the recipient for good.
	ErrInvalidRecipient = errors.New("invalid recipient")
	// ErrExhaustedRetries means every delivery attempt failed.
	ErrExhaustedRetries = errors.New("delivery retries exhausted")
)

const (
	defaultWebhookAttempts = 3
	defaultWebhookDelay    = 2 * time.Second
	defaultWebhookTimeout  = 10 * time.Second
	statusOriginTimedOut   = 522
)

// WebhookClient posts payloads with a fixed retry delay.
type WebhookClient struct {
	client   *http.Client
	attempts int
	delay    time.Duration
	sleep    clock.Sleeper
}

// NewWebhookClient builds a WebhookClient. Zero values take defaults.
func NewWebhookClient(timeout time.Duration, attempts int, delay time.Duration) *WebhookClient {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	if attempts <= 0 {
		attempts = defaultWebhookAttempts
	}
	if delay <= 0 {
		delay = defaultWebhookDelay
	}
	return &WebhookClient{
		client:   &http.Client{Timeout: timeout},
		attempts: attempts,
		delay:    delay,
		sleep:    clock.SleepWithContext,
	}
}

// Deliver posts payload to url. A 404, 502 or 522 answer yields
// ErrInvalidRecipient; other failures are retried and end in ErrExhaustedRetries.
func (c *WebhookClient) Deliver(ctx context.Context, url string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		lastErr = c.post(ctx, url, body)
		if lastErr == nil || errors.Is(lastErr, ErrInvalidRecipient) {
			return lastErr
		}
		if attempt == c.attempts {
			break
		}
		if err = c.sleep(ctx, c.delay); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrExhaustedRetries, c.attempts, lastErr)
}

func (c *WebhookClient) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrInvalidRecipient, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound,
		resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == statusOriginTimedOut:
		return fmt.Errorf("%w: status %d", ErrInvalidRecipient, resp.StatusCode)
	default:
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
}
