package gecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"
)

// APIError represents a non-2xx response from the upstream API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry. Only rate
// limiting qualifies; any other upstream status is final for the request.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// retryable classifies a failed attempt: 429 and transport-level failures
// that produced no status (timeout, connection error) may retry; other
// upstream statuses and context cancellation end the loop.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRetryable()
	}
	return true
}

// doRequest performs a single throttled GET against the upstream API.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values, timeout time.Duration) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var body []byte
	err := c.gate.run(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(callCtx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("x-cg-demo-api-key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("do request: %w", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode >= 400 {
			return &APIError{
				StatusCode: resp.StatusCode,
				Message:    http.StatusText(resp.StatusCode),
				Body:       raw,
			}
		}

		body = raw
		return nil
	})
	return body, err
}

// doWithRetry performs a throttled GET with bounded backoff on retryable
// failures.
func (c *Client) doWithRetry(ctx context.Context, path string, query url.Values, timeout time.Duration) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retryLimit; attempt++ {
		if attempt > 1 {
			delay := c.backoffDelay(attempt - 1)
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"delay", delay,
				"path", path,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		body, err := c.doRequest(ctx, path, query, timeout)
		if err == nil {
			return body, nil
		}

		lastErr = err

		if !retryable(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("retry limit reached: %w", lastErr)
}

// backoffDelay computes the pause after the given number of completed
// attempts: min(step*completed, cap) plus uniform jitter.
func (c *Client) backoffDelay(completed int) time.Duration {
	delay := c.backoffStep * time.Duration(completed)
	if delay > c.backoffCap {
		delay = c.backoffCap
	}
	if c.backoffJitter > 0 {
		delay += rand.N(c.backoffJitter)
	}
	return delay
}

// get performs a GET with retries and unmarshals the JSON response.
func (c *Client) get(ctx context.Context, path string, query url.Values, timeout time.Duration, result any) error {
	body, err := c.doWithRetry(ctx, path, query, timeout)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
