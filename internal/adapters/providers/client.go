package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/minsukang/tripweaver/internal/domain/routing"
	"github.com/minsukang/tripweaver/internal/domain/shared"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = 200 * time.Millisecond
)

// coordPayload is the wire shape for a coordinate
type coordPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// routePayload is the wire shape for a routing query
type routePayload struct {
	From coordPayload `json:"from"`
	To   coordPayload `json:"to"`
}

// httpClient is the retrying HTTP machinery shared by the transit and
// walking clients: rate limiting, exponential backoff with jitter, and a
// clock so tests run without real sleeps.
type httpClient struct {
	client      *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
}

func newHTTPClient(baseURL string, rps float64, clock shared.Clock) *httpClient {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if rps <= 0 {
		rps = 5
	}
	return &httpClient{
		client:      &http.Client{Timeout: defaultTimeout},
		rateLimiter: rate.NewLimiter(rate.Limit(rps), int(rps)),
		baseURL:     baseURL,
		maxRetries:  defaultMaxRetries,
		backoffBase: defaultBackoffBase,
		clock:       clock,
	}
}

// addJitter spreads a backoff delay between 50% and 150% of its base value
func addJitter(d time.Duration) time.Duration {
	return time.Duration(float64(d) * (0.5 + rand.Float64()))
}

// retryableError marks a failure worth another attempt
type retryableError struct {
	message string
}

func (e *retryableError) Error() string {
	return e.message
}

// postRoute sends a routing query and decodes the response. Network errors,
// 429s, 5xxs and missing routes (decode reports found=false) are retried
// with exponential backoff; a missing route after the last attempt surfaces
// as ErrNoRoute.
func (c *httpClient) postRoute(ctx context.Context, path string, body interface{}, decode func([]byte) (bool, error)) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.clock.Sleep(addJitter(c.backoffBase * time.Duration(1<<(attempt-1))))
		}

		raw, err := c.doOnce(ctx, path, body)
		if err != nil {
			var transient *retryableError
			if errors.As(err, &transient) {
				lastErr = err
				continue
			}
			return err
		}

		found, err := decode(raw)
		if err != nil {
			return err
		}
		if found {
			return nil
		}
		lastErr = routing.ErrNoRoute
	}

	if errors.Is(lastErr, routing.ErrNoRoute) {
		return routing.ErrNoRoute
	}
	if lastErr != nil {
		return fmt.Errorf("max retries exceeded: %w", lastErr)
	}
	return fmt.Errorf("max retries exceeded")
}

// doOnce performs one rate-limited POST attempt
func (c *httpClient) doOnce(ctx context.Context, path string, body interface{}) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &retryableError{message: fmt.Sprintf("network error: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &retryableError{message: fmt.Sprintf("read response: %v", err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &retryableError{message: fmt.Sprintf("provider error (%d)", resp.StatusCode)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("provider error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
