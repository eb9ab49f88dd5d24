// Package constellation fetches hourly balloon position snapshots from the
// upstream constellation API. Each snapshot is a bare JSON array of raw
// [lon, lat, alt] triples; validation happens later in the domain layer.
package constellation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// The upstream serves stale or truncated files often enough that a
	// small bounded retry is worth it before declaring an hour missing.
	maxAttempts    = 3
	baseRetryDelay = time.Second
)

// Client fetches raw constellation snapshots over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clock      clockwork.Clock
	logger     *slog.Logger
}

// NewClient creates a constellation snapshot client.
func NewClient(baseURL string, timeout time.Duration, clock clockwork.Clock, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		clock:   clock,
		logger:  logger,
	}
}

// FetchSnapshot retrieves the raw triples for one hour offset (0 = now,
// 1 = one hour ago, ...). Transient failures are retried with exponential
// backoff (3 attempts, base 1s, doubling); after that the error surfaces
// and the caller treats the hour as "no data for this period".
func (c *Client) FetchSnapshot(ctx context.Context, hoursAgo int) ([][]float64, error) {
	fullURL := fmt.Sprintf("%s/%02d.json", c.baseURL, hoursAgo)

	delay := baseRetryDelay
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		triples, err := c.fetchOnce(ctx, fullURL)
		if err == nil {
			return triples, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("snapshot fetch failed",
			"hours_ago", hoursAgo,
			"attempt", attempt,
			"error", err,
		)
		if attempt < maxAttempts {
			if !sleepWithContext(ctx, c.clock, delay) {
				return nil, ctx.Err()
			}
			delay *= 2
		}
	}
	return nil, fmt.Errorf("fetch snapshot %02d: %w", hoursAgo, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, fullURL string) ([][]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("snapshot request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("constellation API error: status %d: %s", resp.StatusCode, body)
	}

	var triples [][]float64
	if err := json.NewDecoder(resp.Body).Decode(&triples); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return triples, nil
}

// sleepWithContext waits d on the injected clock, returning false if the
// context was cancelled first.
func sleepWithContext(ctx context.Context, clock clockwork.Clock, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
