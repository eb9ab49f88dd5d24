package openmeteo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/couchcryptid/balloon-tracker/internal/domain"
	"github.com/jonboulle/clockwork"
)

// DefaultMinInterval is the cooldown between dispatches for one
// rounded-coordinate key.
const DefaultMinInterval = time.Second

// Throttle spaces out requests per rounded-coordinate key. Coordinates are
// rounded to two decimals (~1.1 km grid) so near-identical queries coalesce
// onto one cooldown. It is a plain per-key cooldown, not a token bucket:
// one dispatch per key per interval, no burst capacity.
type Throttle struct {
	interval time.Duration
	clock    clockwork.Clock

	mu   sync.Mutex
	next map[string]time.Time // earliest allowed dispatch per key
}

// NewThrottle creates a Throttle with the given cooldown interval. A
// non-positive interval falls back to DefaultMinInterval.
func NewThrottle(interval time.Duration, clock clockwork.Clock) *Throttle {
	if interval <= 0 {
		interval = DefaultMinInterval
	}
	return &Throttle{
		interval: interval,
		clock:    clock,
		next:     make(map[string]time.Time),
	}
}

// Wait blocks until a dispatch slot for lat/lon's key is available. The
// slot is reserved under the lock before waiting, so concurrent callers for
// the same key cannot interleave their read-modify-write and each dispatch
// lands at least one interval after the previous one. Distinct keys never
// block each other. Returns the context error if the wait is cancelled;
// the reserved slot is not returned in that case.
func (t *Throttle) Wait(ctx context.Context, lat, lon float64) error {
	key := coordKey(lat, lon)

	t.mu.Lock()
	now := t.clock.Now()
	slot := now
	if n, ok := t.next[key]; ok && n.After(now) {
		slot = n
	}
	t.next[key] = slot.Add(t.interval)
	t.mu.Unlock()

	delay := slot.Sub(now)
	if delay <= 0 {
		return ctx.Err()
	}

	timer := t.clock.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}

// coordKey rounds a coordinate pair to two decimal places.
func coordKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", lat, lon)
}

// ThrottledProvider decorates a WeatherProvider with the per-key cooldown.
type ThrottledProvider struct {
	inner    domain.WeatherProvider
	throttle *Throttle
}

// NewThrottledProvider wraps inner so every request first waits out the
// cooldown for its rounded-coordinate key.
func NewThrottledProvider(inner domain.WeatherProvider, throttle *Throttle) *ThrottledProvider {
	return &ThrottledProvider{inner: inner, throttle: throttle}
}

func (p *ThrottledProvider) CurrentWeather(ctx context.Context, lat, lon float64) (domain.WeatherSample, error) {
	if err := p.throttle.Wait(ctx, lat, lon); err != nil {
		return domain.WeatherSample{}, err
	}
	return p.inner.CurrentWeather(ctx, lat, lon)
}
