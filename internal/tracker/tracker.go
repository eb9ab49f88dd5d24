// Package tracker runs the refresh loop: fetch constellation snapshots,
// ingest them, fan out weather lookups, classify danger, and expose the
// derived state to the HTTP layer. All state is recomputed per cycle;
// nothing is persisted.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/balloon-tracker/internal/domain"
	"github.com/couchcryptid/balloon-tracker/internal/observability"
	"github.com/jonboulle/clockwork"
)

// SnapshotSource supplies raw constellation snapshots by hour offset.
type SnapshotSource interface {
	FetchSnapshot(ctx context.Context, hoursAgo int) ([][]float64, error)
}

// AlertPublisher delivers danger alerts downstream.
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, alerts []domain.BalloonAlert) error
}

// BalloonStatus is one balloon's fully derived view for the current cycle.
type BalloonStatus struct {
	Balloon         domain.Balloon       `json:"balloon"`
	Weather         domain.WeatherSample `json:"weather"`
	WeatherFallback bool                 `json:"weather_fallback"`
	Verdict         domain.DangerVerdict `json:"verdict"`
	LocationVerdict domain.DangerVerdict `json:"location_verdict"`
}

// Dangerous reports whether either danger signal fired.
func (s BalloonStatus) Dangerous() bool {
	return s.Verdict.Dangerous || s.LocationVerdict.Dangerous
}

// state is the immutable product of one refresh cycle; readers get it by
// value under the read lock and never see a half-updated cycle.
type state struct {
	observedAt time.Time
	balloons   []BalloonStatus
	history    []domain.Snapshot
}

// Options tunes the tracker loop. Zero values fall back to defaults.
type Options struct {
	RefreshInterval    time.Duration
	HistoryHours       int
	WeatherConcurrency int
	MatchRadiusDeg     float64
	PredictSteps       int
}

func (o Options) withDefaults() Options {
	if o.RefreshInterval <= 0 {
		o.RefreshInterval = 60 * time.Second
	}
	if o.HistoryHours <= 0 {
		o.HistoryHours = 6
	}
	if o.WeatherConcurrency <= 0 {
		o.WeatherConcurrency = 8
	}
	if o.MatchRadiusDeg <= 0 {
		o.MatchRadiusDeg = domain.DefaultMatchRadiusDeg
	}
	if o.PredictSteps <= 0 {
		o.PredictSteps = domain.DefaultDriftSteps
	}
	return o
}

// Tracker owns the refresh loop and the derived per-cycle state.
type Tracker struct {
	source  SnapshotSource
	weather domain.WeatherProvider
	alerts  AlertPublisher // nil disables alert publishing
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	opts    Options

	ready atomic.Bool

	mu            sync.RWMutex
	cur           state
	hasState      bool
	prevDangerous map[string]bool
}

// New creates a Tracker. Pass a nil publisher to disable alerting.
func New(source SnapshotSource, weather domain.WeatherProvider, alerts AlertPublisher,
	logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock, opts Options) *Tracker {
	return &Tracker{
		source:        source,
		weather:       weather,
		alerts:        alerts,
		logger:        logger,
		metrics:       metrics,
		clock:         clock,
		opts:          opts.withDefaults(),
		prevDangerous: make(map[string]bool),
	}
}

// CheckReadiness returns nil once at least one refresh cycle has completed.
func (t *Tracker) CheckReadiness(_ context.Context) error {
	if !t.ready.Load() {
		return errors.New("tracker has not completed a refresh cycle yet")
	}
	return nil
}

// Run executes the refresh loop until the context is cancelled. The first
// refresh happens immediately; failures are logged and retried on the next
// tick rather than stopping the loop.
func (t *Tracker) Run(ctx context.Context) error {
	t.logger.Info("tracker started",
		"refresh_interval", t.opts.RefreshInterval,
		"history_hours", t.opts.HistoryHours,
	)
	t.metrics.TrackerRunning.Set(1)
	defer t.metrics.TrackerRunning.Set(0)

	for {
		if err := t.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				t.logger.Info("tracker stopping", "reason", ctx.Err())
				return nil
			}
			t.logger.Error("refresh failed", "error", err)
		}

		if !t.sleep(ctx, t.opts.RefreshInterval) {
			t.logger.Info("tracker stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// Refresh runs one complete fetch-ingest-classify cycle and swaps in the
// new state. The current-hour snapshot is required; missing history hours
// degrade to empty snapshots ("no data for this period").
func (t *Tracker) Refresh(ctx context.Context) error {
	start := t.clock.Now()

	current, err := t.fetchHour(ctx, 0, start)
	if err != nil {
		return err
	}

	history := make([]domain.Snapshot, 0, t.opts.HistoryHours)
	for h := 1; h <= t.opts.HistoryHours; h++ {
		snap, err := t.fetchHour(ctx, h, start)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			t.logger.Warn("no data for this period", "hours_ago", h, "error", err)
			snap = domain.Snapshot{HoursAgo: h, ObservedAt: start.Add(-time.Duration(h) * time.Hour)}
		}
		history = append(history, snap)
	}

	statuses := t.collectWeather(ctx, current.Balloons)
	if ctx.Err() != nil {
		// Torn down mid-fetch: in-flight lookups already completed into
		// local state; discard the cycle without visible side effects.
		return ctx.Err()
	}

	var weatherWarnings, locationWarnings int
	for i := range statuses {
		s := &statuses[i]
		s.Verdict = domain.Classify(s.Weather)
		s.LocationVerdict = domain.LocationDanger(s.Balloon.Position.Lat, s.Balloon.Position.Lon, s.Balloon.Position.Alt)
		if s.Verdict.Dangerous {
			weatherWarnings++
		}
		if s.LocationVerdict.Dangerous {
			locationWarnings++
		}
	}

	newAlerts, nowDangerous := t.diffDangerous(statuses, start)

	t.mu.Lock()
	t.cur = state{observedAt: start, balloons: statuses, history: history}
	t.hasState = true
	t.prevDangerous = nowDangerous
	t.mu.Unlock()
	t.ready.Store(true)

	t.metrics.WeatherWarnings.Set(float64(weatherWarnings))
	t.metrics.LocationWarnings.Set(float64(locationWarnings))
	t.metrics.RefreshDuration.Observe(t.clock.Since(start).Seconds())

	t.publishAlerts(ctx, newAlerts)

	t.logger.Info("refresh complete",
		"balloons", len(statuses),
		"weather_warnings", weatherWarnings,
		"location_warnings", locationWarnings,
		"new_alerts", len(newAlerts),
	)
	return nil
}

// fetchHour fetches and ingests one snapshot, recording fetch and
// validation metrics.
func (t *Tracker) fetchHour(ctx context.Context, hoursAgo int, now time.Time) (domain.Snapshot, error) {
	triples, err := t.source.FetchSnapshot(ctx, hoursAgo)
	if err != nil {
		t.metrics.SnapshotFetches.WithLabelValues("error").Inc()
		return domain.Snapshot{}, err
	}
	t.metrics.SnapshotFetches.WithLabelValues("success").Inc()

	snap := domain.IngestSnapshot(triples, hoursAgo, now.Add(-time.Duration(hoursAgo)*time.Hour))
	t.metrics.BalloonsIngested.Add(float64(len(snap.Balloons)))
	t.metrics.BalloonsDropped.Add(float64(len(triples) - len(snap.Balloons)))
	return snap, nil
}

// collectWeather fans out one weather lookup per balloon with bounded
// concurrency and fans the results back in. A failed lookup degrades to the
// documented safe-default sample instead of surfacing an error.
func (t *Tracker) collectWeather(ctx context.Context, balloons []domain.Balloon) []BalloonStatus {
	statuses := make([]BalloonStatus, len(balloons))
	sem := make(chan struct{}, t.opts.WeatherConcurrency)
	var wg sync.WaitGroup

	for i, b := range balloons {
		wg.Add(1)
		go func(i int, b domain.Balloon) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			sample, err := t.weather.CurrentWeather(ctx, b.Position.Lat, b.Position.Lon)
			fallback := false
			if err != nil {
				if ctx.Err() == nil {
					t.logger.Warn("weather lookup failed, using fallback sample",
						"balloon_id", b.ID,
						"lat", b.Position.Lat,
						"lon", b.Position.Lon,
						"error", err,
					)
				}
				t.metrics.WeatherRequests.WithLabelValues("fallback").Inc()
				sample = domain.DefaultWeatherSample()
				fallback = true
			}
			statuses[i] = BalloonStatus{Balloon: b, Weather: sample, WeatherFallback: fallback}
		}(i, b)
	}
	wg.Wait()
	return statuses
}

// diffDangerous builds alerts for balloons dangerous this cycle that were
// not dangerous in the previous one. Ids are positional, so the diff is
// best-effort across consecutive refreshes of the same upstream ordering;
// a reordered constellation re-alerts, which is acceptable for alerting.
func (t *Tracker) diffDangerous(statuses []BalloonStatus, observedAt time.Time) ([]domain.BalloonAlert, map[string]bool) {
	t.mu.RLock()
	prev := t.prevDangerous
	t.mu.RUnlock()

	nowDangerous := make(map[string]bool)
	var alerts []domain.BalloonAlert
	for _, s := range statuses {
		if !s.Dangerous() {
			continue
		}
		nowDangerous[s.Balloon.ID] = true
		if prev[s.Balloon.ID] {
			continue
		}
		alerts = append(alerts, domain.BalloonAlert{
			BalloonID:  s.Balloon.ID,
			Position:   s.Balloon.Position,
			Weather:    s.Weather,
			Verdict:    s.Verdict,
			Location:   s.LocationVerdict,
			ObservedAt: observedAt,
		})
	}
	return alerts, nowDangerous
}

func (t *Tracker) publishAlerts(ctx context.Context, alerts []domain.BalloonAlert) {
	if t.alerts == nil || len(alerts) == 0 {
		return
	}
	if err := t.alerts.PublishAlerts(ctx, alerts); err != nil {
		t.logger.Error("publish alerts failed", "error", err, "alerts", len(alerts))
		return
	}
	t.metrics.AlertsPublished.Add(float64(len(alerts)))
}

// Balloons returns the current cycle's derived balloon statuses. ok is
// false before the first completed refresh.
func (t *Tracker) Balloons() ([]BalloonStatus, time.Time, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.hasState {
		return nil, time.Time{}, false
	}
	out := make([]BalloonStatus, len(t.cur.balloons))
	copy(out, t.cur.balloons)
	return out, t.cur.observedAt, true
}

// Bounds returns the padded viewport box over the current balloons.
func (t *Tracker) Bounds() (domain.Bounds, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.hasState {
		return domain.Bounds{}, false
	}
	points := make([]domain.LatLon, len(t.cur.balloons))
	for i, s := range t.cur.balloons {
		points[i] = s.Balloon.Position.LatLon()
	}
	return domain.BoundsOf(points)
}

// FlightPath threads the given balloon's track through the stored history
// and extrapolates it with the chosen strategy ("delta" or "wind"). Both
// legs are oldest-first; Predicted is empty when the strategy reports
// unavailable. ok is false for an unknown balloon id or before the first
// refresh.
func (t *Tracker) FlightPath(id, strategy string, steps int) (domain.FlightPath, bool) {
	t.mu.RLock()
	cur := t.cur
	hasState := t.hasState
	t.mu.RUnlock()
	if !hasState {
		return domain.FlightPath{}, false
	}

	var status *BalloonStatus
	for i := range cur.balloons {
		if cur.balloons[i].Balloon.ID == id {
			status = &cur.balloons[i]
			break
		}
	}
	if status == nil {
		return domain.FlightPath{}, false
	}

	pos := status.Balloon.Position
	path := domain.MatchHistory(pos.LatLon(), cur.history, t.opts.MatchRadiusDeg)
	path = append(path, pos)

	if steps <= 0 {
		steps = t.opts.PredictSteps
	}
	var predictor domain.Predictor
	switch strategy {
	case "delta":
		predictor = domain.LastDeltaPredictor{}
	default:
		predictor = domain.WindDriftPredictor{Steps: steps}
	}

	fp := domain.FlightPath{Past: toLatLons(path), Predicted: []domain.LatLon{}}
	if predicted, ok := predictor.Predict(path, &status.Weather); ok {
		fp.Predicted = toLatLons(predicted)
	}
	return fp, true
}

func toLatLons(path []domain.Position) []domain.LatLon {
	out := make([]domain.LatLon, len(path))
	for i, p := range path {
		out[i] = p.LatLon()
	}
	return out
}

// sleep waits d on the injected clock, returning false if the context was
// cancelled first.
func (t *Tracker) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := t.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
