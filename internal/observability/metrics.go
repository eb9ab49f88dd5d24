package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// balloon tracker.
type Metrics struct {
	TrackerRunning  prometheus.Gauge
	RefreshDuration prometheus.Histogram

	// Constellation ingestion metrics.
	SnapshotFetches  *prometheus.CounterVec // labels: outcome={success,error}
	BalloonsIngested prometheus.Counter
	BalloonsDropped  prometheus.Counter

	// Weather metrics.
	WeatherRequests    *prometheus.CounterVec // labels: outcome={success,error,fallback}
	WeatherAPIDuration prometheus.Histogram

	// Danger metrics. Weather- and location-based warnings are tracked
	// separately so the two signals stay distinguishable on dashboards.
	WeatherWarnings  prometheus.Gauge
	LocationWarnings prometheus.Gauge
	AlertsPublished  prometheus.Counter
}

// NewMetrics creates and registers all tracker metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		TrackerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "balloon_tracker",
			Name:      "running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "balloon_tracker",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-ingest-classify refresh cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		SnapshotFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "balloon_tracker",
			Name:      "snapshot_fetches_total",
			Help:      "Constellation snapshot fetches by outcome.",
		}, []string{"outcome"}),
		BalloonsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "balloon_tracker",
			Name:      "balloons_ingested_total",
			Help:      "Raw coordinate triples accepted by ingestion.",
		}),
		BalloonsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "balloon_tracker",
			Name:      "balloons_dropped_total",
			Help:      "Raw coordinate triples dropped by range/finite validation.",
		}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "balloon_tracker",
			Name:      "weather_requests_total",
			Help:      "Weather provider requests by outcome.",
		}, []string{"outcome"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "balloon_tracker",
			Name:      "weather_api_duration_seconds",
			Help:      "Weather API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		WeatherWarnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "balloon_tracker",
			Name:      "weather_warnings",
			Help:      "Balloons currently flagged dangerous by weather thresholds.",
		}),
		LocationWarnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "balloon_tracker",
			Name:      "location_warnings",
			Help:      "Balloons currently flagged dangerous by location checks.",
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "balloon_tracker",
			Name:      "alerts_published_total",
			Help:      "Danger alerts published to the alerts topic.",
		}),
	}

	prometheus.MustRegister(
		m.TrackerRunning,
		m.RefreshDuration,
		m.SnapshotFetches,
		m.BalloonsIngested,
		m.BalloonsDropped,
		m.WeatherRequests,
		m.WeatherAPIDuration,
		m.WeatherWarnings,
		m.LocationWarnings,
		m.AlertsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		TrackerRunning:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "balloon_tracker", Name: "running"}),
		RefreshDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "balloon_tracker", Name: "refresh_duration_seconds"}),
		SnapshotFetches:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "balloon_tracker", Name: "snapshot_fetches_total"}, []string{"outcome"}),
		BalloonsIngested:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "balloon_tracker", Name: "balloons_ingested_total"}),
		BalloonsDropped:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "balloon_tracker", Name: "balloons_dropped_total"}),
		WeatherRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "balloon_tracker", Name: "weather_requests_total"}, []string{"outcome"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "balloon_tracker", Name: "weather_api_duration_seconds"}),
		WeatherWarnings:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "balloon_tracker", Name: "weather_warnings"}),
		LocationWarnings:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "balloon_tracker", Name: "location_warnings"}),
		AlertsPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "balloon_tracker", Name: "alerts_published_total"}),
	}
}
