// Package openmeteo implements domain.WeatherProvider against the
// Open-Meteo forecast API, plus the per-coordinate request throttle that
// keeps the dashboard from hammering the API with near-duplicate queries.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/balloon-tracker/internal/domain"
	"github.com/couchcryptid/balloon-tracker/internal/observability"
)

// Client implements domain.WeatherProvider using the Open-Meteo API.
// No API token is required.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo weather client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// CurrentWeather fetches the latest observation near lat/lon. Wind fields
// are optional in the payload; when either speed or direction is missing
// the returned sample carries no wind data at all.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (domain.WeatherSample, error) {
	params := url.Values{
		"latitude":        {fmt.Sprintf("%.4f", lat)},
		"longitude":       {fmt.Sprintf("%.4f", lon)},
		"current":         {"temperature_2m,surface_pressure,wind_speed_10m,wind_direction_10m,weather_code"},
		"wind_speed_unit": {"ms"},
	}
	fullURL := fmt.Sprintf("%s/forecast?%s", c.baseURL, params.Encode())

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.WeatherSample{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return domain.WeatherSample{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherSample{}, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return domain.WeatherSample{}, fmt.Errorf("decode response: %w", err)
	}

	cur := payload.Current
	if cur.Temperature == nil || cur.Pressure == nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return domain.WeatherSample{}, fmt.Errorf("open-meteo payload missing temperature/pressure")
	}

	sample := domain.WeatherSample{
		Temperature: *cur.Temperature,
		Pressure:    *cur.Pressure,
		Description: describeWeatherCode(cur.WeatherCode),
	}
	if cur.WindSpeed != nil && cur.WindDirection != nil {
		sample.Wind = &domain.Wind{Speed: *cur.WindSpeed, DirectionDeg: *cur.WindDirection}
	}

	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	return sample, nil
}

// describeWeatherCode maps a WMO weather interpretation code to a short
// condition string. Only the buckets the classifier cares about are spelled
// out; everything else collapses to a generic label.
func describeWeatherCode(code *int) string {
	if code == nil {
		return ""
	}
	switch {
	case *code >= 95:
		return "Thunderstorm"
	case *code >= 71 && *code <= 77:
		return "Snow"
	case *code >= 51 && *code <= 67:
		return "Rain"
	case *code >= 80 && *code <= 82:
		return "Rain showers"
	case *code >= 85 && *code <= 86:
		return "Snow showers"
	case *code >= 45 && *code <= 48:
		return "Fog"
	case *code <= 3:
		return "Clear"
	default:
		return "Cloudy"
	}
}

// Open-Meteo API response types. Pointers distinguish absent fields from
// legitimate zero values.

type response struct {
	Current current `json:"current"`
}

type current struct {
	Temperature   *float64 `json:"temperature_2m"`
	Pressure      *float64 `json:"surface_pressure"`
	WindSpeed     *float64 `json:"wind_speed_10m"`
	WindDirection *float64 `json:"wind_direction_10m"`
	WeatherCode   *int     `json:"weather_code"`
}
