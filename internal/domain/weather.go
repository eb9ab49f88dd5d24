package domain

import "context"

// WeatherProvider supplies point weather observations for a coordinate.
type WeatherProvider interface {
	// CurrentWeather returns the latest observation near lat/lon.
	CurrentWeather(ctx context.Context, lat, lon float64) (WeatherSample, error)
}
