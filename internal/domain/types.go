package domain

import "time"

// LatLon is a WGS-84 latitude/longitude pair in decimal degrees.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Position is a balloon fix: coordinates, altitude in kilometers, and the
// instant the fix was observed (synthesized from the snapshot hour offset).
type Position struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Alt       float64   `json:"alt"`
	Timestamp time.Time `json:"timestamp"`
}

// LatLon returns the coordinate pair of the position.
func (p Position) LatLon() LatLon {
	return LatLon{Lat: p.Lat, Lon: p.Lon}
}

// Balloon is one constellation member within a single snapshot. The id is
// assigned by ingestion order and is only meaningful within that snapshot.
type Balloon struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
}

// Snapshot holds every balloon reported for one hour offset. HoursAgo is 0
// for the current constellation state.
type Snapshot struct {
	HoursAgo   int       `json:"hours_ago"`
	ObservedAt time.Time `json:"observed_at"`
	Balloons   []Balloon `json:"balloons"`
}

// Wind is a reported wind vector. Direction follows the meteorological
// convention: degrees clockwise from north in [0, 360).
type Wind struct {
	Speed        float64 `json:"speed"`         // m/s
	DirectionDeg float64 `json:"direction_deg"` // [0, 360)
}

// WeatherSample is a point weather observation. Wind is nil when the
// upstream source reports no wind data; consumers must treat that as
// "no wind-adjusted prediction available", not as zero wind.
type WeatherSample struct {
	Temperature float64 `json:"temperature"` // °C
	Pressure    float64 `json:"pressure"`    // hPa
	Wind        *Wind   `json:"wind,omitempty"`
	Description string  `json:"description,omitempty"`
}

// DefaultWeatherSample is the safe fallback substituted when a weather
// fetch fails or returns a malformed payload: standard-atmosphere sea-level
// pressure, a mild temperature, and no wind. It never trips the classifier.
func DefaultWeatherSample() WeatherSample {
	return WeatherSample{Temperature: 15.0, Pressure: 1013.25}
}

// DangerVerdict is the outcome of a danger check. Reason is set iff
// Dangerous is true.
type DangerVerdict struct {
	Dangerous bool   `json:"dangerous"`
	Reason    string `json:"reason,omitempty"`
}

// FlightPath is the per-balloon output of matching plus prediction, both
// legs ordered oldest-first. Predicted is empty when fewer than two usable
// points were available to seed the extrapolation (or wind was missing,
// depending on the strategy).
type FlightPath struct {
	Past      []LatLon `json:"past"`
	Predicted []LatLon `json:"predicted"`
}
