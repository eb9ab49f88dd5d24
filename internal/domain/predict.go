package domain

import (
	"math"
	"time"
)

// Wind-drift model constants. The scale factor converts m/s of wind into
// degrees of displacement per step; the altitude terms pull each step
// toward a soft equilibrium.
const (
	windDriftScale    = 0.001
	altStepKm         = 0.1
	altEquilibriumKm  = 5.0
	altMinKm          = 0.1
	altMaxKm          = 10.0
	DefaultDriftSteps = 20
)

// predictStepInterval is the nominal time between predicted points.
const predictStepInterval = time.Hour

// Predictor extrapolates future positions from a balloon's matched history
// and, optionally, its latest weather sample. The path must be ordered
// oldest-first. Implementations never mutate their inputs and return
// ok=false when their preconditions are unmet (insufficient history,
// missing wind data); callers must degrade gracefully rather than treat
// that as an error.
type Predictor interface {
	Predict(path []Position, weather *WeatherSample) ([]Position, bool)
}

// LastDeltaPredictor is a single-step constant-velocity model: the lat/lon
// delta between the last two points of the path is applied once more.
// Weather is ignored.
type LastDeltaPredictor struct{}

func (LastDeltaPredictor) Predict(path []Position, _ *WeatherSample) ([]Position, bool) {
	if len(path) < 2 {
		return nil, false
	}
	last := path[len(path)-1]
	prev := path[len(path)-2]

	next := last
	next.Lat = last.Lat + (last.Lat - prev.Lat)
	next.Lon = last.Lon + (last.Lon - prev.Lon)
	next.Timestamp = last.Timestamp.Add(predictStepInterval)
	return []Position{next}, true
}

// WindDriftPredictor displaces the latest position along the reported wind
// vector, Steps times, each iteration feeding its output back in as the
// next input. Altitude drifts altStepKm toward altEquilibriumKm per step
// and is clamped to [altMinKm, altMaxKm]. Requires at least one point and
// a wind sample.
type WindDriftPredictor struct {
	Steps int
}

func (p WindDriftPredictor) Predict(path []Position, weather *WeatherSample) ([]Position, bool) {
	if len(path) == 0 || weather == nil || weather.Wind == nil {
		return nil, false
	}
	steps := p.Steps
	if steps <= 0 {
		steps = DefaultDriftSteps
	}

	wind := *weather.Wind
	cur := path[len(path)-1]
	out := make([]Position, 0, steps)
	for i := 0; i < steps; i++ {
		cur = driftStep(cur, wind)
		out = append(out, cur)
	}
	return out, true
}

// driftStep advances one position by one wind-drift iteration.
func driftStep(p Position, w Wind) Position {
	dirRad := w.DirectionDeg * math.Pi / 180

	next := p
	next.Lon = p.Lon + math.Sin(dirRad)*w.Speed*windDriftScale
	next.Lat = p.Lat + math.Cos(dirRad)*w.Speed*windDriftScale
	if p.Alt > altEquilibriumKm {
		next.Alt = p.Alt - altStepKm
	} else {
		next.Alt = p.Alt + altStepKm
	}
	next.Alt = clampF(next.Alt, altMinKm, altMaxKm)
	next.Timestamp = p.Timestamp.Add(predictStepInterval)
	return next
}
