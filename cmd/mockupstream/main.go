// Command mockupstream serves synthetic constellation snapshots and canned
// weather so the tracker can run locally without the real upstream APIs.
// It can also dump the generated snapshots to a fixture directory for test
// suites that want stable data.
//
// Usage:
//
//	go run ./cmd/mockupstream -addr :8099 -balloons 50
//	CONSTELLATION_BASE_URL=http://localhost:8099/treasure \
//	WEATHER_BASE_URL=http://localhost:8099/v1 \
//	go run ./cmd/tracker
//
//	go run ./cmd/mockupstream -fixtures-out data/mock
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	addr := flag.String("addr", ":8099", "listen address")
	balloons := flag.Int("balloons", 50, "balloons per snapshot")
	seed := flag.Int64("seed", 1, "rng seed, fixed by default so runs are reproducible")
	fixturesOut := flag.String("fixtures-out", "", "write snapshots to this directory instead of serving")
	flag.Parse()

	gen := newGenerator(*balloons, *seed)

	if *fixturesOut != "" {
		return writeFixtures(gen, *fixturesOut)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /treasure/{hour}", gen.handleSnapshot)
	mux.HandleFunc("GET /v1/forecast", handleWeather)

	log.Printf("mock upstream listening on %s (%d balloons per snapshot)", *addr, *balloons)
	return http.ListenAndServe(*addr, mux)
}

// generator produces deterministic drifting constellations: each balloon
// follows a fixed per-balloon velocity, so older snapshots place it further
// back along the same track. That gives the history matcher something
// coherent to thread.
type generator struct {
	count int
	seeds []balloonSeed
}

type balloonSeed struct {
	lat, lon, alt float64
	dLat, dLon    float64
}

func newGenerator(count int, seed int64) *generator {
	rng := rand.New(rand.NewSource(seed))
	seeds := make([]balloonSeed, count)
	for i := range seeds {
		seeds[i] = balloonSeed{
			lat:  rng.Float64()*160 - 80,
			lon:  rng.Float64()*360 - 180,
			alt:  rng.Float64()*12 + 2,
			dLat: rng.Float64()*0.4 - 0.2,
			dLon: rng.Float64()*0.6 - 0.3,
		}
	}
	return &generator{count: count, seeds: seeds}
}

// snapshot renders the constellation hoursAgo hours back along each track.
// A few entries are deliberately malformed to exercise ingestion filtering.
func (g *generator) snapshot(hoursAgo int) [][]float64 {
	triples := make([][]float64, 0, g.count+2)
	for _, s := range g.seeds {
		lat := s.lat - s.dLat*float64(hoursAgo)
		lon := s.lon - s.dLon*float64(hoursAgo)
		if lat > 90 || lat < -90 {
			lat = math.Copysign(89.9, lat)
		}
		if lon > 180 {
			lon -= 360
		}
		if lon < -180 {
			lon += 360
		}
		triples = append(triples, []float64{round4(lon), round4(lat), round4(s.alt)})
	}
	triples = append(triples, []float64{999, 12.3, 5.0}) // out-of-range lon
	triples = append(triples, []float64{10.0, 20.0})     // truncated triple
	return triples
}

func (g *generator) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSuffix(r.PathValue("hour"), ".json")
	hour, err := strconv.Atoi(raw)
	if err != nil || hour < 0 || hour > 23 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(g.snapshot(hour))
}

// handleWeather answers the Open-Meteo current-weather shape with values
// derived from the coordinate, so polar balloons come back cold enough to
// trip the classifier.
func handleWeather(w http.ResponseWriter, r *http.Request) {
	lat, _ := strconv.ParseFloat(r.URL.Query().Get("latitude"), 64)

	temp := 25.0 - math.Abs(lat)*0.8
	payload := map[string]any{
		"current": map[string]any{
			"temperature_2m":     round4(temp),
			"surface_pressure":   1010.0,
			"wind_speed_10m":     6.5,
			"wind_direction_10m": 230.0,
			"weather_code":       3,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeFixtures(gen *generator, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for hour := 0; hour < 24; hour++ {
		data, err := json.Marshal(gen.snapshot(hour))
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("%02d.json", hour))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
	}
	log.Printf("wrote 24 snapshot fixtures to %s", dir)
	return nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
