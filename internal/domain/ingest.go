package domain

import (
	"fmt"
	"math"
	"time"
)

// IngestSnapshot converts raw [lon, lat, alt] triples into a Snapshot,
// dropping invalid entries. A triple is invalid when it has fewer than
// three elements, any component is non-finite, or lat/lon fall outside
// their ranges. Invalid triples are dropped, never coerced; the relative
// order of accepted triples is preserved.
//
// Ids are sequential over the accepted triples ("b-0", "b-1", ...) and are
// only meaningful within this snapshot.
func IngestSnapshot(triples [][]float64, hoursAgo int, observedAt time.Time) Snapshot {
	balloons := make([]Balloon, 0, len(triples))
	for _, t := range triples {
		if !validTriple(t) {
			continue
		}
		lon, lat, alt := t[0], t[1], t[2]
		balloons = append(balloons, Balloon{
			ID: fmt.Sprintf("b-%d", len(balloons)),
			Position: Position{
				Lat:       lat,
				Lon:       lon,
				Alt:       alt,
				Timestamp: observedAt,
			},
		})
	}
	return Snapshot{HoursAgo: hoursAgo, ObservedAt: observedAt, Balloons: balloons}
}

func validTriple(t []float64) bool {
	if len(t) < 3 {
		return false
	}
	for _, v := range t[:3] {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	lon, lat := t[0], t[1]
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
