package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapAt(hoursAgo int, coords ...LatLon) Snapshot {
	balloons := make([]Balloon, len(coords))
	for i, c := range coords {
		balloons[i] = Balloon{
			ID:       "b-" + string(rune('0'+i)),
			Position: Position{Lat: c.Lat, Lon: c.Lon, Alt: 5},
		}
	}
	return Snapshot{HoursAgo: hoursAgo, Balloons: balloons}
}

func TestMatchHistory(t *testing.T) {
	frozen := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	target := LatLon{Lat: 10, Lon: 20}

	t.Run("empty snapshot list", func(t *testing.T) {
		assert.Empty(t, MatchHistory(target, nil, DefaultMatchRadiusDeg))
	})

	t.Run("exact point matches at distance zero", func(t *testing.T) {
		snaps := []Snapshot{snapAt(1, LatLon{Lat: 10, Lon: 20})}
		matched := MatchHistory(target, snaps, DefaultMatchRadiusDeg)

		require.Len(t, matched, 1)
		assert.Equal(t, 10.0, matched[0].Lat)
		assert.Equal(t, 20.0, matched[0].Lon)
	})

	t.Run("nearest point wins per snapshot", func(t *testing.T) {
		snaps := []Snapshot{
			snapAt(1, LatLon{Lat: 13, Lon: 20}, LatLon{Lat: 10.5, Lon: 20.5}, LatLon{Lat: 8, Lon: 18}),
		}
		matched := MatchHistory(target, snaps, DefaultMatchRadiusDeg)

		require.Len(t, matched, 1)
		assert.Equal(t, 10.5, matched[0].Lat)
		assert.Equal(t, 20.5, matched[0].Lon)
	})

	t.Run("points beyond the radius contribute nothing", func(t *testing.T) {
		snaps := []Snapshot{
			snapAt(1, LatLon{Lat: 40, Lon: 70}),
			snapAt(2, LatLon{Lat: 10.1, Lon: 20.1}),
		}
		matched := MatchHistory(target, snaps, DefaultMatchRadiusDeg)

		require.Len(t, matched, 1)
		assert.InDelta(t, 10.1, matched[0].Lat, 1e-9)
	})

	t.Run("result is oldest-first regardless of input order", func(t *testing.T) {
		snaps := []Snapshot{
			snapAt(1, LatLon{Lat: 10.1, Lon: 20}),
			snapAt(3, LatLon{Lat: 10.3, Lon: 20}),
			snapAt(2, LatLon{Lat: 10.2, Lon: 20}),
		}
		matched := MatchHistory(target, snaps, DefaultMatchRadiusDeg)

		require.Len(t, matched, 3)
		assert.Equal(t, 10.3, matched[0].Lat)
		assert.Equal(t, 10.2, matched[1].Lat)
		assert.Equal(t, 10.1, matched[2].Lat)
		assert.True(t, matched[0].Timestamp.Before(matched[1].Timestamp))
	})

	t.Run("timestamps are synthesized from hour offsets", func(t *testing.T) {
		snaps := []Snapshot{snapAt(4, LatLon{Lat: 10, Lon: 20})}
		matched := MatchHistory(target, snaps, DefaultMatchRadiusDeg)

		require.Len(t, matched, 1)
		assert.Equal(t, frozen.Add(-4*time.Hour), matched[0].Timestamp)
	})

	t.Run("first minimum wins on ties", func(t *testing.T) {
		snaps := []Snapshot{
			snapAt(1, LatLon{Lat: 11, Lon: 20}, LatLon{Lat: 9, Lon: 20}),
		}
		matched := MatchHistory(target, snaps, DefaultMatchRadiusDeg)

		require.Len(t, matched, 1)
		assert.Equal(t, 11.0, matched[0].Lat)
	})

	t.Run("non-positive radius falls back to the default", func(t *testing.T) {
		snaps := []Snapshot{snapAt(1, LatLon{Lat: 12, Lon: 22})}
		matched := MatchHistory(target, snaps, 0)
		assert.Len(t, matched, 1)
	})
}
