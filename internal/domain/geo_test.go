package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsOf(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, ok := BoundsOf(nil)
		assert.False(t, ok)
	})

	t.Run("single point gets padded box", func(t *testing.T) {
		b, ok := BoundsOf([]LatLon{{Lat: 10, Lon: 20}})
		require.True(t, ok)
		assert.Equal(t, LatLon{Lat: 9.5, Lon: 19.5}, b.SouthWest)
		assert.Equal(t, LatLon{Lat: 10.5, Lon: 20.5}, b.NorthEast)
	})

	t.Run("contains all points", func(t *testing.T) {
		points := []LatLon{
			{Lat: -12, Lon: 30},
			{Lat: 45, Lon: -80},
			{Lat: 3, Lon: 100},
		}
		b, ok := BoundsOf(points)
		require.True(t, ok)
		for _, p := range points {
			assert.LessOrEqual(t, b.SouthWest.Lat, p.Lat)
			assert.LessOrEqual(t, b.SouthWest.Lon, p.Lon)
			assert.GreaterOrEqual(t, b.NorthEast.Lat, p.Lat)
			assert.GreaterOrEqual(t, b.NorthEast.Lon, p.Lon)
		}
	})

	t.Run("padding clamps at the poles and antimeridian", func(t *testing.T) {
		b, ok := BoundsOf([]LatLon{{Lat: 89.9, Lon: 179.9}})
		require.True(t, ok)
		assert.Equal(t, 90.0, b.NorthEast.Lat)
		assert.Equal(t, 180.0, b.NorthEast.Lon)
	})
}

func TestSquaredPlanarDistance(t *testing.T) {
	assert.Equal(t, 0.0, squaredPlanarDistance(LatLon{Lat: 5, Lon: 5}, LatLon{Lat: 5, Lon: 5}))
	assert.Equal(t, 25.0, squaredPlanarDistance(LatLon{Lat: 0, Lon: 0}, LatLon{Lat: 3, Lon: 4}))
	// Symmetric.
	a, b := LatLon{Lat: 1.5, Lon: -2}, LatLon{Lat: -4, Lon: 7.25}
	assert.Equal(t, squaredPlanarDistance(a, b), squaredPlanarDistance(b, a))
}
