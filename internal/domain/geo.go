package domain

// boundsPaddingDeg is the fixed margin added around computed viewport
// bounds so markers near the edge are not clipped by the map frame.
const boundsPaddingDeg = 0.5

// Bounds is a south-west/north-east viewport box.
type Bounds struct {
	SouthWest LatLon `json:"south_west"`
	NorthEast LatLon `json:"north_east"`
}

// BoundsOf computes a padded box containing all points, for fitting a map
// viewport. There is no accuracy requirement beyond containment; the
// padding is clamped to valid coordinate ranges. Returns ok=false for an
// empty input.
func BoundsOf(points []LatLon) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLon, maxLon := points[0].Lon, points[0].Lon
	for _, p := range points[1:] {
		if p.Lat < minLat {
			minLat = p.Lat
		}
		if p.Lat > maxLat {
			maxLat = p.Lat
		}
		if p.Lon < minLon {
			minLon = p.Lon
		}
		if p.Lon > maxLon {
			maxLon = p.Lon
		}
	}

	return Bounds{
		SouthWest: LatLon{Lat: clampF(minLat-boundsPaddingDeg, -90, 90), Lon: clampF(minLon-boundsPaddingDeg, -180, 180)},
		NorthEast: LatLon{Lat: clampF(maxLat+boundsPaddingDeg, -90, 90), Lon: clampF(maxLon+boundsPaddingDeg, -180, 180)},
	}, true
}

// squaredPlanarDistance is the squared Euclidean distance between two
// coordinates in degree-space. Deliberately not great-circle: it is used
// only to rank nearest-match candidates within a radius of a few degrees,
// where the planar approximation is fine and the missing sqrt is free speed.
func squaredPlanarDistance(a, b LatLon) float64 {
	dLat := a.Lat - b.Lat
	dLon := a.Lon - b.Lon
	return dLat*dLat + dLon*dLon
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
