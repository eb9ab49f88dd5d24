package domain

import (
	"sort"
	"time"
)

// DefaultMatchRadiusDeg bounds how far, in degrees, a historical point may
// sit from the target and still count as the same balloon.
const DefaultMatchRadiusDeg = 5.0

// MatchHistory threads a balloon's track through a set of historical
// snapshots. For each snapshot it picks the balloon nearest to target by
// squared planar distance and accepts it only within radiusDeg (ties go to
// the first minimum encountered, so results are deterministic for a fixed
// snapshot order). Snapshots that contain no acceptable point contribute
// nothing.
//
// Matched positions are stamped with a synthesized time of now minus the
// snapshot's hour offset, since upstream snapshots carry no timestamps.
// The result is ordered oldest-first regardless of input snapshot order.
// An empty result means "no history", not an error.
func MatchHistory(target LatLon, snapshots []Snapshot, radiusDeg float64) []Position {
	if radiusDeg <= 0 {
		radiusDeg = DefaultMatchRadiusDeg
	}
	maxSq := radiusDeg * radiusDeg
	now := clock.Now()

	ordered := make([]Snapshot, len(snapshots))
	copy(ordered, snapshots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].HoursAgo > ordered[j].HoursAgo
	})

	matched := make([]Position, 0, len(ordered))
	for _, snap := range ordered {
		pos, ok := nearestWithin(target, snap.Balloons, maxSq)
		if !ok {
			continue
		}
		pos.Timestamp = now.Add(-time.Duration(snap.HoursAgo) * time.Hour)
		matched = append(matched, pos)
	}
	return matched
}

// nearestWithin scans balloons for the closest position to target,
// accepting it only if its squared distance is under maxSq.
func nearestWithin(target LatLon, balloons []Balloon, maxSq float64) (Position, bool) {
	var (
		best   Position
		bestSq = maxSq
		found  bool
	)
	for _, b := range balloons {
		sq := squaredPlanarDistance(target, b.Position.LatLon())
		if sq < bestSq {
			bestSq = sq
			best = b.Position
			found = true
		}
	}
	return best, found
}
