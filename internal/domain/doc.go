// Package domain models high-altitude balloon constellation telemetry.
//
// # Data Source
//
// Balloon positions arrive as hourly constellation snapshots from the
// upstream position API: one JSON array per hour offset, each element a raw
// [lon, lat, alt] triple. Altitude is in kilometers. Snapshots carry no
// balloon identity and no timestamp of their own; the hour offset of the
// snapshot URL is the only time information available.
//
// # Identity And Matching
//
// Ingestion assigns sequential synthetic ids ("b-0", "b-1", ...) in arrival
// order within one snapshot. Ids are NOT stable across snapshots: the
// upstream may add, drop, or reorder balloons hour to hour. Correlating a
// balloon across snapshots therefore goes through [MatchHistory], which
// pairs a target position with its nearest neighbor in each historical
// snapshot, bounded by a matching radius in degrees.
//
// Nearest-neighbor ranking uses squared planar distance in degree-space
// rather than great-circle distance. The matching radius is a few degrees,
// so the planar approximation is well within tolerance and much cheaper.
//
// # Prediction
//
// Two short-horizon extrapolation strategies are provided:
//
//	LastDeltaPredictor: constant-velocity, next = last + (last - secondLast).
//	  Needs at least two points of history.
//	WindDriftPredictor: displaces the latest position along the reported
//	  wind vector with a fixed scale constant, iterated N steps. Altitude
//	  drifts toward a 5 km soft equilibrium in 0.1 km steps, clamped to
//	  [0.1, 10] km. Needs a wind sample.
//
// Neither strategy is physically validated; both are documented heuristics
// for drawing a dashed line on a dashboard. When preconditions are unmet
// (too little history, no wind data) a strategy reports "unavailable"
// rather than an error, and the caller draws no predicted line.
//
// # Danger Classification
//
// Weather-based danger uses fixed thresholds: temperature below -30°C,
// pressure below 500 hPa, wind above 20 m/s, or a storm/thunder condition
// string. Checks run in that order and the first hit supplies the
// human-readable reason. Location-based danger (polar latitudes at high
// altitude) is a separate classifier so the two signals can be reported
// independently; the displayed warning is their OR.
//
// # Conventions
//
// All paths are ordered oldest-first: Past[0] of a [FlightPath] is the
// oldest matched position. Wind is an optional field; a nil *Wind means
// the provider reported no wind data, which is distinct from calm air.
package domain
