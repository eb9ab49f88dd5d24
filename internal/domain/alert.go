package domain

import "time"

// BalloonAlert is the outbound record for a balloon flagged dangerous.
// Weather- and location-based verdicts ride along separately so downstream
// consumers can distinguish the two signals; the balloon is alert-worthy
// when either is set.
type BalloonAlert struct {
	BalloonID  string        `json:"balloon_id"`
	Position   Position      `json:"position"`
	Weather    WeatherSample `json:"weather"`
	Verdict    DangerVerdict `json:"verdict"`
	Location   DangerVerdict `json:"location_verdict"`
	ObservedAt time.Time     `json:"observed_at"`
}
