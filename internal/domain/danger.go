package domain

import (
	"fmt"
	"strings"
)

// Weather danger thresholds. Earlier deployments used -40°C and 300 hPa;
// the current values are the canonical ones and are part of the public
// contract.
const (
	ColdThresholdC   = -30.0
	LowPressureHPa   = 500.0
	HighWindSpeedMS  = 20.0
	polarLatitudeDeg = 66.5
	polarDangerAltKm = 8.0
)

// Classify evaluates a weather sample against fixed thresholds. Checks run
// in a fixed order (cold, pressure, wind, storm conditions) and the first
// hit supplies the reason; only one reason is surfaced even when several
// conditions hold. Wind is skipped when the sample carries no wind data.
func Classify(w WeatherSample) DangerVerdict {
	if w.Temperature < ColdThresholdC {
		return DangerVerdict{
			Dangerous: true,
			Reason:    fmt.Sprintf("Extreme cold temperature: %.1f°C", w.Temperature),
		}
	}
	if w.Pressure < LowPressureHPa {
		return DangerVerdict{
			Dangerous: true,
			Reason:    fmt.Sprintf("Dangerously low pressure: %.1f hPa", w.Pressure),
		}
	}
	if w.Wind != nil && w.Wind.Speed > HighWindSpeedMS {
		return DangerVerdict{Dangerous: true, Reason: "High wind speeds"}
	}
	if desc := strings.ToLower(w.Description); strings.Contains(desc, "storm") || strings.Contains(desc, "thunder") {
		return DangerVerdict{Dangerous: true, Reason: "Severe storm in the area"}
	}
	return DangerVerdict{}
}

// LocationDanger flags positions that are inherently risky independent of
// weather: polar latitude bands at high altitude, where recovery is
// impractical and icing is likely. Reported separately from weather-based
// danger; the displayed warning is the OR of the two.
func LocationDanger(lat, _ float64, altKm float64) DangerVerdict {
	if (lat >= polarLatitudeDeg || lat <= -polarLatitudeDeg) && altKm > polarDangerAltKm {
		return DangerVerdict{
			Dangerous: true,
			Reason:    fmt.Sprintf("Polar region at high altitude: %.1f km", altKm),
		}
	}
	return DangerVerdict{}
}
