package domain

import "strings"

// RiskLevel is the discrete inventory risk for one facility-item pair.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// VolatilityClass labels how unstable a demand series is, derived from its
// coefficient of variation.
type VolatilityClass string

const (
	VolatilitySmooth   VolatilityClass = "smooth"
	VolatilitySeasonal VolatilityClass = "seasonal"
	VolatilityErratic  VolatilityClass = "erratic"
	VolatilityUnknown  VolatilityClass = "unknown"
)

// ParseVolatilityClass normalizes a free-form label from upstream forecast
// metadata. Unrecognized labels map to unknown rather than failing the row.
func ParseVolatilityClass(s string) VolatilityClass {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "smooth", "low", "stable":
		return VolatilitySmooth
	case "seasonal", "medium":
		return VolatilitySeasonal
	case "erratic", "high":
		return VolatilityErratic
	default:
		return VolatilityUnknown
	}
}

// RiskAssessment pairs a facility-item with its classified risk.
type RiskAssessment struct {
	Key         Key             `json:"key"`
	Risk        RiskLevel       `json:"risk"`
	Volatility  VolatilityClass `json:"volatility"`
	DaysOfCover float64         `json:"days_of_cover"`
	CoverKnown  bool            `json:"cover_known"`
}
