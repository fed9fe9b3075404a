// internal/planning/volatility.go
package planning

import "github.com/andresuchdata/supplyplan/internal/domain"

// Coefficient-of-variation thresholds separating the volatility classes.
const (
	cvSmoothMax   = 0.25
	cvSeasonalMax = 0.60
)

// VolatilityResult is the classified volatility of one demand series.
type VolatilityResult struct {
	Key   domain.Key             `json:"key"`
	Mean  float64                `json:"mean"`
	Std   float64                `json:"std"`
	CV    float64                `json:"cv"`
	Class domain.VolatilityClass `json:"class"`
}

// ClassifyVolatility labels a demand series by its coefficient of variation.
// A non-positive mean makes the CV undefined; those series are labeled
// unknown instead of being excluded.
func ClassifyVolatility(series domain.DemandSeries) VolatilityResult {
	mean := series.Mean()
	std := series.StdDev()

	res := VolatilityResult{Key: series.Key, Mean: mean, Std: std}
	if mean <= 0 {
		res.Class = domain.VolatilityUnknown
		return res
	}

	res.CV = std / mean
	switch {
	case res.CV < cvSmoothMax:
		res.Class = domain.VolatilitySmooth
	case res.CV <= cvSeasonalMax:
		res.Class = domain.VolatilitySeasonal
	default:
		res.Class = domain.VolatilityErratic
	}
	return res
}
