// internal/planning/reorder.go
package planning

import (
	"fmt"
	"math"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// DefaultServiceLevelZ maps the default 95% target service level to its
// z-score. Callers override it to model stricter or looser service levels.
const DefaultServiceLevelZ = 1.65

// ReorderEngine computes safety stock and reorder points from forecasted
// demand statistics and lead time. Pure: identical inputs always yield
// identical parameters.
type ReorderEngine struct {
	ServiceLevelZ float64
}

// NewReorderEngine returns an engine at the default service level.
func NewReorderEngine() *ReorderEngine {
	return &ReorderEngine{ServiceLevelZ: DefaultServiceLevelZ}
}

// Compute derives ReorderParameters for one facility-item pair.
//
//	safety_stock  = z * sigma * sqrt(lead_time)
//	reorder_point = mu * lead_time + safety_stock
//
// A missing or non-positive lead time yields ErrInsufficientData so the
// batch layer can skip the pair without aborting the run.
func (e *ReorderEngine) Compute(series domain.DemandSeries, leadTimeDays float64) (domain.ReorderParameters, error) {
	if len(series.Points) == 0 {
		return domain.ReorderParameters{}, fmt.Errorf("%s/%s: empty demand series: %w",
			series.Key.Facility, series.Key.Item, domain.ErrInsufficientData)
	}
	if math.IsNaN(leadTimeDays) || leadTimeDays <= 0 {
		return domain.ReorderParameters{}, fmt.Errorf("%s/%s: lead time %.1f not usable: %w",
			series.Key.Facility, series.Key.Item, leadTimeDays, domain.ErrInsufficientData)
	}

	z := e.ServiceLevelZ
	if z == 0 {
		z = DefaultServiceLevelZ
	}

	avg := series.Mean()
	std := series.StdDev()
	safetyStock := z * std * math.Sqrt(leadTimeDays)
	reorderPoint := avg*leadTimeDays + safetyStock

	return domain.ReorderParameters{
		Key:            series.Key,
		AvgDailyDemand: avg,
		DemandStdDev:   std,
		LeadTimeDays:   leadTimeDays,
		SafetyStock:    safetyStock,
		ReorderPoint:   reorderPoint,
	}, nil
}
