// internal/procurement/sourcing.go
package procurement

import (
	"context"
	"fmt"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// Shortage trigger defaults.
const (
	DefaultTriggerCoverDays      = 7.0
	DefaultServiceLevelThreshold = 0.90
)

// ShortageContext carries everything needed to evaluate and source one
// facility-item shortage. ServiceLevel is nil when unobserved.
type ShortageContext struct {
	Key                   domain.Key
	DaysOfCover           float64
	RequiredQty           float64
	TriggerCoverDays      float64
	ServiceLevel          *float64
	ServiceLevelThreshold float64
}

// SourcingSummary is the explanation attached to an emergency plan.
type SourcingSummary struct {
	Key              domain.Key              `json:"key"`
	Shortage         bool                    `json:"shortage"`
	TriggerReason    string                  `json:"trigger_reason"`
	Mode             string                  `json:"mode"`
	RequiredQty      float64                 `json:"required_qty"`
	OptimizerStatus  string                  `json:"optimizer_status"`
	ResidualShortage float64                 `json:"residual_shortage"`
	ObjectiveValue   float64                 `json:"objective_value"`
	TopSuppliers     []domain.RankedSupplier `json:"top_suppliers"`
}

// SourcingPlan is the full emergency sourcing output.
type SourcingPlan struct {
	Summary    SourcingSummary         `json:"summary"`
	Ranked     []domain.RankedSupplier `json:"ranked_suppliers"`
	Allocation *domain.AllocationPlan  `json:"allocation"`
}

// ShortageSourcingEngine orchestrates shortage detection, emergency supplier
// ranking and the emergency optimizer pass.
type ShortageSourcingEngine struct {
	optimizer *ProcurementOptimizer
}

func NewShortageSourcingEngine() *ShortageSourcingEngine {
	return &ShortageSourcingEngine{optimizer: NewProcurementOptimizer()}
}

// Evaluate reports whether the context constitutes a shortage. Either
// trigger alone is sufficient; the first true condition is the reported
// reason.
func (e *ShortageSourcingEngine) Evaluate(ctx ShortageContext) (bool, string) {
	trigger := ctx.TriggerCoverDays
	if trigger <= 0 {
		trigger = DefaultTriggerCoverDays
	}
	if ctx.DaysOfCover <= trigger {
		return true, fmt.Sprintf("days_of_cover=%.2f <= trigger=%.2f", ctx.DaysOfCover, trigger)
	}

	threshold := ctx.ServiceLevelThreshold
	if threshold <= 0 {
		threshold = DefaultServiceLevelThreshold
	}
	if ctx.ServiceLevel != nil && *ctx.ServiceLevel < threshold {
		return true, fmt.Sprintf("service_level=%.2f < threshold=%.2f", *ctx.ServiceLevel, threshold)
	}

	return false, "no_shortage_trigger"
}

// EmergencyPlan ranks the pool with emergency weights and allocates the
// required quantity under the emergency policy. Contracted suppliers are
// preferred as the pool whenever any exist; expiry risk is zeroed because
// speed dominates waste in an emergency.
func (e *ShortageSourcingEngine) EmergencyPlan(ctx context.Context, sctx ShortageContext, offers []domain.SupplierOffer) (*SourcingPlan, error) {
	shortage, reason := e.Evaluate(sctx)

	if len(offers) == 0 {
		return nil, fmt.Errorf("%s/%s: %w", sctx.Key.Facility, sctx.Key.Item, domain.ErrNoSuppliers)
	}

	pool := contractedFirst(offers)
	ranked := Rank(pool, EmergencyRankWeights())

	plan, err := e.optimizer.Optimize(ctx, pool, sctx.RequiredQty, 0, EmergencyPolicy())
	if err != nil {
		return nil, err
	}

	top := ranked
	if len(top) > 3 {
		top = top[:3]
	}

	return &SourcingPlan{
		Summary: SourcingSummary{
			Key:              sctx.Key,
			Shortage:         shortage,
			TriggerReason:    reason,
			Mode:             string(ModeEmergency),
			RequiredQty:      sctx.RequiredQty,
			OptimizerStatus:  plan.SolverStatus,
			ResidualShortage: plan.ResidualShortage,
			ObjectiveValue:   plan.ObjectiveValue,
			TopSuppliers:     top,
		},
		Ranked:     ranked,
		Allocation: plan,
	}, nil
}

// contractedFirst narrows the pool to contracted suppliers when any exist.
func contractedFirst(offers []domain.SupplierOffer) []domain.SupplierOffer {
	var contracted []domain.SupplierOffer
	for _, o := range offers {
		if o.Contracted {
			contracted = append(contracted, o)
		}
	}
	if len(contracted) > 0 {
		return contracted
	}
	return offers
}
