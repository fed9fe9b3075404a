package domain

import "time"

// PlanFilter narrows a planning run or a plan lookup to a subset of
// facility-item pairs. Empty fields match everything.
type PlanFilter struct {
	Facility string `json:"facility" form:"facility"`
	Item     string `json:"item" form:"item"`
	Risk     string `json:"risk" form:"risk"`
}

// PlanRow is the per-pair summary of one planning run: the computed reorder
// policy, the worst simulated day, and the resulting risk call.
type PlanRow struct {
	Key              Key                `json:"key"`
	Parameters       *ReorderParameters `json:"parameters,omitempty"`
	Volatility       VolatilityClass    `json:"volatility_class"`
	CV               float64            `json:"cv"`
	MinDaysOfCover   float64            `json:"min_days_of_cover"`
	CoverKnown       bool               `json:"cover_known"`
	ReorderTriggered bool               `json:"reorder_triggered"`
	Risk             RiskLevel          `json:"risk_level"`
	Degraded         bool               `json:"degraded"`
}

// PlanSummary is the output of one planning run across all pairs.
type PlanSummary struct {
	GeneratedAt time.Time `json:"generated_at"`
	Rows        []PlanRow `json:"rows"`
	Skipped     []Key     `json:"skipped,omitempty"`
}
