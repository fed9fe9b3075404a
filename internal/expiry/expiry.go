// internal/expiry/expiry.go

// Package expiry computes at-risk inventory metrics from lot-level expiry
// dates. Its pct-at-risk output feeds the procurement optimizer's expiry
// penalty term.
package expiry

import (
	"time"

	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Risk class cutoffs on the 90-day at-risk fraction.
const (
	highRiskPct = 0.30
	medRiskPct  = 0.10
)

// Result holds the expiry exposure of one facility-item's lot stock.
type Result struct {
	TotalQty     float64         `json:"total_qty"`
	Expiring30   float64         `json:"expiring_30"`
	Expiring60   float64         `json:"expiring_60"`
	Expiring90   float64         `json:"expiring_90"`
	PctAtRisk90  float64         `json:"pct_at_risk_90"`
	ValueAtRisk  decimal.Decimal `json:"value_at_risk_90"`
	RiskClass    string          `json:"risk_class"`
}

// Engine computes expiry risk from lots. Stateless; safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Compute aggregates expiring quantities at 30/60/90 day horizons from
// today. Value at risk prices the 90-day at-risk units at each lot's unit
// cost.
func (e *Engine) Compute(lots []domain.Lot, today time.Time) Result {
	today = today.Truncate(24 * time.Hour)

	if len(lots) == 0 {
		return Result{RiskClass: "LOW", ValueAtRisk: decimal.Zero}
	}

	cut30 := today.AddDate(0, 0, 30)
	cut60 := today.AddDate(0, 0, 60)
	cut90 := today.AddDate(0, 0, 90)

	var res Result
	valueAtRisk := decimal.Zero
	for _, lot := range lots {
		res.TotalQty += lot.QtyOnHand
		if !lot.ExpiryDate.After(cut30) {
			res.Expiring30 += lot.QtyOnHand
		}
		if !lot.ExpiryDate.After(cut60) {
			res.Expiring60 += lot.QtyOnHand
		}
		if !lot.ExpiryDate.After(cut90) {
			res.Expiring90 += lot.QtyOnHand
			valueAtRisk = valueAtRisk.Add(
				decimal.NewFromFloat(lot.QtyOnHand).Mul(decimal.NewFromFloat(lot.UnitCost)))
		}
	}

	if res.TotalQty > 0 {
		res.PctAtRisk90 = res.Expiring90 / res.TotalQty
	}
	res.ValueAtRisk = valueAtRisk.Round(2)

	switch {
	case res.PctAtRisk90 >= highRiskPct:
		res.RiskClass = "HIGH"
	case res.PctAtRisk90 >= medRiskPct:
		res.RiskClass = "MED"
	default:
		res.RiskClass = "LOW"
	}

	return res
}
