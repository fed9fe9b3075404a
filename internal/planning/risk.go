// internal/planning/risk.go
package planning

import "github.com/andresuchdata/supplyplan/internal/domain"

// ClassifyRisk assigns the inventory risk level for one simulated state.
// Pure function, no side effects.
//
// The rule order is a fixed policy, checked most-severe first so ties stay
// deterministic. Do not reorder these without sign-off from the planning
// owner: an earlier revision checked erratic volatility before the cover
// thresholds and the two orderings disagree on edge rows.
func ClassifyRisk(state domain.InventoryState, volatility domain.VolatilityClass) domain.RiskLevel {
	// Unobservable coverage is treated as maximal risk.
	if !state.CoverKnown {
		return domain.RiskHigh
	}
	if state.ReorderTriggered {
		return domain.RiskHigh
	}
	if state.DaysOfCover <= 3 {
		return domain.RiskHigh
	}
	// Unknown volatility gets the same conservative treatment as erratic.
	if volatility == domain.VolatilityErratic || volatility == domain.VolatilityUnknown {
		return domain.RiskHigh
	}
	if state.DaysOfCover <= 7 || volatility == domain.VolatilitySeasonal {
		return domain.RiskMedium
	}
	return domain.RiskLow
}
