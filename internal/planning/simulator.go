// internal/planning/simulator.go
package planning

import (
	"math"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// coverEpsilon guards the days-of-cover division when both the average and
// today's demand are zero.
const coverEpsilon = 1e-6

// SimOptions configures the order-up-to replenishment policy.
type SimOptions struct {
	OrderUpToDays int
	MinOrderQty   float64
}

// DefaultSimOptions returns the documented policy defaults.
func DefaultSimOptions() SimOptions {
	return SimOptions{OrderUpToDays: 14, MinOrderQty: 0}
}

// InventorySimulator projects on-hand stock day by day under an order-up-to
// policy with lead-time-delayed receipt. One instance simulates one
// facility-item pair; nothing is shared across pairs.
type InventorySimulator struct {
	opts SimOptions
}

func NewInventorySimulator(opts SimOptions) *InventorySimulator {
	if opts.OrderUpToDays <= 0 {
		opts.OrderUpToDays = 14
	}
	if opts.MinOrderQty < 0 {
		opts.MinOrderQty = 0
	}
	return &InventorySimulator{opts: opts}
}

// simState is the mutable per-pair context. PendingOrder entries are owned
// here and dropped on receipt; the emitted InventoryState rows are snapshots.
type simState struct {
	onHand  float64
	pending []domain.PendingOrder
}

// Simulate steps through the series one calendar day at a time. params may
// be nil when reorder parameters could not be computed; the simulation then
// runs in consumption-only mode and never orders.
func (s *InventorySimulator) Simulate(series domain.DemandSeries, startingStock float64, params *domain.ReorderParameters) []domain.InventoryState {
	st := &simState{onHand: math.Max(0, startingStock)}

	canOrder := params != nil && !math.IsNaN(params.ReorderPoint) && params.AvgDailyDemand > 0

	out := make([]domain.InventoryState, 0, len(series.Points))
	for _, p := range series.Points {
		out = append(out, s.step(st, series.Key, p, params, canOrder))
	}
	return out
}

// step runs one day: receive, consume, position, reorder decision, cover.
func (s *InventorySimulator) step(st *simState, key domain.Key, p domain.DemandPoint, params *domain.ReorderParameters, canOrder bool) domain.InventoryState {
	day := p.Date

	// 1) Receive every pending order due today or earlier. Multiple orders
	// may arrive on the same day.
	remaining := st.pending[:0]
	for _, po := range st.pending {
		if !po.ArrivalDate.After(day) {
			st.onHand += po.Quantity
		} else {
			remaining = append(remaining, po)
		}
	}
	st.pending = remaining

	// 2) Consume. Stock floors at zero: a stockout, not a backorder.
	st.onHand = math.Max(0, st.onHand-p.Quantity)

	// 3) Inventory position includes everything still on order.
	var outstanding float64
	for _, po := range st.pending {
		outstanding += po.Quantity
	}
	position := st.onHand + outstanding

	state := domain.InventoryState{
		Key:               key,
		Date:              day,
		Demand:            p.Quantity,
		OnHand:            st.onHand,
		OutstandingQty:    outstanding,
		InventoryPosition: position,
	}

	// 4) Reorder decision under the order-up-to policy. The emitted row
	// keeps the pre-order position and outstanding; the placed order shows
	// up in the next day's snapshot.
	if canOrder && position <= params.ReorderPoint {
		state.ReorderTriggered = true
		orderQty := math.Max(s.opts.MinOrderQty, params.AvgDailyDemand*float64(s.opts.OrderUpToDays))
		if orderQty > 0 {
			ltDays := int(math.Max(0, math.Round(params.LeadTimeDays)))
			arrival := day.AddDate(0, 0, ltDays)
			st.pending = append(st.pending, domain.PendingOrder{ArrivalDate: arrival, Quantity: orderQty})
			state.OrderQty = orderQty
			state.OrderArrival = &arrival
		}
	}

	// 5) Days of cover against the average demand, falling back to today's
	// demand, then to epsilon.
	denom := coverEpsilon
	if canOrder && params.AvgDailyDemand > 0 {
		denom = params.AvgDailyDemand
		state.CoverKnown = true
	} else if p.Quantity > 0 {
		denom = p.Quantity
		state.CoverKnown = true
	}
	state.DaysOfCover = st.onHand / denom

	return state
}

// WorstCase rolls a per-day sequence up to its riskiest day: the minimum
// days of cover, with any reorder trigger carried through.
func WorstCase(states []domain.InventoryState) (domain.InventoryState, bool) {
	if len(states) == 0 {
		return domain.InventoryState{}, false
	}
	worst := states[0]
	triggered := false
	for _, st := range states {
		if st.ReorderTriggered {
			triggered = true
		}
		if st.DaysOfCover < worst.DaysOfCover {
			worst = st
		}
	}
	worst.ReorderTriggered = triggered
	return worst, true
}

// leadTimeOrDefault resolves a pair's lead time, taking the observed value
// when positive and the configured default otherwise.
func leadTimeOrDefault(observed, def float64) float64 {
	if observed > 0 && !math.IsNaN(observed) {
		return observed
	}
	return def
}
