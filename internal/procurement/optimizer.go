// internal/procurement/optimizer.go
package procurement

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/andresuchdata/supplyplan/internal/solver"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// qtyTol filters solver noise out of the reported allocation lines.
const qtyTol = 1e-6

// ProcurementOptimizer allocates a required quantity across a supplier pool
// by mixed-integer linear programming.
//
// Per supplier s: continuous order quantity x_s >= 0 and binary usage flag
// y_s. A soft shortage variable keeps the model feasible for any pool.
//
//	min  wP*sum(x_s * p_s) + wE*sum(x_s * p_s * expiryRate * pctAtRisk)
//	     + wS*shortage*shortagePenalty
//	s.t. sum(x_s) + shortage >= required
//	     x_s <= capacity_s
//	     x_s <= maxShare * required
//	     moq_s * y_s <= x_s <= capacity_s * y_s
type ProcurementOptimizer struct{}

func NewProcurementOptimizer() *ProcurementOptimizer {
	return &ProcurementOptimizer{}
}

// Optimize solves an allocation for the given pool and policy.
// pctValueAtRisk scales the expiry penalty term and comes from the expiry
// risk engine. An empty pool is an explicit error, never a silent empty
// plan.
func (o *ProcurementOptimizer) Optimize(ctx context.Context, offers []domain.SupplierOffer, requiredQty, pctValueAtRisk float64, pol Policy) (*domain.AllocationPlan, error) {
	if len(offers) == 0 {
		return nil, domain.ErrNoSuppliers
	}
	if requiredQty <= 0 {
		return &domain.AllocationPlan{
			RequiredQty:  requiredQty,
			SolverStatus: string(solver.StatusOptimal),
			Mode:         string(pol.Mode),
		}, nil
	}

	model := solver.NewModel("procurement_" + string(pol.Mode))

	x := make([]solver.VarID, len(offers))
	y := make([]solver.VarID, len(offers))
	for i, s := range offers {
		unitCost := pol.WeightProcurement*s.PricePerUnit +
			pol.WeightExpiry*s.PricePerUnit*pol.ExpiryPenaltyRate*pctValueAtRisk
		x[i] = model.AddVar(fmt.Sprintf("x_%s", s.SupplierID), 0, s.CapacityPerPeriod, unitCost)
		y[i] = model.AddBinary(fmt.Sprintf("y_%s", s.SupplierID), 0)
	}
	// The shortage can never usefully exceed the requirement itself; the
	// finite bound keeps the relaxation bounded in every branch.
	shortage := model.AddVar("shortage", 0, requiredQty, pol.WeightShortage*pol.ShortagePenaltyPerUnit)

	// Soft demand: sum(x) + shortage >= required.
	demand := make([]solver.Term, 0, len(offers)+1)
	for i := range offers {
		demand = append(demand, solver.Term{Var: x[i], Coeff: 1})
	}
	demand = append(demand, solver.Term{Var: shortage, Coeff: 1})
	model.AddConstraint("demand_soft", demand, solver.GreaterEq, requiredQty)

	for i, s := range offers {
		// Exposure cap.
		model.AddConstraint(fmt.Sprintf("share_cap_%s", s.SupplierID),
			[]solver.Term{{Var: x[i], Coeff: 1}},
			solver.LessEq, pol.MaxShare*requiredQty)

		// MOQ linkage: a supplier is either unused or ordered at least
		// its minimum order quantity.
		model.AddConstraint(fmt.Sprintf("moq_min_%s", s.SupplierID),
			[]solver.Term{{Var: x[i], Coeff: 1}, {Var: y[i], Coeff: -s.MinOrderQty}},
			solver.GreaterEq, 0)
		model.AddConstraint(fmt.Sprintf("moq_link_%s", s.SupplierID),
			[]solver.Term{{Var: x[i], Coeff: 1}, {Var: y[i], Coeff: -s.CapacityPerPeriod}},
			solver.LessEq, 0)
	}

	sol, err := model.Solve(ctx)
	if err != nil {
		if sol != nil && sol.Status == solver.StatusInfeasible {
			// Should not happen with the soft demand constraint; log the
			// whole constraint context for diagnosis.
			log.Error().Str("mode", string(pol.Mode)).Float64("required_qty", requiredQty).
				Int("suppliers", len(offers)).Err(err).
				Msg("procurement model reported infeasible")
			return nil, fmt.Errorf("allocation for %.2f units over %d suppliers: %w",
				requiredQty, len(offers), domain.ErrInfeasible)
		}
		return nil, err
	}

	plan := &domain.AllocationPlan{
		RequiredQty:      requiredQty,
		ResidualShortage: sol.Value(shortage),
		ObjectiveValue:   sol.Objective,
		SolverStatus:     string(sol.Status),
		Mode:             string(pol.Mode),
	}

	cost := decimal.Zero
	for i, s := range offers {
		qty := sol.Value(x[i])
		if qty <= qtyTol {
			continue
		}
		plan.Lines = append(plan.Lines, domain.AllocationLine{
			SupplierID:   s.SupplierID,
			SupplierName: s.SupplierName,
			OrderedQty:   qty,
			Used:         math.Round(sol.Value(y[i])) == 1,
			PricePerUnit: s.PricePerUnit,
		})
		cost = cost.Add(decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(s.PricePerUnit)))
	}
	plan.ProcurementCost = cost.Round(2)

	// Largest allocations first.
	sort.SliceStable(plan.Lines, func(i, j int) bool {
		return plan.Lines[i].OrderedQty > plan.Lines[j].OrderedQty
	})

	return plan, nil
}
