package procurement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

func poolOffer(id string, price, capacity, moq float64) domain.SupplierOffer {
	return domain.SupplierOffer{
		SupplierID:        id,
		SupplierName:      "Supplier " + id,
		PricePerUnit:      price,
		CapacityPerPeriod: capacity,
		MinOrderQty:       moq,
	}
}

func lineFor(t *testing.T, plan *domain.AllocationPlan, id string) domain.AllocationLine {
	t.Helper()
	for _, l := range plan.Lines {
		if l.SupplierID == id {
			return l
		}
	}
	t.Fatalf("no allocation line for %s", id)
	return domain.AllocationLine{}
}

func TestOptimize_TwoSupplierSplit(t *testing.T) {
	// 30000 required: the cheap supplier fills its 20000 capacity, the
	// pricier one covers the remaining 10000.
	offers := []domain.SupplierOffer{
		poolOffer("CHEAP", 1.0, 20000, 0),
		poolOffer("PRICEY", 2.0, 15000, 0),
	}

	plan, err := NewProcurementOptimizer().Optimize(context.Background(), offers, 30000, 0, NormalPolicy())
	require.NoError(t, err)
	require.Len(t, plan.Lines, 2)

	assert.InDelta(t, 20000, lineFor(t, plan, "CHEAP").OrderedQty, 1e-3)
	assert.InDelta(t, 10000, lineFor(t, plan, "PRICEY").OrderedQty, 1e-3)
	assert.InDelta(t, 0, plan.ResidualShortage, 1e-3)

	// Lines come back largest first.
	assert.Equal(t, "CHEAP", plan.Lines[0].SupplierID)
	assert.InDelta(t, 40000, plan.ProcurementCost.InexactFloat64(), 0.01)
}

func TestOptimize_AmpleCapacitySplitAtExposureCap(t *testing.T) {
	// Both suppliers could cover the whole requirement alone, so only the
	// 70% exposure cap splits the order: the cheap supplier takes 21000 and
	// the dearer one the remaining 9000, well above its MOQ. Nothing may
	// land in shortage.
	offers := []domain.SupplierOffer{
		poolOffer("S1", 0.12, 50000, 1000),
		poolOffer("S2", 0.10, 100000, 5000),
	}

	plan, err := NewProcurementOptimizer().Optimize(context.Background(), offers, 30000, 0, NormalPolicy())
	require.NoError(t, err)
	require.Len(t, plan.Lines, 2)

	assert.InDelta(t, 21000, lineFor(t, plan, "S2").OrderedQty, 1e-3)
	assert.InDelta(t, 9000, lineFor(t, plan, "S1").OrderedQty, 1e-3)
	assert.InDelta(t, 0, plan.ResidualShortage, 1e-3)
	assert.InDelta(t, 3180, plan.ProcurementCost.InexactFloat64(), 0.01)
}

func TestOptimize_ExposureCap(t *testing.T) {
	// A single huge supplier is still capped at 70% of the requirement;
	// buying the remainder is impossible so it lands in shortage.
	offers := []domain.SupplierOffer{poolOffer("ONLY", 1.0, 100000, 0)}

	plan, err := NewProcurementOptimizer().Optimize(context.Background(), offers, 10000, 0, NormalPolicy())
	require.NoError(t, err)
	require.Len(t, plan.Lines, 1)

	assert.InDelta(t, 7000, plan.Lines[0].OrderedQty, 1e-3)
	assert.InDelta(t, 3000, plan.ResidualShortage, 1e-3)
}

func TestOptimize_MinOrderQtyHonored(t *testing.T) {
	// The cheap supplier's MOQ of 600 forces its allocation to 600 or
	// nothing; the optimum orders at least the MOQ, never a sliver.
	offers := []domain.SupplierOffer{
		poolOffer("MOQ", 1.0, 2000, 600),
		poolOffer("FLEX", 1.2, 2000, 0),
	}

	plan, err := NewProcurementOptimizer().Optimize(context.Background(), offers, 1000, 0, NormalPolicy())
	require.NoError(t, err)

	moqLine := lineFor(t, plan, "MOQ")
	assert.GreaterOrEqual(t, moqLine.OrderedQty, 600-1e-6)
	assert.True(t, moqLine.Used)
	assert.InDelta(t, 0, plan.ResidualShortage, 1e-3)

	total := 0.0
	for _, l := range plan.Lines {
		total += l.OrderedQty
	}
	assert.InDelta(t, 1000, total, 1e-3)
}

func TestOptimize_MOQAboveShareCapExcludesSupplier(t *testing.T) {
	// Share cap 70 is below the 500 MOQ, so the supplier cannot be used at
	// all and everything is shortage.
	offers := []domain.SupplierOffer{poolOffer("BIGMOQ", 1.0, 2000, 500)}

	plan, err := NewProcurementOptimizer().Optimize(context.Background(), offers, 100, 0, NormalPolicy())
	require.NoError(t, err)

	assert.Empty(t, plan.Lines)
	assert.InDelta(t, 100, plan.ResidualShortage, 1e-3)
}

func TestOptimize_ExpiryPenaltyShiftsAllocation(t *testing.T) {
	// With heavy expiry exposure the penalty raises effective prices
	// uniformly, so the split is unchanged but the objective grows.
	offers := []domain.SupplierOffer{
		poolOffer("A", 1.0, 20000, 0),
		poolOffer("B", 2.0, 15000, 0),
	}

	clean, err := NewProcurementOptimizer().Optimize(context.Background(), offers, 30000, 0, NormalPolicy())
	require.NoError(t, err)
	risky, err := NewProcurementOptimizer().Optimize(context.Background(), offers, 30000, 0.5, NormalPolicy())
	require.NoError(t, err)

	assert.Greater(t, risky.ObjectiveValue, clean.ObjectiveValue)
	assert.InDelta(t, lineFor(t, clean, "A").OrderedQty, lineFor(t, risky, "A").OrderedQty, 1e-3)
}

func TestOptimize_EmergencyPolicyBuysThroughHigherPrices(t *testing.T) {
	// Normal policy leaves expensive residual uncovered; the emergency
	// shortage penalty makes buying at any listed price worthwhile.
	offers := []domain.SupplierOffer{
		poolOffer("A", 6.0, 20000, 0),
		poolOffer("B", 8.0, 20000, 0),
	}

	normal, err := NewProcurementOptimizer().Optimize(context.Background(), offers, 10000, 0, NormalPolicy())
	require.NoError(t, err)
	emergency, err := NewProcurementOptimizer().Optimize(context.Background(), offers, 10000, 0, EmergencyPolicy())
	require.NoError(t, err)

	assert.Greater(t, normal.ResidualShortage, 0.0)
	assert.InDelta(t, 0, emergency.ResidualShortage, 1e-3)
}

func TestOptimize_EmptyPool(t *testing.T) {
	_, err := NewProcurementOptimizer().Optimize(context.Background(), nil, 100, 0, NormalPolicy())
	assert.ErrorIs(t, err, domain.ErrNoSuppliers)
}

func TestOptimize_ZeroRequirement(t *testing.T) {
	offers := []domain.SupplierOffer{poolOffer("A", 1.0, 100, 0)}

	plan, err := NewProcurementOptimizer().Optimize(context.Background(), offers, 0, 0, NormalPolicy())
	require.NoError(t, err)
	assert.Empty(t, plan.Lines)
	assert.Equal(t, string(ModeNormal), plan.Mode)
}
