package procurement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

func TestEvaluate_CoverTrigger(t *testing.T) {
	engine := NewShortageSourcingEngine()

	shortage, reason := engine.Evaluate(ShortageContext{DaysOfCover: 3, TriggerCoverDays: 7})
	assert.True(t, shortage)
	assert.Equal(t, "days_of_cover=3.00 <= trigger=7.00", reason)
}

func TestEvaluate_ServiceLevelTrigger(t *testing.T) {
	engine := NewShortageSourcingEngine()
	sl := 0.85

	shortage, reason := engine.Evaluate(ShortageContext{
		DaysOfCover:           12,
		TriggerCoverDays:      7,
		ServiceLevel:          &sl,
		ServiceLevelThreshold: 0.90,
	})
	assert.True(t, shortage)
	assert.Equal(t, "service_level=0.85 < threshold=0.90", reason)
}

func TestEvaluate_CoverTriggerCheckedFirst(t *testing.T) {
	engine := NewShortageSourcingEngine()
	sl := 0.50

	_, reason := engine.Evaluate(ShortageContext{
		DaysOfCover:           2,
		TriggerCoverDays:      7,
		ServiceLevel:          &sl,
		ServiceLevelThreshold: 0.90,
	})
	assert.Contains(t, reason, "days_of_cover")
}

func TestEvaluate_NoTrigger(t *testing.T) {
	engine := NewShortageSourcingEngine()
	sl := 0.95

	shortage, reason := engine.Evaluate(ShortageContext{
		DaysOfCover:           12,
		TriggerCoverDays:      7,
		ServiceLevel:          &sl,
		ServiceLevelThreshold: 0.90,
	})
	assert.False(t, shortage)
	assert.Equal(t, "no_shortage_trigger", reason)
}

func TestEvaluate_DefaultsApplied(t *testing.T) {
	engine := NewShortageSourcingEngine()

	// Zero trigger falls back to the documented 7-day default.
	shortage, _ := engine.Evaluate(ShortageContext{DaysOfCover: 6.5})
	assert.True(t, shortage)

	shortage, _ = engine.Evaluate(ShortageContext{DaysOfCover: 7.5})
	assert.False(t, shortage)
}

func TestEmergencyPlan_ContractedPoolPreferred(t *testing.T) {
	key := domain.Key{Facility: "DC1", Item: "SKU-1"}
	contracted := poolOffer("CONTRACTED", 3.0, 5000, 0)
	contracted.Contracted = true
	spot := poolOffer("SPOT", 1.0, 5000, 0)

	engine := NewShortageSourcingEngine()
	plan, err := engine.EmergencyPlan(context.Background(), ShortageContext{
		Key:         key,
		DaysOfCover: 2,
		RequiredQty: 1000,
	}, []domain.SupplierOffer{spot, contracted})
	require.NoError(t, err)

	// Only the contracted supplier is in the pool, despite the spot
	// supplier's better price.
	require.Len(t, plan.Ranked, 1)
	assert.Equal(t, "CONTRACTED", plan.Ranked[0].SupplierID)
	require.Len(t, plan.Allocation.Lines, 1)
	assert.Equal(t, "CONTRACTED", plan.Allocation.Lines[0].SupplierID)

	assert.True(t, plan.Summary.Shortage)
	assert.Equal(t, string(ModeEmergency), plan.Summary.Mode)
	assert.Contains(t, plan.Summary.TriggerReason, "days_of_cover")
}

func TestEmergencyPlan_FallsBackToFullPool(t *testing.T) {
	key := domain.Key{Facility: "DC1", Item: "SKU-1"}
	offers := []domain.SupplierOffer{
		poolOffer("A", 2.0, 5000, 0),
		poolOffer("B", 3.0, 5000, 0),
	}

	engine := NewShortageSourcingEngine()
	plan, err := engine.EmergencyPlan(context.Background(), ShortageContext{
		Key:         key,
		DaysOfCover: 2,
		RequiredQty: 4000,
	}, offers)
	require.NoError(t, err)

	assert.Len(t, plan.Ranked, 2)
	assert.LessOrEqual(t, len(plan.Summary.TopSuppliers), 3)
	assert.InDelta(t, 0, plan.Allocation.ResidualShortage, 1e-3)
}

func TestEmergencyPlan_NoSuppliers(t *testing.T) {
	engine := NewShortageSourcingEngine()
	_, err := engine.EmergencyPlan(context.Background(), ShortageContext{
		Key:         domain.Key{Facility: "DC1", Item: "SKU-1"},
		RequiredQty: 100,
	}, nil)
	assert.ErrorIs(t, err, domain.ErrNoSuppliers)
}
