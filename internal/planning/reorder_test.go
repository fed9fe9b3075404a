package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

func makeSeries(t *testing.T, qtys ...float64) domain.DemandSeries {
	t.Helper()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	series := domain.DemandSeries{Key: domain.Key{Facility: "DC1", Item: "SKU-1"}}
	for i, q := range qtys {
		series.Points = append(series.Points, domain.DemandPoint{
			Date:     start.AddDate(0, 0, i),
			Quantity: q,
		})
	}
	require.NoError(t, series.Validate())
	return series
}

func TestReorderEngine_ConstantDemand(t *testing.T) {
	engine := NewReorderEngine()
	series := makeSeries(t, 100, 100, 100, 100, 100)

	params, err := engine.Compute(series, 7)
	require.NoError(t, err)

	// Zero variance means no safety stock; the reorder point is pure
	// lead-time demand.
	assert.InDelta(t, 100, params.AvgDailyDemand, 1e-9)
	assert.InDelta(t, 0, params.DemandStdDev, 1e-9)
	assert.InDelta(t, 0, params.SafetyStock, 1e-9)
	assert.InDelta(t, 700, params.ReorderPoint, 1e-9)
}

func TestReorderEngine_KnownValues(t *testing.T) {
	engine := NewReorderEngine()
	series := makeSeries(t, 10, 20, 30)

	params, err := engine.Compute(series, 4)
	require.NoError(t, err)

	// mean 20, sample std 10, z 1.65: ss = 1.65*10*sqrt(4) = 33
	assert.InDelta(t, 20, params.AvgDailyDemand, 1e-9)
	assert.InDelta(t, 10, params.DemandStdDev, 1e-9)
	assert.InDelta(t, 33, params.SafetyStock, 1e-9)
	assert.InDelta(t, 113, params.ReorderPoint, 1e-9)
}

func TestReorderEngine_CustomServiceLevel(t *testing.T) {
	engine := &ReorderEngine{ServiceLevelZ: 2.33}
	series := makeSeries(t, 10, 20, 30)

	params, err := engine.Compute(series, 4)
	require.NoError(t, err)

	assert.InDelta(t, 2.33*10*2, params.SafetyStock, 1e-9)
}

func TestReorderEngine_Idempotent(t *testing.T) {
	engine := NewReorderEngine()
	series := makeSeries(t, 5, 9, 14, 3, 22)

	first, err := engine.Compute(series, 6)
	require.NoError(t, err)
	second, err := engine.Compute(series, 6)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReorderEngine_SafetyStockGrowsWithLeadTime(t *testing.T) {
	engine := NewReorderEngine()
	series := makeSeries(t, 5, 9, 14, 3, 22)

	short, err := engine.Compute(series, 3)
	require.NoError(t, err)
	long, err := engine.Compute(series, 12)
	require.NoError(t, err)

	assert.Greater(t, long.SafetyStock, short.SafetyStock)
	assert.Greater(t, long.ReorderPoint, short.ReorderPoint)
}

func TestReorderEngine_InsufficientData(t *testing.T) {
	engine := NewReorderEngine()

	_, err := engine.Compute(domain.DemandSeries{Key: domain.Key{Facility: "DC1", Item: "SKU-1"}}, 7)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)

	series := makeSeries(t, 10, 20)
	_, err = engine.Compute(series, 0)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)

	_, err = engine.Compute(series, -2)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}
