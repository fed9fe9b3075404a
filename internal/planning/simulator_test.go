package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

func TestSimulator_OrderUpToScenario(t *testing.T) {
	// Constant 100/day demand, 500 on hand, lead time 7: the position dips
	// under the 700 reorder point on day one, a 1400-unit order is placed
	// and it arrives seven days later.
	series := makeSeries(t, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100)
	params, err := NewReorderEngine().Compute(series, 7)
	require.NoError(t, err)

	sim := NewInventorySimulator(DefaultSimOptions())
	states := sim.Simulate(series, 500, &params)
	require.Len(t, states, 10)

	day1 := states[0]
	assert.InDelta(t, 400, day1.OnHand, 1e-9)
	assert.True(t, day1.ReorderTriggered)
	assert.InDelta(t, 1400, day1.OrderQty, 1e-9)
	require.NotNil(t, day1.OrderArrival)
	assert.Equal(t, series.Points[0].Date.AddDate(0, 0, 7), *day1.OrderArrival)
	assert.InDelta(t, 4, day1.DaysOfCover, 1e-9)

	// The snapshot is taken before the order is placed; the order only
	// shows up in the following day's outstanding and position.
	assert.InDelta(t, 0, day1.OutstandingQty, 1e-9)
	assert.InDelta(t, 400, day1.InventoryPosition, 1e-9)
	day2 := states[1]
	assert.InDelta(t, 1400, day2.OutstandingQty, 1e-9)
	assert.InDelta(t, 1700, day2.InventoryPosition, 1e-9)

	// No second order while the first is outstanding.
	for _, s := range states[1:7] {
		assert.Zero(t, s.OrderQty, "no order expected on %s", s.Date)
	}

	// Stock runs out on day five and floors at zero until receipt.
	assert.InDelta(t, 0, states[4].OnHand, 1e-9)
	assert.InDelta(t, 0, states[6].OnHand, 1e-9)

	// Day eight: the 1400 arrive before consumption.
	day8 := states[7]
	assert.InDelta(t, 1300, day8.OnHand, 1e-9)
	assert.InDelta(t, 0, day8.OutstandingQty, 1e-9)
}

func TestSimulator_OnHandNeverNegative(t *testing.T) {
	series := makeSeries(t, 50, 400, 400, 400, 400)
	params, err := NewReorderEngine().Compute(series, 3)
	require.NoError(t, err)

	sim := NewInventorySimulator(DefaultSimOptions())
	states := sim.Simulate(series, 100, &params)

	for _, s := range states {
		assert.GreaterOrEqual(t, s.OnHand, 0.0, "on %s", s.Date)
	}
}

func TestSimulator_MinOrderQty(t *testing.T) {
	series := makeSeries(t, 10, 10, 10)
	params, err := NewReorderEngine().Compute(series, 2)
	require.NoError(t, err)

	sim := NewInventorySimulator(SimOptions{OrderUpToDays: 14, MinOrderQty: 500})
	states := sim.Simulate(series, 5, &params)

	require.True(t, states[0].ReorderTriggered)
	assert.InDelta(t, 500, states[0].OrderQty, 1e-9)
}

func TestSimulator_ConsumptionOnlyWithoutParams(t *testing.T) {
	series := makeSeries(t, 40, 40, 40)

	sim := NewInventorySimulator(DefaultSimOptions())
	states := sim.Simulate(series, 100, nil)
	require.Len(t, states, 3)

	for _, s := range states {
		assert.False(t, s.ReorderTriggered)
		assert.Zero(t, s.OrderQty)
	}
	assert.InDelta(t, 60, states[0].OnHand, 1e-9)
	assert.InDelta(t, 20, states[1].OnHand, 1e-9)
	assert.InDelta(t, 0, states[2].OnHand, 1e-9)

	// Cover falls back to the day's demand when no average is available.
	assert.True(t, states[0].CoverKnown)
	assert.InDelta(t, 1.5, states[0].DaysOfCover, 1e-9)
}

func TestSimulator_ZeroDemandZeroAverage(t *testing.T) {
	series := makeSeries(t, 0, 0)

	sim := NewInventorySimulator(DefaultSimOptions())
	states := sim.Simulate(series, 10, nil)

	// Neither the average nor the day's demand can anchor cover.
	for _, s := range states {
		assert.False(t, s.CoverKnown)
	}
}

func TestWorstCase(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	states := []domain.InventoryState{
		{Date: now, DaysOfCover: 9, CoverKnown: true, ReorderTriggered: true},
		{Date: now.AddDate(0, 0, 1), DaysOfCover: 2.5, CoverKnown: true},
		{Date: now.AddDate(0, 0, 2), DaysOfCover: 6, CoverKnown: true},
	}

	worst, ok := WorstCase(states)
	require.True(t, ok)
	assert.InDelta(t, 2.5, worst.DaysOfCover, 1e-9)
	// A trigger anywhere in the window is carried into the rollup.
	assert.True(t, worst.ReorderTriggered)

	_, ok = WorstCase(nil)
	assert.False(t, ok)
}
