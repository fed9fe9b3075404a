package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/supplyplan/internal/config"
	"github.com/andresuchdata/supplyplan/internal/domain"
)

type stubForecastRepo struct {
	series []domain.DemandSeries
	leads  map[domain.Key]float64
}

func (s *stubForecastRepo) ListDemandSeries(ctx context.Context) ([]domain.DemandSeries, error) {
	return s.series, nil
}

func (s *stubForecastRepo) LeadTimes(ctx context.Context) (map[domain.Key]float64, error) {
	return s.leads, nil
}

type stubInventoryRepo struct {
	stock map[domain.Key]float64
}

func (s *stubInventoryRepo) StartingStock(ctx context.Context) (map[domain.Key]float64, error) {
	return s.stock, nil
}

func demandSeries(facility, item string, qtys ...float64) domain.DemandSeries {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ds := domain.DemandSeries{Key: domain.Key{Facility: facility, Item: item}}
	for i, q := range qtys {
		ds.Points = append(ds.Points, domain.DemandPoint{Date: start.AddDate(0, 0, i), Quantity: q})
	}
	return ds
}

func testPlanningConfig() config.PlanningConfig {
	return config.PlanningConfig{
		ServiceLevelZ:       1.65,
		OrderUpToDays:       14,
		DefaultLeadTimeDays: 7,
		TriggerCoverDays:    7,
		ServiceLevelMin:     0.90,
		WorkerCount:         2,
	}
}

func TestPlanningService_GetPairDetailPlansOnlyThatPair(t *testing.T) {
	good := domain.Key{Facility: "DC1", Item: "SKU-1"}

	// The second pair's series is invalid, so a whole-batch replan would
	// fail on it; a passing lookup proves only the requested pair ran.
	bad := demandSeries("DC1", "SKU-2", 10)
	bad.Points[0].Quantity = -5

	forecasts := &stubForecastRepo{
		series: []domain.DemandSeries{demandSeries("DC1", "SKU-1", 10, 12, 11), bad},
		leads:  map[domain.Key]float64{good: 5},
	}
	inventory := &stubInventoryRepo{stock: map[domain.Key]float64{good: 100}}

	svc := NewPlanningService(forecasts, inventory, nil, testPlanningConfig())

	pair, err := svc.GetPairDetail(context.Background(), good)
	require.NoError(t, err)
	assert.Equal(t, good, pair.Key)
	require.Len(t, pair.States, 3)
}

func TestPlanningService_GetPairDetailUnknownPair(t *testing.T) {
	forecasts := &stubForecastRepo{
		series: []domain.DemandSeries{demandSeries("DC1", "SKU-1", 10, 12)},
	}
	inventory := &stubInventoryRepo{}

	svc := NewPlanningService(forecasts, inventory, nil, testPlanningConfig())

	_, err := svc.GetPairDetail(context.Background(), domain.Key{Facility: "DC9", Item: "NONE"})
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}
