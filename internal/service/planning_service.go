package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/supplyplan/internal/cache"
	"github.com/andresuchdata/supplyplan/internal/config"
	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/andresuchdata/supplyplan/internal/planning"
	"github.com/andresuchdata/supplyplan/internal/repository"
	"github.com/rs/zerolog/log"
)

// PlanningService runs the reorder/simulation/risk chain over repository
// data and serves the summarized result, cache-first.
type PlanningService struct {
	forecasts repository.ForecastRepository
	inventory repository.InventoryRepository
	planner   *planning.Planner
	cache     cache.PlanCache
	cfg       config.PlanningConfig
}

func NewPlanningService(
	forecasts repository.ForecastRepository,
	inventory repository.InventoryRepository,
	cacheImpl cache.PlanCache,
	cfg config.PlanningConfig,
) *PlanningService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPlanCache()
	}
	return &PlanningService{
		forecasts: forecasts,
		inventory: inventory,
		planner:   planning.NewPlanner(),
		cache:     cacheImpl,
		cfg:       cfg,
	}
}

// GetSummary returns the per-pair plan summary matching the filter, running
// a fresh plan on cache miss.
func (s *PlanningService) GetSummary(ctx context.Context, filter domain.PlanFilter) (*domain.PlanSummary, error) {
	if summary, ok, err := s.cache.GetSummary(ctx, filter); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("planning: cache get summary failed")
	}

	result, err := s.runPlan(ctx, nil)
	if err != nil {
		return nil, err
	}

	summary := summarize(result, filter)
	if err := s.cache.SetSummary(ctx, filter, summary); err != nil {
		log.Warn().Err(err).Msg("planning: cache set summary failed")
	}

	return summary, nil
}

// GetPairDetail returns the full day-by-day simulation for one pair. Only
// the requested pair's series is planned, so the endpoint stays proportional
// to one simulation rather than the whole batch.
func (s *PlanningService) GetPairDetail(ctx context.Context, key domain.Key) (*planning.PairResult, error) {
	result, err := s.runPlan(ctx, &key)
	if err != nil {
		return nil, err
	}
	for i := range result.Pairs {
		if result.Pairs[i].Key == key {
			return &result.Pairs[i], nil
		}
	}
	return nil, fmt.Errorf("pair %s/%s: %w", key.Facility, key.Item, domain.ErrInsufficientData)
}

// Refresh invalidates cached summaries so the next read replans.
func (s *PlanningService) Refresh(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}

func (s *PlanningService) runPlan(ctx context.Context, only *domain.Key) (*planning.PlanResult, error) {
	start := time.Now()

	series, err := s.forecasts.ListDemandSeries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load forecast: %w", err)
	}
	if only != nil {
		narrowed := make([]domain.DemandSeries, 0, 1)
		for _, ds := range series {
			if ds.Key == *only {
				narrowed = append(narrowed, ds)
			}
		}
		series = narrowed
	}
	leadTimes, err := s.forecasts.LeadTimes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load lead times: %w", err)
	}
	stock, err := s.inventory.StartingStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("load starting stock: %w", err)
	}

	result, err := s.planner.Run(ctx, planning.PlanRequest{
		Series:              series,
		StartingStock:       stock,
		LeadTimeDays:        leadTimes,
		ServiceLevelZ:       s.cfg.ServiceLevelZ,
		DefaultLeadTimeDays: s.cfg.DefaultLeadTimeDays,
		Sim: planning.SimOptions{
			OrderUpToDays: s.cfg.OrderUpToDays,
			MinOrderQty:   s.cfg.MinOrderQty,
		},
		WorkerCount: s.cfg.WorkerCount,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("pairs", len(result.Pairs)).
		Int("skipped", len(result.Skipped)).
		Dur("elapsed", time.Since(start)).
		Msg("planning run complete")

	return result, nil
}

func summarize(result *planning.PlanResult, filter domain.PlanFilter) *domain.PlanSummary {
	summary := &domain.PlanSummary{
		GeneratedAt: time.Now().UTC(),
		Skipped:     result.Skipped,
	}

	for _, pair := range result.Pairs {
		if !matchPlanFilter(pair, filter) {
			continue
		}
		row := domain.PlanRow{
			Key:        pair.Key,
			Parameters: pair.Reorder,
			Volatility: pair.Volatility.Class,
			CV:         pair.Volatility.CV,
			Risk:       pair.Risk.Risk,
			Degraded:   pair.Degraded,
		}
		if worst, ok := planning.WorstCase(pair.States); ok {
			row.MinDaysOfCover = worst.DaysOfCover
			row.CoverKnown = worst.CoverKnown
			row.ReorderTriggered = worst.ReorderTriggered
		}
		summary.Rows = append(summary.Rows, row)
	}

	return summary
}

func matchPlanFilter(pair planning.PairResult, filter domain.PlanFilter) bool {
	if filter.Facility != "" && !strings.EqualFold(filter.Facility, pair.Key.Facility) {
		return false
	}
	if filter.Item != "" && !strings.EqualFold(filter.Item, pair.Key.Item) {
		return false
	}
	if filter.Risk != "" && !strings.EqualFold(filter.Risk, string(pair.Risk.Risk)) {
		return false
	}
	return true
}
