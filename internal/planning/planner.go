// internal/planning/planner.go
package planning

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// PlanRequest is one batch planning run over many facility-item pairs.
// Starting stock and lead times are keyed per pair; pairs without an entry
// fall back to zero stock and the default lead time respectively.
type PlanRequest struct {
	Series        []domain.DemandSeries
	StartingStock map[domain.Key]float64
	LeadTimeDays  map[domain.Key]float64

	ServiceLevelZ       float64
	DefaultLeadTimeDays float64
	Sim                 SimOptions
	WorkerCount         int
}

// PairResult is the planning output for one facility-item pair.
type PairResult struct {
	Key        domain.Key              `json:"key"`
	Reorder    *domain.ReorderParameters `json:"reorder,omitempty"`
	States     []domain.InventoryState `json:"states"`
	Volatility VolatilityResult        `json:"volatility"`
	Risk       domain.RiskAssessment   `json:"risk"`
	Degraded   bool                    `json:"degraded"`
}

// PlanResult collects every pair of a run. Skipped lists pairs excluded for
// insufficient data (the partial-result policy).
type PlanResult struct {
	Pairs   []PairResult `json:"pairs"`
	Skipped []domain.Key `json:"skipped"`
}

// Planner runs the reorder -> simulate -> classify chain for each pair on a
// bounded worker pool. The engines are pure, so pairs run independently with
// no shared mutable state.
type Planner struct {
	reorder *ReorderEngine
}

func NewPlanner() *Planner {
	return &Planner{reorder: NewReorderEngine()}
}

// Run plans every series in the request. Pair order in the result is stable
// (sorted by facility then item) regardless of worker scheduling.
func (p *Planner) Run(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	engine := p.reorder
	if req.ServiceLevelZ > 0 {
		engine = &ReorderEngine{ServiceLevelZ: req.ServiceLevelZ}
	}
	defLT := req.DefaultLeadTimeDays
	if defLT <= 0 {
		defLT = 7
	}
	sim := NewInventorySimulator(req.Sim)

	workers := req.WorkerCount
	if workers < 1 {
		workers = 1
	}

	var (
		mu     sync.Mutex
		result PlanResult
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, series := range req.Series {
		series := series
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := series.Validate(); err != nil {
				return err
			}

			pair, skipped := p.planPair(engine, sim, series, req, defLT)

			mu.Lock()
			defer mu.Unlock()
			if skipped {
				result.Skipped = append(result.Skipped, series.Key)
				return nil
			}
			result.Pairs = append(result.Pairs, pair)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result.Pairs, func(i, j int) bool {
		a, b := result.Pairs[i].Key, result.Pairs[j].Key
		if a.Facility != b.Facility {
			return a.Facility < b.Facility
		}
		return a.Item < b.Item
	})
	sort.Slice(result.Skipped, func(i, j int) bool {
		a, b := result.Skipped[i], result.Skipped[j]
		if a.Facility != b.Facility {
			return a.Facility < b.Facility
		}
		return a.Item < b.Item
	})

	return &result, nil
}

func (p *Planner) planPair(engine *ReorderEngine, sim *InventorySimulator, series domain.DemandSeries, req PlanRequest, defLT float64) (PairResult, bool) {
	key := series.Key
	leadTime := leadTimeOrDefault(req.LeadTimeDays[key], defLT)

	vol := ClassifyVolatility(series)

	var params *domain.ReorderParameters
	rp, err := engine.Compute(series, leadTime)
	switch {
	case err == nil:
		params = &rp
	case errors.Is(err, domain.ErrInsufficientData):
		if len(series.Points) == 0 {
			// Nothing to simulate either; the pair is excluded entirely.
			log.Warn().Str("facility", key.Facility).Str("item", key.Item).
				Msg("pair skipped: no usable history")
			return PairResult{}, true
		}
		log.Warn().Str("facility", key.Facility).Str("item", key.Item).Err(err).
			Msg("reorder parameters unavailable, simulating consumption only")
	default:
		log.Error().Str("facility", key.Facility).Str("item", key.Item).Err(err).
			Msg("reorder computation failed")
		return PairResult{}, true
	}

	states := sim.Simulate(series, req.StartingStock[key], params)

	pair := PairResult{
		Key:        key,
		Reorder:    params,
		States:     states,
		Volatility: vol,
		Degraded:   params == nil || params.AvgDailyDemand <= 0,
	}

	if worst, ok := WorstCase(states); ok {
		pair.Risk = domain.RiskAssessment{
			Key:         key,
			Risk:        ClassifyRisk(worst, vol.Class),
			Volatility:  vol.Class,
			DaysOfCover: worst.DaysOfCover,
			CoverKnown:  worst.CoverKnown,
		}
	} else {
		pair.Risk = domain.RiskAssessment{Key: key, Risk: domain.RiskHigh, Volatility: vol.Class}
	}

	return pair, false
}
