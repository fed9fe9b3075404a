package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/supplyplan/internal/config"
	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/andresuchdata/supplyplan/internal/expiry"
	"github.com/andresuchdata/supplyplan/internal/procurement"
	"github.com/andresuchdata/supplyplan/internal/repository"
	"github.com/rs/zerolog/log"
)

// SourcingService answers supplier-facing questions for one facility-item
// pair: ranked pools, optimized allocations, emergency sourcing, expiry
// exposure and FEFO issue plans.
type SourcingService struct {
	suppliers repository.SupplierRepository
	lots      repository.LotRepository
	optimizer *procurement.ProcurementOptimizer
	sourcing  *procurement.ShortageSourcingEngine
	expiry    *expiry.Engine
	cfg       config.PlanningConfig
}

func NewSourcingService(
	suppliers repository.SupplierRepository,
	lots repository.LotRepository,
	cfg config.PlanningConfig,
) *SourcingService {
	return &SourcingService{
		suppliers: suppliers,
		lots:      lots,
		optimizer: procurement.NewProcurementOptimizer(),
		sourcing:  procurement.NewShortageSourcingEngine(),
		expiry:    expiry.NewEngine(),
		cfg:       cfg,
	}
}

// RankSuppliers scores the pool for a pair under normal or emergency
// weights, best first.
func (s *SourcingService) RankSuppliers(ctx context.Context, key domain.Key, mode procurement.Mode) ([]domain.RankedSupplier, error) {
	offers, err := s.suppliers.GetSuppliers(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return nil, fmt.Errorf("pair %s/%s: %w", key.Facility, key.Item, domain.ErrNoSuppliers)
	}

	weights := procurement.DefaultRankWeights()
	if mode == procurement.ModeEmergency {
		weights = procurement.EmergencyRankWeights()
	}
	return procurement.Rank(offers, weights), nil
}

// OptimizeAllocation solves the supplier split for a required quantity.
// Normal mode prices in the pair's expiry exposure; emergency mode ignores
// it and sources from contracted suppliers first.
func (s *SourcingService) OptimizeAllocation(ctx context.Context, key domain.Key, requiredQty float64, mode procurement.Mode) (*domain.AllocationPlan, error) {
	offers, err := s.suppliers.GetSuppliers(ctx, key)
	if err != nil {
		return nil, err
	}

	pol := procurement.PolicyFor(mode)

	pctAtRisk := 0.0
	if mode == procurement.ModeNormal {
		if risk, err := s.ExpiryRisk(ctx, key); err != nil {
			log.Warn().Err(err).
				Str("facility", key.Facility).Str("item", key.Item).
				Msg("sourcing: expiry risk unavailable, pricing without it")
		} else {
			pctAtRisk = risk.PctAtRisk90
		}
	}

	plan, err := s.optimizer.Optimize(ctx, offers, requiredQty, pctAtRisk, pol)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// EmergencySourcing evaluates the shortage triggers and, when tripped,
// produces the full emergency plan for the pair.
func (s *SourcingService) EmergencySourcing(ctx context.Context, key domain.Key, daysOfCover, requiredQty float64, serviceLevel *float64) (*procurement.SourcingPlan, error) {
	offers, err := s.suppliers.GetSuppliers(ctx, key)
	if err != nil {
		return nil, err
	}

	sctx := procurement.ShortageContext{
		Key:                   key,
		DaysOfCover:           daysOfCover,
		RequiredQty:           requiredQty,
		TriggerCoverDays:      s.cfg.TriggerCoverDays,
		ServiceLevel:          serviceLevel,
		ServiceLevelThreshold: s.cfg.ServiceLevelMin,
	}
	return s.sourcing.EmergencyPlan(ctx, sctx, offers)
}

// ExpiryRisk computes the 30/60/90-day expiry exposure of the pair's lots.
func (s *SourcingService) ExpiryRisk(ctx context.Context, key domain.Key) (*expiry.Result, error) {
	lots, err := s.lots.GetLots(ctx, key)
	if err != nil {
		return nil, err
	}
	result := s.expiry.Compute(lots, time.Now().UTC())
	return &result, nil
}

// AllocateFEFO plans an issue of requiredQty against the pair's lots,
// earliest expiry first.
func (s *SourcingService) AllocateFEFO(ctx context.Context, key domain.Key, requiredQty float64) ([]domain.LotAllocation, error) {
	lots, err := s.lots.GetLots(ctx, key)
	if err != nil {
		return nil, err
	}
	return procurement.AllocateFEFO(lots, requiredQty), nil
}
