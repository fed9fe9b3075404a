// internal/repository/repository.go

// Package repository defines the data-access contracts the planning service
// depends on. All fetching completes before the computational core runs;
// the core itself never touches these interfaces.
package repository

import (
	"context"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// ForecastRepository loads the demand forecast produced upstream.
type ForecastRepository interface {
	// ListDemandSeries returns one ordered series per facility-item pair.
	ListDemandSeries(ctx context.Context) ([]domain.DemandSeries, error)

	// LeadTimes returns observed lead times per pair. Pairs without an
	// observation are absent; the planner substitutes the default.
	LeadTimes(ctx context.Context) (map[domain.Key]float64, error)
}

// InventoryRepository loads current stock positions.
type InventoryRepository interface {
	// StartingStock returns on-hand stock per facility-item pair.
	StartingStock(ctx context.Context) (map[domain.Key]float64, error)
}

// SupplierRepository loads the supplier pool for a facility-item pair.
type SupplierRepository interface {
	GetSuppliers(ctx context.Context, key domain.Key) ([]domain.SupplierOffer, error)
}

// LotRepository loads lot-level stock with expiry dates for a pair.
type LotRepository interface {
	GetLots(ctx context.Context, key domain.Key) ([]domain.Lot, error)
}
