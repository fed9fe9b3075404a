package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/andresuchdata/supplyplan/internal/repository"
)

type supplierRepository struct {
	db *DB
}

// NewSupplierRepository creates a supplier repository over the shared pool.
func NewSupplierRepository(db *DB) repository.SupplierRepository {
	return &supplierRepository{db: db}
}

type supplierRow struct {
	SupplierID        string  `db:"supplier_id"`
	SupplierName      string  `db:"supplier_name"`
	PricePerUnit      float64 `db:"price_per_unit"`
	LeadTimeDays      float64 `db:"lead_time_days"`
	LeadTimeStd       float64 `db:"lead_time_std"`
	ReliabilityScore  float64 `db:"reliability_score"`
	CapacityPerPeriod float64 `db:"capacity_per_period"`
	MinOrderQty       float64 `db:"min_order_qty"`
	Contracted        bool    `db:"contracted"`
	RiskScore         float64 `db:"risk_score"`
}

func (r *supplierRepository) GetSuppliers(ctx context.Context, key domain.Key) ([]domain.SupplierOffer, error) {
	query := `
        SELECT supplier_id, supplier_name, price_per_unit, lead_time_days,
               lead_time_std, reliability_score, capacity_per_period,
               min_order_qty, contracted, risk_score
        FROM supplier_pool
        WHERE facility = $1 AND item = $2
        ORDER BY supplier_id
    `

	var rows []supplierRow
	if err := r.db.SelectContext(ctx, &rows, query, key.Facility, key.Item); err != nil {
		return nil, fmt.Errorf("get suppliers for %s/%s: %w", key.Facility, key.Item, err)
	}

	out := make([]domain.SupplierOffer, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.SupplierOffer{
			Key:               key,
			SupplierID:        row.SupplierID,
			SupplierName:      row.SupplierName,
			PricePerUnit:      row.PricePerUnit,
			LeadTimeDays:      row.LeadTimeDays,
			LeadTimeStd:       row.LeadTimeStd,
			ReliabilityScore:  row.ReliabilityScore,
			CapacityPerPeriod: row.CapacityPerPeriod,
			MinOrderQty:       row.MinOrderQty,
			Contracted:        row.Contracted,
			RiskScore:         row.RiskScore,
		})
	}
	return out, nil
}
