package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/andresuchdata/supplyplan/internal/repository"
)

type lotRepository struct {
	db *DB
}

// NewLotRepository creates a lot repository over the shared pool.
func NewLotRepository(db *DB) repository.LotRepository {
	return &lotRepository{db: db}
}

type lotRow struct {
	LotID      string    `db:"lot_id"`
	ExpiryDate time.Time `db:"expiry_date"`
	QtyOnHand  float64   `db:"qty_on_hand"`
	SupplierID string    `db:"supplier_id"`
	UnitCost   float64   `db:"unit_cost"`
}

func (r *lotRepository) GetLots(ctx context.Context, key domain.Key) ([]domain.Lot, error) {
	query := `
        SELECT lot_id, expiry_date, qty_on_hand, supplier_id, unit_cost
        FROM lots
        WHERE facility = $1 AND item = $2
        ORDER BY expiry_date, lot_id
    `

	var rows []lotRow
	if err := r.db.SelectContext(ctx, &rows, query, key.Facility, key.Item); err != nil {
		return nil, fmt.Errorf("get lots for %s/%s: %w", key.Facility, key.Item, err)
	}

	out := make([]domain.Lot, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Lot{
			Key:        key,
			LotID:      row.LotID,
			ExpiryDate: row.ExpiryDate,
			QtyOnHand:  row.QtyOnHand,
			SupplierID: row.SupplierID,
			UnitCost:   row.UnitCost,
		})
	}
	return out, nil
}
