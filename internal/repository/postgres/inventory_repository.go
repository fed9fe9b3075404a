package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/andresuchdata/supplyplan/internal/repository"
)

type inventoryRepository struct {
	db *DB
}

// NewInventoryRepository creates an inventory repository over the shared pool.
func NewInventoryRepository(db *DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) StartingStock(ctx context.Context) (map[domain.Key]float64, error) {
	query := `
        SELECT facility, item, SUM(stock)::float AS stock
        FROM inventory
        GROUP BY facility, item
    `

	var rows []struct {
		Facility string  `db:"facility"`
		Item     string  `db:"item"`
		Stock    float64 `db:"stock"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list starting stock: %w", err)
	}

	out := make(map[domain.Key]float64, len(rows))
	for _, row := range rows {
		out[domain.Key{Facility: row.Facility, Item: row.Item}] = row.Stock
	}
	return out, nil
}
