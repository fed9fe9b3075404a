// internal/repository/csvrepo/inventory.go
package csvrepo

import (
	"context"
	"fmt"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// InventoryRepository reads an inventory balance CSV: one row per
// facility-item with its current on-hand stock.
type InventoryRepository struct {
	path string
}

func NewInventoryRepository(path string) *InventoryRepository {
	return &InventoryRepository{path: path}
}

func (r *InventoryRepository) StartingStock(ctx context.Context) (map[domain.Key]float64, error) {
	t, err := loadTable(r.path)
	if err != nil {
		return nil, fmt.Errorf("load inventory file %s: %w", r.path, err)
	}

	idxFacility := t.colIndex("facility", "facility_id")
	idxItem := t.colIndex("item", "item_id")
	idxStock := t.colIndex("stock_on_hand", "quantity_on_hand", "on_hand", "stock")

	var missing []string
	if idxFacility < 0 {
		missing = append(missing, "facility")
	}
	if idxItem < 0 {
		missing = append(missing, "item")
	}
	if idxStock < 0 {
		missing = append(missing, "stock_on_hand")
	}
	if len(missing) > 0 {
		return nil, domain.NewSchemaError("inventory_balance", missing...)
	}

	out := make(map[domain.Key]float64)
	for _, rec := range t.records {
		key := domain.Key{Facility: getField(rec, idxFacility), Item: getField(rec, idxItem)}
		if key.Facility == "" || key.Item == "" {
			continue
		}
		// Lot rows for the same pair accumulate.
		out[key] += parseFloat(rec, idxStock)
	}
	return out, nil
}
