// internal/repository/csvrepo/lots.go
package csvrepo

import (
	"context"
	"fmt"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// LotRepository reads a lots CSV: one row per on-hand batch with its
// expiry date.
type LotRepository struct {
	path string
}

func NewLotRepository(path string) *LotRepository {
	return &LotRepository{path: path}
}

func (r *LotRepository) GetLots(ctx context.Context, key domain.Key) ([]domain.Lot, error) {
	t, err := loadTable(r.path)
	if err != nil {
		return nil, fmt.Errorf("load lots %s: %w", r.path, err)
	}

	idxFacility := t.colIndex("facility", "facility_id")
	idxItem := t.colIndex("item", "item_id")
	idxLot := t.colIndex("lot_id", "batch_id")
	idxExpiry := t.colIndex("expiry_date", "expiry")
	idxQty := t.colIndex("qty_on_hand", "qty", "quantity")
	idxSupplier := t.colIndex("supplier_id")
	idxCost := t.colIndex("unit_cost", "cost_per_unit")

	var missing []string
	for name, idx := range map[string]int{
		"facility":    idxFacility,
		"item":        idxItem,
		"lot_id":      idxLot,
		"expiry_date": idxExpiry,
		"qty_on_hand": idxQty,
	} {
		if idx < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewSchemaError("lots", missing...)
	}

	var out []domain.Lot
	for _, rec := range t.records {
		rowKey := domain.Key{Facility: getField(rec, idxFacility), Item: getField(rec, idxItem)}
		if rowKey != key {
			continue
		}
		lot := domain.Lot{
			Key:        rowKey,
			LotID:      getField(rec, idxLot),
			QtyOnHand:  parseFloat(rec, idxQty),
			SupplierID: getField(rec, idxSupplier),
			UnitCost:   parseFloat(rec, idxCost),
		}
		if d, ok := parseDate(rec, idxExpiry); ok {
			lot.ExpiryDate = d
		}
		out = append(out, lot)
	}
	return out, nil
}
