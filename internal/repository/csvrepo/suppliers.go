// internal/repository/csvrepo/suppliers.go
package csvrepo

import (
	"context"
	"fmt"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// SupplierRepository reads a supplier_pool CSV: one row per
// facility-item-supplier offer.
type SupplierRepository struct {
	path string
}

func NewSupplierRepository(path string) *SupplierRepository {
	return &SupplierRepository{path: path}
}

func (r *SupplierRepository) GetSuppliers(ctx context.Context, key domain.Key) ([]domain.SupplierOffer, error) {
	t, err := loadTable(r.path)
	if err != nil {
		return nil, fmt.Errorf("load supplier pool %s: %w", r.path, err)
	}

	idxFacility := t.colIndex("facility", "facility_id")
	idxItem := t.colIndex("item", "item_id")
	idxID := t.colIndex("supplier_id")
	idxName := t.colIndex("supplier_name", "name")
	idxPrice := t.colIndex("price_per_unit", "price")
	idxLead := t.colIndex("lead_time_days", "lead_time")
	idxLeadStd := t.colIndex("lead_time_std")
	idxRel := t.colIndex("reliability_score", "reliability")
	idxCap := t.colIndex("capacity_per_period", "capacity")
	idxMOQ := t.colIndex("min_order_qty", "moq")
	idxContracted := t.colIndex("contracted")
	idxRisk := t.colIndex("risk_score")

	var missing []string
	for name, idx := range map[string]int{
		"facility":            idxFacility,
		"item":                idxItem,
		"supplier_id":         idxID,
		"price_per_unit":      idxPrice,
		"lead_time_days":      idxLead,
		"capacity_per_period": idxCap,
		"min_order_qty":       idxMOQ,
	} {
		if idx < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewSchemaError("supplier_pool", missing...)
	}

	var out []domain.SupplierOffer
	for _, rec := range t.records {
		rowKey := domain.Key{Facility: getField(rec, idxFacility), Item: getField(rec, idxItem)}
		if rowKey != key {
			continue
		}
		out = append(out, domain.SupplierOffer{
			Key:               rowKey,
			SupplierID:        getField(rec, idxID),
			SupplierName:      getField(rec, idxName),
			PricePerUnit:      parseFloat(rec, idxPrice),
			LeadTimeDays:      parseFloat(rec, idxLead),
			LeadTimeStd:       parseFloat(rec, idxLeadStd),
			ReliabilityScore:  parseFloat(rec, idxRel),
			CapacityPerPeriod: parseFloat(rec, idxCap),
			MinOrderQty:       parseFloat(rec, idxMOQ),
			Contracted:        parseBool(rec, idxContracted),
			RiskScore:         parseFloat(rec, idxRisk),
		})
	}
	return out, nil
}
