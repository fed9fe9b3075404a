// internal/procurement/fefo.go
package procurement

import (
	"sort"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// AllocateFEFO drains lot-level stock first-expire-first-out against a
// required quantity. Rows report how each lot contributed; any unfulfilled
// remainder is returned as a final INSUFFICIENT_STOCK row.
func AllocateFEFO(lots []domain.Lot, requiredQty float64) []domain.LotAllocation {
	if len(lots) == 0 || requiredQty <= 0 {
		return []domain.LotAllocation{{Status: domain.LotNoStock}}
	}

	sorted := make([]domain.Lot, len(lots))
	copy(sorted, lots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExpiryDate.Before(sorted[j].ExpiryDate)
	})

	remaining := requiredQty
	var out []domain.LotAllocation

	for _, lot := range sorted {
		if remaining <= 0 {
			break
		}
		if lot.QtyOnHand <= 0 {
			continue
		}

		take := lot.QtyOnHand
		if remaining < take {
			take = remaining
		}

		expiry := lot.ExpiryDate
		out = append(out, domain.LotAllocation{
			LotID:        lot.LotID,
			ExpiryDate:   &expiry,
			AllocatedQty: take,
			Status:       domain.LotAllocated,
		})
		remaining -= take
	}

	if remaining > 0 {
		out = append(out, domain.LotAllocation{
			AllocatedQty: remaining,
			Status:       domain.LotInsufficientStock,
		})
	}

	return out
}
