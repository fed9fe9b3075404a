// internal/repository/csvrepo/forecast.go
package csvrepo

import (
	"context"
	"fmt"
	"sort"

	"github.com/andresuchdata/supplyplan/internal/domain"
)

// ForecastRepository reads a forecast_daily CSV: one row per
// facility-item-day, optionally carrying an observed lead time.
type ForecastRepository struct {
	path string
}

func NewForecastRepository(path string) *ForecastRepository {
	return &ForecastRepository{path: path}
}

func (r *ForecastRepository) ListDemandSeries(ctx context.Context) ([]domain.DemandSeries, error) {
	t, err := loadTable(r.path)
	if err != nil {
		return nil, fmt.Errorf("load forecast file %s: %w", r.path, err)
	}

	idxFacility := t.colIndex("facility", "facility_id")
	idxItem := t.colIndex("item", "item_id")
	idxDate := t.colIndex("forecast_period", "ds", "date")
	idxQty := t.colIndex("forecast_qty", "forecast", "quantity")

	var missing []string
	if idxFacility < 0 {
		missing = append(missing, "facility")
	}
	if idxItem < 0 {
		missing = append(missing, "item")
	}
	if idxDate < 0 {
		missing = append(missing, "forecast_period")
	}
	if idxQty < 0 {
		missing = append(missing, "forecast_qty")
	}
	if len(missing) > 0 {
		return nil, domain.NewSchemaError("forecast_daily", missing...)
	}

	byKey := make(map[domain.Key][]domain.DemandPoint)
	for _, rec := range t.records {
		key := domain.Key{Facility: getField(rec, idxFacility), Item: getField(rec, idxItem)}
		if key.Facility == "" || key.Item == "" {
			continue
		}
		date, ok := parseDate(rec, idxDate)
		if !ok {
			continue
		}
		byKey[key] = append(byKey[key], domain.DemandPoint{Date: date, Quantity: parseFloat(rec, idxQty)})
	}

	out := make([]domain.DemandSeries, 0, len(byKey))
	for key, points := range byKey {
		sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
		out = append(out, domain.DemandSeries{Key: key, Points: points})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Facility != out[j].Key.Facility {
			return out[i].Key.Facility < out[j].Key.Facility
		}
		return out[i].Key.Item < out[j].Key.Item
	})
	return out, nil
}

func (r *ForecastRepository) LeadTimes(ctx context.Context) (map[domain.Key]float64, error) {
	t, err := loadTable(r.path)
	if err != nil {
		return nil, fmt.Errorf("load forecast file %s: %w", r.path, err)
	}

	idxFacility := t.colIndex("facility", "facility_id")
	idxItem := t.colIndex("item", "item_id")
	idxLead := t.colIndex("lead_time_days", "lead_time")
	if idxFacility < 0 || idxItem < 0 || idxLead < 0 {
		// Lead time is optional in the forecast file; absent means every
		// pair falls back to the default.
		return map[domain.Key]float64{}, nil
	}

	type acc struct {
		sum float64
		n   int
	}
	sums := make(map[domain.Key]*acc)
	for _, rec := range t.records {
		key := domain.Key{Facility: getField(rec, idxFacility), Item: getField(rec, idxItem)}
		if key.Facility == "" || key.Item == "" {
			continue
		}
		lt := parseFloat(rec, idxLead)
		if lt <= 0 {
			continue
		}
		a := sums[key]
		if a == nil {
			a = &acc{}
			sums[key] = a
		}
		a.sum += lt
		a.n++
	}

	out := make(map[domain.Key]float64, len(sums))
	for key, a := range sums {
		out[key] = a.sum / float64(a.n)
	}
	return out, nil
}
