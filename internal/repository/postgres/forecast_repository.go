package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/andresuchdata/supplyplan/internal/repository"
)

type forecastRepository struct {
	db *DB
}

// NewForecastRepository creates a forecast repository over the shared pool.
func NewForecastRepository(db *DB) repository.ForecastRepository {
	return &forecastRepository{db: db}
}

type forecastRow struct {
	Facility string    `db:"facility"`
	Item     string    `db:"item"`
	Period   time.Time `db:"forecast_period"`
	Qty      float64   `db:"forecast_qty"`
}

func (r *forecastRepository) ListDemandSeries(ctx context.Context) ([]domain.DemandSeries, error) {
	query := `
        SELECT facility, item, forecast_period, forecast_qty
        FROM forecast_daily
        ORDER BY facility, item, forecast_period
    `

	var rows []forecastRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list demand series: %w", err)
	}

	var out []domain.DemandSeries
	for _, row := range rows {
		key := domain.Key{Facility: row.Facility, Item: row.Item}
		point := domain.DemandPoint{Date: row.Period, Quantity: row.Qty}
		if n := len(out); n > 0 && out[n-1].Key == key {
			out[n-1].Points = append(out[n-1].Points, point)
			continue
		}
		out = append(out, domain.DemandSeries{Key: key, Points: []domain.DemandPoint{point}})
	}
	return out, nil
}

func (r *forecastRepository) LeadTimes(ctx context.Context) (map[domain.Key]float64, error) {
	query := `
        SELECT facility, item, AVG(lead_time_days)::float AS lead_time_days
        FROM forecast_daily
        WHERE lead_time_days > 0
        GROUP BY facility, item
    `

	var rows []struct {
		Facility string  `db:"facility"`
		Item     string  `db:"item"`
		LeadTime float64 `db:"lead_time_days"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list lead times: %w", err)
	}

	out := make(map[domain.Key]float64, len(rows))
	for _, row := range rows {
		out[domain.Key{Facility: row.Facility, Item: row.Item}] = row.LeadTime
	}
	return out, nil
}
