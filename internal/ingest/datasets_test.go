package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerOf(names ...string) map[string]int {
	h := make(map[string]int, len(names))
	for i, n := range names {
		h[normalizeHeader(n)] = i
	}
	return h
}

func TestForecastDataset_MapRecord(t *testing.T) {
	ds := ForecastDataset{}
	header := headerOf("facility", "item", "forecast_period", "forecast_qty", "lead_time_days")

	values, err := ds.MapRecord(header, []string{"DC1", "SKU-1", "2026-03-01", "1,250", "7"})
	require.NoError(t, err)
	require.Len(t, values, len(ds.Columns()))

	assert.Equal(t, "DC1", values[0])
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), values[2])
	assert.Equal(t, 1250.0, values[3])
	assert.Equal(t, 7.0, values[4])
}

func TestForecastDataset_BadDate(t *testing.T) {
	ds := ForecastDataset{}
	header := headerOf("facility", "item", "forecast_period", "forecast_qty")

	_, err := ds.MapRecord(header, []string{"DC1", "SKU-1", "not-a-date", "10"})
	assert.ErrorContains(t, err, "forecast_period")
}

func TestSupplierDataset_MapRecord(t *testing.T) {
	ds := SupplierDataset{}
	header := headerOf(
		"facility", "item", "supplier_id", "supplier_name", "price_per_unit",
		"lead_time_days", "lead_time_std", "reliability_score",
		"capacity_per_period", "min_order_qty", "contracted", "risk_score",
	)

	values, err := ds.MapRecord(header, []string{
		"DC1", "SKU-1", "S1", "Alpha", "1.50", "5", "0.5", "0.95", "10000", "100", "yes", "0.2",
	})
	require.NoError(t, err)
	require.Len(t, values, len(ds.Columns()))

	assert.Equal(t, "S1", values[2])
	assert.Equal(t, 1.5, values[4])
	assert.Equal(t, true, values[10])
}

func TestSupplierDataset_BadNumber(t *testing.T) {
	ds := SupplierDataset{}
	header := headerOf("facility", "item", "supplier_id", "price_per_unit",
		"lead_time_days", "capacity_per_period", "min_order_qty")

	_, err := ds.MapRecord(header, []string{"DC1", "SKU-1", "S1", "abc", "5", "100", "0"})
	assert.ErrorContains(t, err, "price_per_unit")
}

func TestLotDataset_MapRecord(t *testing.T) {
	ds := LotDataset{}
	header := headerOf("facility", "item", "lot_id", "expiry_date", "qty_on_hand", "supplier_id", "unit_cost")

	values, err := ds.MapRecord(header, []string{"DC1", "SKU-1", "L1", "2026/06/01", "300", "S2", "1.80"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), values[3])
	assert.Equal(t, 300.0, values[4])
}

func TestBuildInsert(t *testing.T) {
	query, args := buildInsert("inventory", []string{"facility", "item", "stock"}, [][]interface{}{
		{"DC1", "SKU-1", 100.0},
		{"DC2", "SKU-2", 50.0},
	})

	assert.Equal(t,
		"INSERT INTO inventory (facility, item, stock) VALUES ($1, $2, $3), ($4, $5, $6)",
		query)
	require.Len(t, args, 6)
	assert.Equal(t, "DC2", args[3])
}
