package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ForecastDataset ingests daily demand forecasts.
type ForecastDataset struct{}

func (ForecastDataset) Name() string  { return "forecast_daily" }
func (ForecastDataset) Table() string { return "forecast_daily" }

func (ForecastDataset) Columns() []string {
	return []string{"facility", "item", "forecast_period", "forecast_qty", "lead_time_days"}
}

func (ForecastDataset) Required() []string {
	return []string{"facility", "item", "forecast_period", "forecast_qty"}
}

func (ForecastDataset) MapRecord(header map[string]int, record []string) ([]interface{}, error) {
	date, err := fieldDate(header, record, "forecast_period")
	if err != nil {
		return nil, err
	}
	qty, err := fieldFloat(header, record, "forecast_qty")
	if err != nil {
		return nil, err
	}
	leadTime, _ := fieldFloat(header, record, "lead_time_days")

	return []interface{}{
		field(header, record, "facility"),
		field(header, record, "item"),
		date,
		qty,
		leadTime,
	}, nil
}

// InventoryDataset ingests current stock positions.
type InventoryDataset struct{}

func (InventoryDataset) Name() string  { return "inventory" }
func (InventoryDataset) Table() string { return "inventory" }

func (InventoryDataset) Columns() []string {
	return []string{"facility", "item", "stock"}
}

func (InventoryDataset) Required() []string {
	return []string{"facility", "item", "stock"}
}

func (InventoryDataset) MapRecord(header map[string]int, record []string) ([]interface{}, error) {
	stock, err := fieldFloat(header, record, "stock")
	if err != nil {
		return nil, err
	}
	return []interface{}{
		field(header, record, "facility"),
		field(header, record, "item"),
		stock,
	}, nil
}

// SupplierDataset ingests the supplier pool.
type SupplierDataset struct{}

func (SupplierDataset) Name() string  { return "supplier_pool" }
func (SupplierDataset) Table() string { return "supplier_pool" }

func (SupplierDataset) Columns() []string {
	return []string{
		"facility", "item", "supplier_id", "supplier_name", "price_per_unit",
		"lead_time_days", "lead_time_std", "reliability_score",
		"capacity_per_period", "min_order_qty", "contracted", "risk_score",
	}
}

func (SupplierDataset) Required() []string {
	return []string{
		"facility", "item", "supplier_id", "price_per_unit",
		"lead_time_days", "capacity_per_period", "min_order_qty",
	}
}

func (SupplierDataset) MapRecord(header map[string]int, record []string) ([]interface{}, error) {
	price, err := fieldFloat(header, record, "price_per_unit")
	if err != nil {
		return nil, err
	}
	leadTime, err := fieldFloat(header, record, "lead_time_days")
	if err != nil {
		return nil, err
	}
	capacity, err := fieldFloat(header, record, "capacity_per_period")
	if err != nil {
		return nil, err
	}
	moq, err := fieldFloat(header, record, "min_order_qty")
	if err != nil {
		return nil, err
	}
	leadTimeStd, _ := fieldFloat(header, record, "lead_time_std")
	reliability, _ := fieldFloat(header, record, "reliability_score")
	riskScore, _ := fieldFloat(header, record, "risk_score")

	return []interface{}{
		field(header, record, "facility"),
		field(header, record, "item"),
		field(header, record, "supplier_id"),
		field(header, record, "supplier_name"),
		price,
		leadTime,
		leadTimeStd,
		reliability,
		capacity,
		moq,
		fieldBool(header, record, "contracted"),
		riskScore,
	}, nil
}

// LotDataset ingests lot-level stock with expiry dates.
type LotDataset struct{}

func (LotDataset) Name() string  { return "lots" }
func (LotDataset) Table() string { return "lots" }

func (LotDataset) Columns() []string {
	return []string{"facility", "item", "lot_id", "expiry_date", "qty_on_hand", "supplier_id", "unit_cost"}
}

func (LotDataset) Required() []string {
	return []string{"facility", "item", "lot_id", "expiry_date", "qty_on_hand"}
}

func (LotDataset) MapRecord(header map[string]int, record []string) ([]interface{}, error) {
	expiry, err := fieldDate(header, record, "expiry_date")
	if err != nil {
		return nil, err
	}
	qty, err := fieldFloat(header, record, "qty_on_hand")
	if err != nil {
		return nil, err
	}
	unitCost, _ := fieldFloat(header, record, "unit_cost")

	return []interface{}{
		field(header, record, "facility"),
		field(header, record, "item"),
		field(header, record, "lot_id"),
		expiry,
		qty,
		field(header, record, "supplier_id"),
		unitCost,
	}, nil
}

func field(header map[string]int, record []string, name string) string {
	idx, ok := header[normalizeHeader(name)]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func fieldFloat(header map[string]int, record []string, name string) (float64, error) {
	raw := field(header, record, name)
	if raw == "" {
		return 0, nil
	}
	raw = strings.ReplaceAll(raw, ",", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return f, nil
}

func fieldBool(header map[string]int, record []string, name string) bool {
	switch strings.ToLower(field(header, record, name)) {
	case "true", "t", "1", "yes", "y":
		return true
	}
	return false
}

var ingestDateLayouts = []string{"2006-01-02", "2006/01/02", "20060102", time.RFC3339}

func fieldDate(header map[string]int, record []string, name string) (time.Time, error) {
	raw := field(header, record, name)
	for _, layout := range ingestDateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("column %s: unparseable date %q", name, raw)
}
