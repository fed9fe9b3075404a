// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Key identifies one facility-item pair, the unit of planning.
type Key struct {
	Facility string `json:"facility" db:"facility"`
	Item     string `json:"item" db:"item"`
}

// DemandPoint is one day of forecasted demand.
type DemandPoint struct {
	Date     time.Time `json:"date" db:"forecast_period"`
	Quantity float64   `json:"quantity" db:"forecast_qty"`
}

// DemandSeries is the ordered forecast for one facility-item pair.
// Dates are strictly increasing and quantities non-negative; violations are
// rejected by Validate before the series reaches the engines.
type DemandSeries struct {
	Key    Key           `json:"key"`
	Points []DemandPoint `json:"points"`
}

// ReorderParameters holds the reorder policy computed for one pair.
// Computed once per planning run and immutable afterwards.
type ReorderParameters struct {
	Key            Key     `json:"key"`
	AvgDailyDemand float64 `json:"avg_daily_demand" db:"avg_daily_demand"`
	DemandStdDev   float64 `json:"demand_std_dev" db:"demand_std_dev"`
	LeadTimeDays   float64 `json:"lead_time_days" db:"lead_time_days"`
	SafetyStock    float64 `json:"safety_stock" db:"safety_stock"`
	ReorderPoint   float64 `json:"reorder_point" db:"reorder_point"`
}

// PendingOrder is a replenishment order placed by the simulator that has not
// arrived yet. It is owned by the simulation that created it and removed on
// receipt.
type PendingOrder struct {
	ArrivalDate time.Time `json:"arrival_date"`
	Quantity    float64   `json:"quantity"`
}

// InventoryState is one simulated facility-item-day.
type InventoryState struct {
	Key               Key        `json:"key"`
	Date              time.Time  `json:"date"`
	Demand            float64    `json:"demand"`
	OnHand            float64    `json:"on_hand"`
	OutstandingQty    float64    `json:"outstanding_order_qty"`
	InventoryPosition float64    `json:"inventory_position"`
	DaysOfCover       float64    `json:"days_of_cover"`
	CoverKnown        bool       `json:"cover_known"`
	ReorderTriggered  bool       `json:"reorder_triggered"`
	OrderQty          float64    `json:"order_qty,omitempty"`
	OrderArrival      *time.Time `json:"order_arrival,omitempty"`
}

// SupplierOffer is static reference data for one supplier serving one
// facility-item pair. Read-only to the ranker and optimizer.
type SupplierOffer struct {
	Key               Key     `json:"key"`
	SupplierID        string  `json:"supplier_id" db:"supplier_id"`
	SupplierName      string  `json:"supplier_name" db:"supplier_name"`
	PricePerUnit      float64 `json:"price_per_unit" db:"price_per_unit"`
	LeadTimeDays      float64 `json:"lead_time_days" db:"lead_time_days"`
	LeadTimeStd       float64 `json:"lead_time_std" db:"lead_time_std"`
	ReliabilityScore  float64 `json:"reliability_score" db:"reliability_score"`
	CapacityPerPeriod float64 `json:"capacity_per_period" db:"capacity_per_period"`
	MinOrderQty       float64 `json:"min_order_qty" db:"min_order_qty"`
	Contracted        bool    `json:"contracted" db:"contracted"`
	RiskScore         float64 `json:"risk_score" db:"risk_score"`
}

// RankedSupplier is a SupplierOffer with its normalized score and dense rank.
type RankedSupplier struct {
	SupplierOffer
	Score float64 `json:"supplier_score"`
	Rank  int     `json:"rank"`
}

// Lot is one batch of on-hand stock with an expiry date.
type Lot struct {
	Key        Key       `json:"key"`
	LotID      string    `json:"lot_id" db:"lot_id"`
	ExpiryDate time.Time `json:"expiry_date" db:"expiry_date"`
	QtyOnHand  float64   `json:"qty_on_hand" db:"qty_on_hand"`
	SupplierID string    `json:"supplier_id" db:"supplier_id"`
	UnitCost   float64   `json:"unit_cost" db:"unit_cost"`
}

// AllocationLine is one supplier row of a solved allocation.
type AllocationLine struct {
	SupplierID   string  `json:"supplier_id"`
	SupplierName string  `json:"supplier_name"`
	OrderedQty   float64 `json:"ordered_qty"`
	Used         bool    `json:"used_flag"`
	PricePerUnit float64 `json:"price_per_unit"`
}

// AllocationPlan is the result of one optimizer call. Produced fresh per
// call; never mutated.
type AllocationPlan struct {
	Lines            []AllocationLine `json:"lines"`
	RequiredQty      float64          `json:"required_qty"`
	ResidualShortage float64          `json:"residual_shortage"`
	ObjectiveValue   float64          `json:"objective_value"`
	SolverStatus     string           `json:"solver_status"`
	Mode             string           `json:"mode"`
	ProcurementCost  decimal.Decimal  `json:"procurement_cost"`
}

// LotAllocationStatus marks how a FEFO allocation row was satisfied.
type LotAllocationStatus string

const (
	LotAllocated         LotAllocationStatus = "ALLOCATED"
	LotNoStock           LotAllocationStatus = "NO_STOCK"
	LotInsufficientStock LotAllocationStatus = "INSUFFICIENT_STOCK"
)

// LotAllocation is one lot row of a FEFO allocation.
type LotAllocation struct {
	LotID        string              `json:"lot_id"`
	ExpiryDate   *time.Time          `json:"expiry_date,omitempty"`
	AllocatedQty float64             `json:"allocated_qty"`
	Status       LotAllocationStatus `json:"status"`
}
