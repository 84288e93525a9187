// internal/domain/inventory.go
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// UsageEntry is one append-only usage record for an inventory item.
type UsageEntry struct {
	Date         time.Time `json:"date"`
	QuantityUsed int       `json:"quantity_used"`
	Purpose      string    `json:"purpose,omitempty"`
	BookingID    string    `json:"booking_id,omitempty"`
}

// RestockEntry is one append-only restock record for an inventory item.
type RestockEntry struct {
	Date          time.Time       `json:"date"`
	QuantityAdded int             `json:"quantity_added"`
	Supplier      string          `json:"supplier,omitempty"`
	Cost          decimal.Decimal `json:"cost"`
	BatchNumber   string          `json:"batch_number,omitempty"`
}

// ItemCost holds purchase cost details for an inventory item.
type ItemCost struct {
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Supplier  string          `json:"supplier,omitempty"`
}

// Location identifies where an item is stored.
type Location struct {
	Warehouse string `json:"warehouse,omitempty"`
	Section   string `json:"section,omitempty"`
	Shelf     string `json:"shelf,omitempty"`
}

// DemandPattern holds usage aggregates derived from an item's recent history.
// Daily always has exactly 7 slots, indexed by weekday (Sunday = 0).
type DemandPattern struct {
	Daily    [7]float64  `json:"daily"`
	Weekly   [4]float64  `json:"weekly"`
	Monthly  [12]float64 `json:"monthly"`
	Seasonal string      `json:"seasonal,omitempty"`
}

// AvgDaily returns the mean of the daily buckets.
func (p DemandPattern) AvgDaily() float64 {
	var sum float64
	for _, v := range p.Daily {
		sum += v
	}
	return sum / 7
}

// PredictedDemand is a short-horizon demand forecast for an item.
type PredictedDemand struct {
	NextWeek   int     `json:"next_week"`
	NextMonth  int     `json:"next_month"`
	Confidence float64 `json:"confidence"`
}

// ItemInsights holds the derived stock-optimization figures for an item.
type ItemInsights struct {
	OptimalStockLevel  int      `json:"optimal_stock_level"`
	ReorderPoint       int      `json:"reorder_point"`
	WastageRisk        float64  `json:"wastage_risk"`
	CostOptimization   string   `json:"cost_optimization,omitempty"`
	SeasonalTrends     []string `json:"seasonal_trends,omitempty"`
	RecommendedActions []string `json:"recommended_actions,omitempty"`
}

// ItemAlertType classifies entries in the per-item alert log.
type ItemAlertType string

const (
	ItemAlertLowStock      ItemAlertType = "low_stock"
	ItemAlertExpiryWarning ItemAlertType = "expiry_warning"
	ItemAlertOverstock     ItemAlertType = "overstock"
)

// ItemAlert is one entry of the embedded per-item alert log. This log is a
// simpler historical record kept on the item itself; it is not the transient
// Alert the monitor produces and the two are not kept in sync.
type ItemAlert struct {
	Type      ItemAlertType `json:"type"`
	Message   string        `json:"message"`
	Severity  Severity      `json:"severity"`
	CreatedAt time.Time     `json:"created_at"`
	Resolved  bool          `json:"resolved"`
}

// InventoryItem is a catering stock item with thresholds, histories and
// derived insight state. The derived fields (DemandPattern, PredictedDemand,
// Insights) are recomputed each monitoring cycle and are not independently
// authoritative.
type InventoryItem struct {
	ID             string          `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	Category       string          `json:"category" db:"category"`
	Quantity       int             `json:"quantity" db:"quantity"`
	Unit           string          `json:"unit" db:"unit"`
	MinThreshold   int             `json:"min_threshold" db:"min_threshold"`
	MaxThreshold   int             `json:"max_threshold" db:"max_threshold"`
	Cost           ItemCost        `json:"cost"`
	Location       Location        `json:"location"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty" db:"expiry_date"`
	BatchNumber    string          `json:"batch_number,omitempty" db:"batch_number"`
	UsageHistory   []UsageEntry    `json:"usage_history"`
	RestockHistory []RestockEntry  `json:"restock_history"`
	DemandPattern  DemandPattern   `json:"demand_pattern"`
	Predicted      PredictedDemand `json:"predicted_demand"`
	Insights       ItemInsights    `json:"ai_insights"`
	Alerts         []ItemAlert     `json:"alerts"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// DefaultMinThreshold and DefaultMaxThreshold apply when an item is created
// without explicit thresholds.
const (
	DefaultMinThreshold = 10
	DefaultMaxThreshold = 100
)

// RecordUsage appends a usage entry and decrements quantity, clamping at zero.
func (i *InventoryItem) RecordUsage(entry UsageEntry) {
	i.UsageHistory = append(i.UsageHistory, entry)
	i.Quantity -= entry.QuantityUsed
	if i.Quantity < 0 {
		i.Quantity = 0
	}
}

// RecordRestock appends a restock entry and increments quantity.
func (i *InventoryItem) RecordRestock(entry RestockEntry) {
	i.RestockHistory = append(i.RestockHistory, entry)
	i.Quantity += entry.QuantityAdded
	if entry.BatchNumber != "" {
		i.BatchNumber = entry.BatchNumber
	}
}

// GenerateAlerts produces the model-level alert log entries for the item's
// current state. Note the severity ladder here intentionally differs from the
// monitor's evaluator: this is the simpler historical log, not the
// notification pipeline.
func (i *InventoryItem) GenerateAlerts(now time.Time) []ItemAlert {
	var alerts []ItemAlert

	if i.Quantity <= i.MinThreshold {
		severity := SeverityHigh
		if float64(i.Quantity) <= float64(i.MinThreshold)*0.5 {
			severity = SeverityCritical
		}
		alerts = append(alerts, ItemAlert{
			Type:      ItemAlertLowStock,
			Message:   fmt.Sprintf("%s is running low (%d %s remaining)", i.Name, i.Quantity, i.Unit),
			Severity:  severity,
			CreatedAt: now,
		})
	}

	if i.ExpiryDate != nil {
		daysToExpiry := DaysUntil(now, *i.ExpiryDate)
		if daysToExpiry <= 7 && daysToExpiry > 0 {
			severity := SeverityHigh
			if daysToExpiry <= 3 {
				severity = SeverityCritical
			}
			alerts = append(alerts, ItemAlert{
				Type:      ItemAlertExpiryWarning,
				Message:   fmt.Sprintf("%s expires in %d days", i.Name, daysToExpiry),
				Severity:  severity,
				CreatedAt: now,
			})
		}
	}

	if i.Quantity > i.MaxThreshold {
		alerts = append(alerts, ItemAlert{
			Type:      ItemAlertOverstock,
			Message:   fmt.Sprintf("%s is overstocked (%d %s)", i.Name, i.Quantity, i.Unit),
			Severity:  SeverityMedium,
			CreatedAt: now,
		})
	}

	return alerts
}

// AppendAlerts adds generated alerts to the embedded log.
func (i *InventoryItem) AppendAlerts(alerts []ItemAlert) {
	i.Alerts = append(i.Alerts, alerts...)
}

// DaysUntil returns the number of whole days from now until t, rounded up.
func DaysUntil(now, t time.Time) int {
	d := t.Sub(now)
	days := int(d.Hours() / 24)
	if d > 0 && d%(24*time.Hour) != 0 {
		days++
	}
	return days
}
