package insight

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/dapurlink/caterwatch/internal/domain"
)

func TestOptimizeStockLevels(t *testing.T) {
	tests := []struct {
		name            string
		daily           [7]float64
		expectedReorder int
		expectedOptimal int
	}{
		{"steady_demand", [7]float64{2, 2, 2, 2, 2, 2, 2}, 10, 20},
		{"single_busy_day", [7]float64{7, 0, 0, 0, 0, 0, 0}, 5, 10},
		{"no_demand", [7]float64{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels := OptimizeStockLevels(domain.DemandPattern{Daily: tt.daily})
			if levels.ReorderPoint != tt.expectedReorder {
				t.Errorf("ReorderPoint = %d, want %d", levels.ReorderPoint, tt.expectedReorder)
			}
			if levels.OptimalStockLevel != tt.expectedOptimal {
				t.Errorf("OptimalStockLevel = %d, want %d", levels.OptimalStockLevel, tt.expectedOptimal)
			}
		})
	}
}

func TestWastageRisk(t *testing.T) {
	now := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)
	expiryIn := func(days int) *time.Time {
		d := now.Add(time.Duration(days) * 24 * time.Hour)
		return &d
	}
	steady := domain.DemandPattern{Daily: [7]float64{2, 2, 2, 2, 2, 2, 2}}

	tests := []struct {
		name     string
		item     domain.InventoryItem
		pattern  domain.DemandPattern
		expected float64
	}{
		{
			// expiry within a week (0.4) plus modest demand (0.15)
			name:     "near_expiry_modest_demand",
			item:     domain.InventoryItem{Quantity: 50, MaxThreshold: 100, ExpiryDate: expiryIn(5)},
			pattern:  steady,
			expected: 0.55,
		},
		{
			name:     "expiry_within_two_weeks",
			item:     domain.InventoryItem{Quantity: 50, MaxThreshold: 100, ExpiryDate: expiryIn(10)},
			pattern:  steady,
			expected: 0.35,
		},
		{
			name:     "expiry_far_out",
			item:     domain.InventoryItem{Quantity: 50, MaxThreshold: 100, ExpiryDate: expiryIn(20)},
			pattern:  steady,
			expected: 0.15,
		},
		{
			name:     "no_demand_only",
			item:     domain.InventoryItem{Quantity: 50, MaxThreshold: 100},
			pattern:  domain.DemandPattern{},
			expected: 0.3,
		},
		{
			// double the max threshold caps the overstock factor at 0.3
			name:     "overstocked",
			item:     domain.InventoryItem{Quantity: 200, MaxThreshold: 100},
			pattern:  steady,
			expected: 0.45,
		},
		{
			name:     "mild_overstock",
			item:     domain.InventoryItem{Quantity: 150, MaxThreshold: 100},
			pattern:  steady,
			expected: 0.30,
		},
		{
			// all three factors: clamped to 1
			name:     "everything_wrong",
			item:     domain.InventoryItem{Quantity: 500, MaxThreshold: 100, ExpiryDate: expiryIn(2)},
			pattern:  domain.DemandPattern{},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WastageRisk(&tt.item, tt.pattern, now)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("WastageRisk = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWastageRisk_StaysInRange(t *testing.T) {
	now := time.Now()
	expiry := now.Add(24 * time.Hour)
	item := domain.InventoryItem{Quantity: 10000, MaxThreshold: 10, ExpiryDate: &expiry}

	got := WastageRisk(&item, domain.DemandPattern{}, now)
	if got < 0 || got > 1 {
		t.Fatalf("WastageRisk = %v, want value in [0,1]", got)
	}
}

func TestRecommendations(t *testing.T) {
	tests := []struct {
		name     string
		item     domain.InventoryItem
		risk     float64
		expected []string
	}{
		{
			name: "low_stock_high_risk",
			item: domain.InventoryItem{Quantity: 5, MinThreshold: 10, MaxThreshold: 100},
			risk: 0.6,
			expected: []string{
				"Reorder immediately",
				"Check supplier lead times",
				"Use in upcoming events",
				"Consider promotional pricing",
			},
		},
		{
			name: "overstocked",
			item: domain.InventoryItem{Quantity: 150, MinThreshold: 10, MaxThreshold: 100},
			risk: 0.2,
			expected: []string{
				"Reduce next order quantity",
				"Create special menu items",
			},
		},
		{
			name:     "healthy",
			item:     domain.InventoryItem{Quantity: 50, MinThreshold: 10, MaxThreshold: 100},
			risk:     0.1,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommendations(&tt.item, tt.risk)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Recommendations = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRefreshItem(t *testing.T) {
	now := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)

	item := &domain.InventoryItem{
		ID:           "item-1",
		Name:         "Jasmine Rice",
		Quantity:     5,
		MinThreshold: 10,
		MaxThreshold: 100,
	}
	for day := 1; day <= 14; day++ {
		item.UsageHistory = append(item.UsageHistory, domain.UsageEntry{
			Date:         now.AddDate(0, 0, -day),
			QuantityUsed: 2,
		})
	}

	RefreshItem(item, now)

	if item.Predicted.NextWeek == 0 {
		t.Error("expected a non-zero next-week prediction after refresh")
	}
	if item.Predicted.Confidence <= 0.5 {
		t.Errorf("Confidence = %v, want > 0.5 for a deep uniform history", item.Predicted.Confidence)
	}
	if item.Insights.ReorderPoint == 0 {
		t.Error("expected a non-zero reorder point after refresh")
	}
	if item.Insights.OptimalStockLevel != item.Insights.ReorderPoint*2 {
		t.Errorf("OptimalStockLevel = %d, want double the reorder point %d",
			item.Insights.OptimalStockLevel, item.Insights.ReorderPoint)
	}
	if len(item.Insights.RecommendedActions) == 0 {
		t.Error("expected recommendations for an item below its minimum threshold")
	}
}
