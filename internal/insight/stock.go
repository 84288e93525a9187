// internal/insight/stock.go
package insight

import (
	"math"
	"time"

	"github.com/dapurlink/caterwatch/internal/domain"
)

const (
	leadTimeDays    = 3
	safetyStockDays = 2
)

// StockLevels is the derived reorder/optimal pair for an item.
type StockLevels struct {
	ReorderPoint      int
	OptimalStockLevel int
}

// OptimizeStockLevels computes the reorder point (lead-time demand plus
// safety stock) and the optimal stock level (twice the reorder point) from
// the item's daily demand pattern.
func OptimizeStockLevels(pattern domain.DemandPattern) StockLevels {
	avgDaily := pattern.AvgDaily()
	safetyStock := avgDaily * safetyStockDays
	reorderPoint := int(math.Round(avgDaily*leadTimeDays + safetyStock))

	return StockLevels{
		ReorderPoint:      reorderPoint,
		OptimalStockLevel: reorderPoint * 2,
	}
}

// WastageRisk scores the likelihood of stock loss in [0,1] from expiry
// proximity, overstock ratio and low demand. The nearer expiry threshold
// wins; the demand thresholds are likewise mutually exclusive.
func WastageRisk(item *domain.InventoryItem, pattern domain.DemandPattern, now time.Time) float64 {
	risk := 0.0

	// Factor 1: expiry proximity (up to 0.4)
	if item.ExpiryDate != nil {
		daysUntilExpiry := domain.DaysUntil(now, *item.ExpiryDate)
		if daysUntilExpiry <= 7 {
			risk += 0.4
		} else if daysUntilExpiry <= 14 {
			risk += 0.2
		}
	}

	// Factor 2: overstock ratio (up to 0.3)
	if item.MaxThreshold > 0 && item.Quantity > item.MaxThreshold {
		overstockRatio := float64(item.Quantity) / float64(item.MaxThreshold)
		risk += math.Min(0.3, (overstockRatio-1)*0.3)
	}

	// Factor 3: low demand (up to 0.3)
	avgDaily := pattern.AvgDaily()
	if avgDaily < 1 {
		risk += 0.3
	} else if avgDaily < 3 {
		risk += 0.15
	}

	return clamp01(risk)
}

// Recommendations builds the human-readable action list for an item given
// its current state and wastage risk. Check order only affects list order.
func Recommendations(item *domain.InventoryItem, wastageRisk float64) []string {
	var recommendations []string

	if item.Quantity <= item.MinThreshold {
		recommendations = append(recommendations,
			"Reorder immediately",
			"Check supplier lead times",
		)
	}

	if wastageRisk > 0.5 {
		recommendations = append(recommendations,
			"Use in upcoming events",
			"Consider promotional pricing",
		)
	}

	if item.Quantity > item.MaxThreshold {
		recommendations = append(recommendations,
			"Reduce next order quantity",
			"Create special menu items",
		)
	}

	return recommendations
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
