package insight

import (
	"time"

	"github.com/dapurlink/caterwatch/internal/domain"
)

// RefreshItem recomputes all derived fields on an item in place: demand
// pattern, prediction, stock levels, wastage risk and recommendations.
// Persisting the result is the caller's job.
func RefreshItem(item *domain.InventoryItem, now time.Time) {
	pattern := CalculateDemandPattern(item.UsageHistory, now)
	item.DemandPattern.Daily = pattern.Daily
	item.Predicted = PredictFutureDemand(item.DemandPattern, len(item.UsageHistory), now)

	levels := OptimizeStockLevels(item.DemandPattern)
	item.Insights.ReorderPoint = levels.ReorderPoint
	item.Insights.OptimalStockLevel = levels.OptimalStockLevel
	item.Insights.WastageRisk = WastageRisk(item, item.DemandPattern, now)
	item.Insights.RecommendedActions = Recommendations(item, item.Insights.WastageRisk)
}
