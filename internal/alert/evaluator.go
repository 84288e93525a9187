// internal/alert/evaluator.go
//
// Per-item alert evaluation. The evaluator inspects one inventory item with
// freshly computed insights and emits zero or more transient alert values;
// the checks are independent, so one item can trigger several kinds at once.
package alert

import (
	"fmt"
	"math"
	"time"

	"github.com/dapurlink/caterwatch/internal/domain"
)

// Evaluator produces alert candidates for inventory items.
type Evaluator struct{}

// NewEvaluator creates a new Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate runs every alert check against one item and returns the
// candidates. A benign state yields an empty slice, never an error.
func (e *Evaluator) Evaluate(item *domain.InventoryItem, now time.Time) []domain.Alert {
	var alerts []domain.Alert

	if a, ok := e.checkLowStock(item); ok {
		alerts = append(alerts, a)
	}
	if a, ok := e.checkPredictedDepletion(item); ok {
		alerts = append(alerts, a)
	}
	if a, ok := e.checkExpiry(item, now); ok {
		alerts = append(alerts, a)
	}
	if a, ok := e.checkOverstock(item); ok {
		alerts = append(alerts, a)
	}
	if a, ok := e.checkWastageRisk(item); ok {
		alerts = append(alerts, a)
	}

	return alerts
}

func (e *Evaluator) checkLowStock(item *domain.InventoryItem) (domain.Alert, bool) {
	if item.Quantity > item.MinThreshold {
		return domain.Alert{}, false
	}

	severity := domain.SeverityMedium
	switch {
	case item.Quantity == 0:
		severity = domain.SeverityCritical
	case float64(item.Quantity) <= float64(item.MinThreshold)*0.5:
		severity = domain.SeverityHigh
	}

	message := fmt.Sprintf("%s is running low with only %d %s remaining.", item.Name, item.Quantity, item.Unit)
	reasoning := fmt.Sprintf("Current stock (%d) is below minimum threshold (%d)", item.Quantity, item.MinThreshold)
	if item.Quantity == 0 {
		message = fmt.Sprintf("%s is completely out of stock!", item.Name)
		reasoning = fmt.Sprintf("Current stock (%d) is at zero", item.Quantity)
	}

	impact := domain.ImpactMedium
	urgency := domain.UrgencyHigh
	if severity == domain.SeverityCritical {
		impact = domain.ImpactHigh
		urgency = domain.UrgencyImmediate
	}

	return domain.Alert{
		Kind:     domain.AlertLowStock,
		Severity: severity,
		ItemID:   item.ID,
		ItemName: item.Name,
		Message:  message,
		Reasoning: domain.Reasoning{
			Confidence:       0.95,
			Reasoning:        reasoning,
			Impact:           impact,
			Urgency:          urgency,
			SuggestedActions: lowStockActions(item),
		},
	}, true
}

func (e *Evaluator) checkPredictedDepletion(item *domain.InventoryItem) (domain.Alert, bool) {
	if item.Predicted.NextWeek <= 0 {
		return domain.Alert{}, false
	}

	daysUntilDepletion := int(math.Floor(float64(item.Quantity) / (float64(item.Predicted.NextWeek) / 7)))
	if daysUntilDepletion <= 0 || daysUntilDepletion > 3 {
		return domain.Alert{}, false
	}

	severity := domain.SeverityMedium
	urgency := domain.UrgencyMedium
	if daysUntilDepletion <= 1 {
		severity = domain.SeverityHigh
		urgency = domain.UrgencyHigh
	}

	confidence := item.Predicted.Confidence
	if confidence == 0 {
		confidence = 0.8
	}

	return domain.Alert{
		Kind:     domain.AlertPredictedDepletion,
		Severity: severity,
		ItemID:   item.ID,
		ItemName: item.Name,
		Message: fmt.Sprintf("%s is predicted to run out in %d day(s) based on usage patterns.",
			item.Name, daysUntilDepletion),
		Reasoning: domain.Reasoning{
			Confidence: confidence,
			Reasoning:  fmt.Sprintf("Based on predicted weekly demand of %d %s", item.Predicted.NextWeek, item.Unit),
			Impact:     domain.ImpactMedium,
			Urgency:    urgency,
			SuggestedActions: []string{
				"Place order immediately",
				"Check supplier lead times",
				"Consider emergency suppliers",
			},
		},
	}, true
}

func (e *Evaluator) checkExpiry(item *domain.InventoryItem, now time.Time) (domain.Alert, bool) {
	if item.ExpiryDate == nil {
		return domain.Alert{}, false
	}

	daysUntilExpiry := domain.DaysUntil(now, *item.ExpiryDate)
	if daysUntilExpiry <= 0 || daysUntilExpiry > 7 {
		return domain.Alert{}, false
	}

	severity := domain.SeverityMedium
	urgency := domain.UrgencyMedium
	if daysUntilExpiry <= 2 {
		severity = domain.SeverityHigh
		urgency = domain.UrgencyHigh
	}

	return domain.Alert{
		Kind:     domain.AlertExpiryWarning,
		Severity: severity,
		ItemID:   item.ID,
		ItemName: item.Name,
		Message: fmt.Sprintf("%s will expire in %d day(s). Consider using soon or marking down.",
			item.Name, daysUntilExpiry),
		Reasoning: domain.Reasoning{
			Confidence: 1.0,
			Reasoning:  fmt.Sprintf("Expiry date is %s", item.ExpiryDate.Format("Mon Jan 2 2006")),
			Impact:     domain.ImpactMedium,
			Urgency:    urgency,
			SuggestedActions: []string{
				"Use in upcoming events",
				"Offer at discounted price",
				"Check if can be donated",
				"Plan menu around expiring items",
			},
		},
	}, true
}

func (e *Evaluator) checkOverstock(item *domain.InventoryItem) (domain.Alert, bool) {
	if item.Quantity <= item.MaxThreshold {
		return domain.Alert{}, false
	}

	return domain.Alert{
		Kind:     domain.AlertOverstock,
		Severity: domain.SeverityLow,
		ItemID:   item.ID,
		ItemName: item.Name,
		Message: fmt.Sprintf("%s is overstocked with %d %s. Consider reducing orders.",
			item.Name, item.Quantity, item.Unit),
		Reasoning: domain.Reasoning{
			Confidence: 0.8,
			Reasoning: fmt.Sprintf("Current stock (%d) exceeds maximum threshold (%d)",
				item.Quantity, item.MaxThreshold),
			Impact:  domain.ImpactLow,
			Urgency: domain.UrgencyLow,
			SuggestedActions: []string{
				"Reduce next order quantity",
				"Use in promotional menus",
				"Check for bulk discount opportunities",
			},
		},
	}, true
}

func (e *Evaluator) checkWastageRisk(item *domain.InventoryItem) (domain.Alert, bool) {
	if item.Insights.WastageRisk <= 0.7 {
		return domain.Alert{}, false
	}

	actions := item.Insights.RecommendedActions
	if len(actions) == 0 {
		actions = []string{
			"Use in upcoming events",
			"Create special menu items",
			"Check storage conditions",
		}
	}

	return domain.Alert{
		Kind:     domain.AlertWastageRisk,
		Severity: domain.SeverityMedium,
		ItemID:   item.ID,
		ItemName: item.Name,
		Message:  fmt.Sprintf("%s has high wastage risk. Immediate action recommended.", item.Name),
		Reasoning: domain.Reasoning{
			Confidence:       0.85,
			Reasoning:        fmt.Sprintf("Wastage risk score: %d%%", int(math.Round(item.Insights.WastageRisk*100))),
			Impact:           domain.ImpactMedium,
			Urgency:          domain.UrgencyMedium,
			SuggestedActions: actions,
		},
	}, true
}

func lowStockActions(item *domain.InventoryItem) []string {
	actions := []string{"Reorder immediately"}

	if item.Cost.Supplier != "" {
		actions = append(actions, "Contact supplier: "+item.Cost.Supplier)
	} else {
		actions = append(actions, "Check supplier availability")
	}

	if item.Quantity == 0 {
		actions = append(actions, "Find emergency supplier", "Adjust menu if necessary")
	} else {
		actions = append(actions, "Consider alternative suppliers")
	}

	actions = append(actions, "Update minimum threshold if needed")
	return actions
}
