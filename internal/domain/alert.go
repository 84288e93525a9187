package domain

// AlertKind tags the transient alert values the monitor's evaluator produces.
type AlertKind string

const (
	AlertLowStock           AlertKind = "low_stock"
	AlertPredictedDepletion AlertKind = "predicted_depletion"
	AlertExpiryWarning      AlertKind = "expiry_warning"
	AlertOverstock          AlertKind = "overstock"
	AlertWastageRisk        AlertKind = "wastage_risk"
)

// Alert is a transient per-cycle alert candidate for one inventory item. It
// is consumed by the notification-creation step and not persisted on its own.
type Alert struct {
	Kind      AlertKind
	Severity  Severity
	ItemID    string
	ItemName  string
	Message   string
	Reasoning Reasoning
}

// Reasoning is the shared insight payload carried by every alert kind. It
// seeds the resulting notification's insights verbatim.
type Reasoning struct {
	Confidence       float64  `json:"confidence"`
	Reasoning        string   `json:"reasoning,omitempty"`
	Impact           Impact   `json:"impact,omitempty"`
	Urgency          Urgency  `json:"urgency,omitempty"`
	SuggestedActions []string `json:"suggested_actions,omitempty"`
}

var alertTitles = map[AlertKind]string{
	AlertLowStock:           "Low Stock Alert",
	AlertPredictedDepletion: "Stock Depletion Predicted",
	AlertExpiryWarning:      "Expiry Warning",
	AlertOverstock:          "Overstock Alert",
	AlertWastageRisk:        "Wastage Risk Alert",
}

var alertActionTexts = map[AlertKind]string{
	AlertLowStock:           "Reorder Now",
	AlertPredictedDepletion: "Place Order",
	AlertExpiryWarning:      "Use Soon",
	AlertOverstock:          "Review Stock",
	AlertWastageRisk:        "Take Action",
}

// Title builds the notification title for this alert.
func (a Alert) Title() string {
	if t, ok := alertTitles[a.Kind]; ok {
		return t + ": " + a.ItemName
	}
	return "Inventory Alert: " + a.ItemName
}

// ActionText returns the call-to-action label for this alert kind.
func (a Alert) ActionText() string {
	if t, ok := alertActionTexts[a.Kind]; ok {
		return t
	}
	return "Review Item"
}
