package domain

// NotificationFilter narrows notification list queries.
type NotificationFilter struct {
	UserID     string           `json:"user_id"`
	Role       string           `json:"role"`
	Type       NotificationType `json:"type"`
	Priority   Priority         `json:"priority"`
	UnreadOnly bool             `json:"unread_only"`
	Unresolved bool             `json:"unresolved"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
}

// NotificationStats is the overview aggregate for the notification center.
type NotificationStats struct {
	Total            int     `json:"total" db:"total"`
	Unresolved       int     `json:"unresolved" db:"unresolved"`
	Critical         int     `json:"critical" db:"critical"`
	High             int     `json:"high" db:"high"`
	Medium           int     `json:"medium" db:"medium"`
	Low              int     `json:"low" db:"low"`
	AIGenerated      int     `json:"ai_generated" db:"ai_generated"`
	Resolved         int     `json:"resolved" db:"resolved"`
	AvgEffectiveness float64 `json:"avg_effectiveness" db:"avg_effectiveness"`
}
