// internal/domain/notification.go
package domain

import (
	"math"
	"time"
)

// NotificationType classifies notifications by source concern.
type NotificationType string

const (
	NotificationInventoryAlert   NotificationType = "inventory_alert"
	NotificationTaskReminder     NotificationType = "task_reminder"
	NotificationSystemUpdate     NotificationType = "system_update"
	NotificationMaintenanceAlert NotificationType = "maintenance_alert"
	NotificationGeneral          NotificationType = "general"
)

// Recipient tracks delivery and read state for one addressee, either a
// concrete user or a role.
type Recipient struct {
	UserID string     `json:"user_id,omitempty"`
	Role   string     `json:"role,omitempty"`
	Read   bool       `json:"read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}

// Source points back at the entity a notification was raised for.
type Source struct {
	Module     string `json:"module,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`
	EntityType string `json:"entity_type,omitempty"`
}

// Analytics aggregates engagement counters for a notification.
type Analytics struct {
	Views         int `json:"views"`
	Clicks        int `json:"clicks"`
	Actions       int `json:"actions"`
	Effectiveness int `json:"effectiveness"`
}

// Notification is a persisted message with recipients, read state, priority
// and engagement analytics.
type Notification struct {
	ID             string           `json:"id" db:"id"`
	Title          string           `json:"title" db:"title"`
	Message        string           `json:"message" db:"message"`
	Type           NotificationType `json:"type" db:"type"`
	Priority       Priority         `json:"priority" db:"priority"`
	Recipients     []Recipient      `json:"recipients"`
	Source         Source           `json:"source"`
	AIGenerated    bool             `json:"ai_generated" db:"ai_generated"`
	ActionRequired bool             `json:"action_required" db:"action_required"`
	ActionText     string           `json:"action_text,omitempty" db:"action_text"`
	ActionURL      string           `json:"action_url,omitempty" db:"action_url"`
	Insights       Reasoning        `json:"ai_insights"`
	Analytics      Analytics        `json:"analytics"`
	Resolved       bool             `json:"resolved" db:"resolved"`
	ResolvedAt     *time.Time       `json:"resolved_at,omitempty" db:"resolved_at"`
	ResolvedBy     string           `json:"resolved_by,omitempty" db:"resolved_by"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
}

var urgencyScores = map[Urgency]int{
	UrgencyImmediate: 4,
	UrgencyHigh:      3,
	UrgencyMedium:    2,
	UrgencyLow:       1,
}

var impactScores = map[Impact]int{
	ImpactHigh:   3,
	ImpactMedium: 2,
	ImpactLow:    1,
}

// CalculatePriority derives priority from the insight urgency and impact.
// It is idempotent: unchanged insights always yield the same priority.
func (n *Notification) CalculatePriority() Priority {
	if n.Insights.Urgency != "" && n.Insights.Impact != "" {
		urgencyScore, ok := urgencyScores[n.Insights.Urgency]
		if !ok {
			urgencyScore = 2
		}
		impactScore, ok := impactScores[n.Insights.Impact]
		if !ok {
			impactScore = 2
		}

		total := urgencyScore + impactScore
		switch {
		case total >= 6:
			n.Priority = PriorityCritical
		case total >= 5:
			n.Priority = PriorityHigh
		case total >= 3:
			n.Priority = PriorityMedium
		default:
			n.Priority = PriorityLow
		}
	}

	return n.Priority
}

// MarkAsRead records that a recipient read the notification and bumps the
// view counter. Reports false (without error) when the recipient is absent
// or had already read it.
func (n *Notification) MarkAsRead(userID string, now time.Time) bool {
	for idx := range n.Recipients {
		r := &n.Recipients[idx]
		if r.UserID == "" || r.UserID != userID {
			continue
		}
		if r.Read {
			return false
		}
		r.Read = true
		readAt := now
		r.ReadAt = &readAt
		n.Analytics.Views++
		return true
	}
	return false
}

// TrackEffectiveness recomputes the 0-100 effectiveness score from read,
// click and action rates.
func (n *Notification) TrackEffectiveness() int {
	totalRecipients := len(n.Recipients)
	readCount := 0
	for _, r := range n.Recipients {
		if r.Read {
			readCount++
		}
	}

	var readRate, clickRate, actionRate float64
	if totalRecipients > 0 {
		readRate = float64(readCount) / float64(totalRecipients)
	}
	if n.Analytics.Views > 0 {
		clickRate = float64(n.Analytics.Clicks) / float64(n.Analytics.Views)
	}
	if n.Analytics.Clicks > 0 {
		actionRate = float64(n.Analytics.Actions) / float64(n.Analytics.Clicks)
	}

	n.Analytics.Effectiveness = int(math.Round((readRate*0.4 + clickRate*0.3 + actionRate*0.3) * 100))
	return n.Analytics.Effectiveness
}

// Resolve marks the notification resolved. Resolution does not alter
// priority or analytics.
func (n *Notification) Resolve(userID string, now time.Time) {
	n.Resolved = true
	resolvedAt := now
	n.ResolvedAt = &resolvedAt
	if userID != "" {
		n.ResolvedBy = userID
	}
}

var expirationDays = map[Priority]int{
	PriorityCritical: 7,
	PriorityHigh:     14,
	PriorityMedium:   30,
	PriorityLow:      60,
}

// EnsureExpiry assigns the priority-derived expiry when none was set at
// creation. System updates never auto-expire.
func (n *Notification) EnsureExpiry(now time.Time) {
	if n.ExpiresAt != nil || n.Type == NotificationSystemUpdate {
		return
	}
	days, ok := expirationDays[n.Priority]
	if !ok {
		days = 30
	}
	expires := now.Add(time.Duration(days) * 24 * time.Hour)
	n.ExpiresAt = &expires
}
