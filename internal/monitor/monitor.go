// internal/monitor/monitor.go
//
// The inventory monitor is the recurring control loop of the system: each
// cycle it reloads every inventory item, recomputes the demand/stock
// insights, evaluates alert conditions and turns the surviving alerts into
// notifications, with a per-item cooldown to keep the notification center
// from being spammed.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dapurlink/caterwatch/internal/alert"
	"github.com/dapurlink/caterwatch/internal/domain"
	"github.com/dapurlink/caterwatch/internal/insight"
	"github.com/dapurlink/caterwatch/internal/repository"
	"github.com/dapurlink/caterwatch/pkg/logger"
)

const (
	defaultCheckInterval  = 30 * time.Minute
	defaultCooldownPeriod = 2 * time.Hour
)

// Config holds the monitor's tunables.
type Config struct {
	CheckInterval  time.Duration
	CooldownPeriod time.Duration
	RecipientRoles []string
}

// Status is the monitor's introspection snapshot.
type Status struct {
	Running              bool `json:"running"`
	CheckIntervalMinutes int  `json:"check_interval_minutes"`
	CooldownMinutes      int  `json:"cooldown_minutes"`
	TrackedItems         int  `json:"tracked_items"`
}

// Monitor owns the periodic inventory check. One instance is constructed at
// process start and shared with whatever exposes the operational surface;
// there is no package-level state.
type Monitor struct {
	inventory     repository.InventoryRepository
	notifications repository.NotificationRepository
	evaluator     *alert.Evaluator
	cfg           Config
	clock         func() time.Time

	mu           sync.Mutex // guards running flag, stop channel, cooldown map
	running      bool
	stopCh       chan struct{}
	lastNotified map[string]time.Time

	cycleMu sync.Mutex // serializes check cycles (scheduled and manual)
}

// New creates a Monitor. Zero config values fall back to the defaults
// (30 minute interval, 2 hour cooldown, admin+staff recipients).
func New(inventory repository.InventoryRepository, notifications repository.NotificationRepository, cfg Config) *Monitor {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = defaultCheckInterval
	}
	if cfg.CooldownPeriod <= 0 {
		cfg.CooldownPeriod = defaultCooldownPeriod
	}
	if len(cfg.RecipientRoles) == 0 {
		cfg.RecipientRoles = []string{"admin", "staff"}
	}

	return &Monitor{
		inventory:     inventory,
		notifications: notifications,
		evaluator:     alert.NewEvaluator(),
		cfg:           cfg,
		clock:         time.Now,
		lastNotified:  make(map[string]time.Time),
	}
}

// Start runs one check immediately and then schedules a recurring check.
// Starting an already-running monitor is a no-op; the existing schedule is
// kept and no second timer is created.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		logger.Log.Debug().Msg("inventory monitor already running")
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	stopCh := m.stopCh
	m.mu.Unlock()

	logger.Log.Info().
		Dur("interval", m.cfg.CheckInterval).
		Dur("cooldown", m.cfg.CooldownPeriod).
		Msg("inventory monitor started")

	if err := m.RunCheck(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("initial inventory check failed")
	}

	go m.loop(ctx, stopCh)
}

func (m *Monitor) loop(ctx context.Context, stopCh chan struct{}) {
	ticker := time.NewTicker(m.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			m.Stop()
			return
		case <-ticker.C:
			if err := m.RunCheck(ctx); err != nil {
				logger.Log.Error().Err(err).Msg("scheduled inventory check failed")
			}
		}
	}
}

// Stop cancels the recurring schedule. An in-flight cycle is allowed to
// finish. Stopping a stopped monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	close(m.stopCh)
	m.stopCh = nil
	m.running = false
	logger.Log.Info().Msg("inventory monitor stopped")
}

// Status reports the monitor's current state.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Status{
		Running:              m.running,
		CheckIntervalMinutes: int(m.cfg.CheckInterval / time.Minute),
		CooldownMinutes:      int(m.cfg.CooldownPeriod / time.Minute),
		TrackedItems:         len(m.lastNotified),
	}
}

// RunCheck performs one full check cycle: refresh insights for every item,
// evaluate alerts for items outside their cooldown window, and turn the
// candidates into notifications. A failure on one item never aborts the rest
// of the cycle; "no alerts" is a normal successful outcome.
func (m *Monitor) RunCheck(ctx context.Context) error {
	m.cycleMu.Lock()
	defer m.cycleMu.Unlock()

	items, err := m.inventory.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load inventory: %w", err)
	}

	now := m.clock()
	var candidates []domain.Alert

	for _, item := range items {
		if err := m.refreshInsights(ctx, item, now); err != nil {
			logger.Log.Warn().Err(err).Str("item", item.Name).Msg("skipping item: insight refresh failed")
			continue
		}

		if m.inCooldown(item.ID, now) {
			continue
		}
		candidates = append(candidates, m.evaluator.Evaluate(item, now)...)
	}

	if len(candidates) == 0 {
		logger.Log.Info().Int("items", len(items)).Msg("inventory check complete, all levels optimal")
		return nil
	}

	created := m.processAlerts(ctx, candidates, now)
	logger.Log.Info().
		Int("items", len(items)).
		Int("alerts", len(candidates)).
		Int("notifications", created).
		Msg("inventory check complete")

	return nil
}

// CheckItem evaluates and (if anything fires) notifies for a single item on
// demand, bypassing the cooldown window since the check was explicitly
// requested. It returns the number of alerts raised.
func (m *Monitor) CheckItem(ctx context.Context, id string) (int, error) {
	m.cycleMu.Lock()
	defer m.cycleMu.Unlock()

	item, err := m.inventory.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}

	now := m.clock()
	if err := m.refreshInsights(ctx, item, now); err != nil {
		return 0, err
	}

	alerts := m.evaluator.Evaluate(item, now)
	if len(alerts) == 0 {
		return 0, nil
	}

	m.processAlerts(ctx, alerts, now)
	return len(alerts), nil
}

// refreshInsights recomputes the derived fields and persists the item.
func (m *Monitor) refreshInsights(ctx context.Context, item *domain.InventoryItem, now time.Time) error {
	insight.RefreshItem(item, now)
	return m.inventory.Update(ctx, item)
}

// processAlerts groups candidates by severity and creates one notification
// per group: a direct notification for a lone alert, a batched summary for
// several. Cooldown timestamps advance only for items whose notification was
// successfully persisted. Returns the number of notifications created.
func (m *Monitor) processAlerts(ctx context.Context, alerts []domain.Alert, now time.Time) int {
	groups := make(map[domain.Severity][]domain.Alert)
	for _, a := range alerts {
		groups[a.Severity] = append(groups[a.Severity], a)
	}

	created := 0
	for severity, group := range groups {
		var n *domain.Notification
		if len(group) == 1 {
			n = m.buildSingleNotification(group[0], now)
		} else {
			n = m.buildBatchNotification(severity, group, now)
		}

		if err := m.notifications.Create(ctx, n); err != nil {
			logger.Log.Error().Err(err).Str("title", n.Title).Msg("failed to create notification")
			continue
		}
		created++

		m.mu.Lock()
		for _, a := range group {
			m.lastNotified[a.ItemID] = now
		}
		m.mu.Unlock()

		logger.Log.Info().Str("title", n.Title).Str("priority", string(n.Priority)).Msg("notification created")
	}

	return created
}

func (m *Monitor) buildSingleNotification(a domain.Alert, now time.Time) *domain.Notification {
	n := &domain.Notification{
		ID:             uuid.NewString(),
		Title:          a.Title(),
		Message:        a.Message,
		Type:           domain.NotificationInventoryAlert,
		Priority:       domain.SeverityToPriority(a.Severity),
		Recipients:     m.recipients(),
		Source:         domain.Source{Module: "inventory", EntityID: a.ItemID, EntityType: "Inventory"},
		AIGenerated:    true,
		ActionRequired: true,
		ActionText:     a.ActionText(),
		ActionURL:      "/inventory/" + a.ItemID,
		Insights:       a.Reasoning,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	n.CalculatePriority()
	n.EnsureExpiry(now)
	return n
}

func (m *Monitor) buildBatchNotification(severity domain.Severity, group []domain.Alert, now time.Time) *domain.Notification {
	names := make([]string, 0, len(group))
	kindSet := make(map[domain.AlertKind]struct{})
	var kinds []string
	for _, a := range group {
		names = append(names, a.ItemName)
		if _, seen := kindSet[a.Kind]; !seen {
			kindSet[a.Kind] = struct{}{}
			kinds = append(kinds, string(a.Kind))
		}
	}

	impact := domain.ImpactMedium
	urgency := domain.UrgencyHigh
	if severity == domain.SeverityCritical {
		impact = domain.ImpactHigh
		urgency = domain.UrgencyImmediate
	}

	n := &domain.Notification{
		ID:    uuid.NewString(),
		Title: fmt.Sprintf("Multiple Inventory Alerts (%d items)", len(group)),
		Message: fmt.Sprintf("Detected %d inventory issues: %s. Immediate attention required.",
			len(group), strings.Join(names, ", ")),
		Type:           domain.NotificationInventoryAlert,
		Priority:       domain.SeverityToPriority(severity),
		Recipients:     m.recipients(),
		Source:         domain.Source{Module: "inventory", EntityID: "batch", EntityType: "InventoryBatch"},
		AIGenerated:    true,
		ActionRequired: true,
		ActionText:     "Review Inventory",
		ActionURL:      "/inventory",
		Insights: domain.Reasoning{
			Confidence: 0.9,
			Reasoning:  fmt.Sprintf("Batch alert for %s issues", strings.Join(kinds, ", ")),
			Impact:     impact,
			Urgency:    urgency,
			SuggestedActions: []string{
				"Review all flagged items",
				"Prioritize critical items",
				"Update reorder points",
				"Check supplier availability",
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	n.CalculatePriority()
	n.EnsureExpiry(now)
	return n
}

func (m *Monitor) recipients() []domain.Recipient {
	recipients := make([]domain.Recipient, 0, len(m.cfg.RecipientRoles))
	for _, role := range m.cfg.RecipientRoles {
		recipients = append(recipients, domain.Recipient{Role: role})
	}
	return recipients
}

func (m *Monitor) inCooldown(itemID string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	last, ok := m.lastNotified[itemID]
	return ok && now.Sub(last) < m.cfg.CooldownPeriod
}
