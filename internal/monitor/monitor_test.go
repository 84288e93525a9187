package monitor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dapurlink/caterwatch/internal/domain"
	"github.com/dapurlink/caterwatch/internal/repository/memory"
)

func lowStockItem(id, name string) *domain.InventoryItem {
	return &domain.InventoryItem{
		ID:           id,
		Name:         name,
		Quantity:     2,
		Unit:         "kg",
		MinThreshold: 10,
		MaxThreshold: 100,
	}
}

func healthyItem(id, name string) *domain.InventoryItem {
	return &domain.InventoryItem{
		ID:           id,
		Name:         name,
		Quantity:     50,
		Unit:         "kg",
		MinThreshold: 10,
		MaxThreshold: 100,
	}
}

func newTestMonitor(t *testing.T, items ...*domain.InventoryItem) (*Monitor, *memory.InventoryRepository, *memory.NotificationRepository) {
	t.Helper()

	inventory := memory.NewInventoryRepository()
	for _, item := range items {
		if err := inventory.Create(context.Background(), item); err != nil {
			t.Fatalf("failed to seed item: %v", err)
		}
	}
	notifications := memory.NewNotificationRepository()

	m := New(inventory, notifications, Config{
		CheckInterval:  time.Hour,
		CooldownPeriod: 2 * time.Hour,
		RecipientRoles: []string{"admin", "staff"},
	})
	return m, inventory, notifications
}

func countNotifications(t *testing.T, repo *memory.NotificationRepository) int {
	t.Helper()
	list, err := repo.List(context.Background(), domain.NotificationFilter{})
	if err != nil {
		t.Fatalf("failed to list notifications: %v", err)
	}
	return len(list)
}

func TestRunCheck_HealthyInventoryCreatesNothing(t *testing.T) {
	m, _, notifications := newTestMonitor(t, healthyItem("item-1", "Jasmine Rice"))

	if err := m.RunCheck(context.Background()); err != nil {
		t.Fatalf("RunCheck failed: %v", err)
	}
	if got := countNotifications(t, notifications); got != 0 {
		t.Errorf("notifications = %d, want 0", got)
	}
}

func TestRunCheck_LowStockCreatesNotification(t *testing.T) {
	m, _, notifications := newTestMonitor(t, lowStockItem("item-1", "Chicken Breast"))

	if err := m.RunCheck(context.Background()); err != nil {
		t.Fatalf("RunCheck failed: %v", err)
	}

	list, err := notifications.List(context.Background(), domain.NotificationFilter{})
	if err != nil {
		t.Fatalf("failed to list notifications: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("notifications = %d, want 1", len(list))
	}

	n := list[0]
	if n.Type != domain.NotificationInventoryAlert {
		t.Errorf("type = %s, want inventory_alert", n.Type)
	}
	if !n.AIGenerated || !n.ActionRequired {
		t.Error("monitor notifications must be flagged ai_generated and action_required")
	}
	if !strings.Contains(n.Title, "Chicken Breast") {
		t.Errorf("title = %q, want the item name in it", n.Title)
	}
	if len(n.Recipients) != 2 {
		t.Errorf("recipients = %d, want one per configured role", len(n.Recipients))
	}
	if n.ExpiresAt == nil {
		t.Error("expected an auto-assigned expiry")
	}
}

func TestRunCheck_RefreshesInsightsEachCycle(t *testing.T) {
	item := lowStockItem("item-1", "Coconut Milk")
	now := time.Now()
	for day := 1; day <= 14; day++ {
		item.UsageHistory = append(item.UsageHistory, domain.UsageEntry{
			Date:         now.AddDate(0, 0, -day),
			QuantityUsed: 3,
		})
	}
	m, inventory, _ := newTestMonitor(t, item)

	if err := m.RunCheck(context.Background()); err != nil {
		t.Fatalf("RunCheck failed: %v", err)
	}

	stored, err := inventory.GetByID(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	if stored.Predicted.NextWeek == 0 {
		t.Error("expected refreshed predictions to be persisted")
	}
	if stored.Insights.ReorderPoint == 0 {
		t.Error("expected refreshed stock levels to be persisted")
	}
}

func TestRunCheck_CooldownSuppressesRepeatAlerts(t *testing.T) {
	m, _, notifications := newTestMonitor(t, lowStockItem("item-1", "Chicken Breast"))

	base := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)
	current := base
	m.clock = func() time.Time { return current }

	if err := m.RunCheck(context.Background()); err != nil {
		t.Fatalf("first RunCheck failed: %v", err)
	}
	if got := countNotifications(t, notifications); got != 1 {
		t.Fatalf("notifications after first cycle = %d, want 1", got)
	}

	// Within the cooldown window the same condition stays silent.
	current = base.Add(30 * time.Minute)
	if err := m.RunCheck(context.Background()); err != nil {
		t.Fatalf("second RunCheck failed: %v", err)
	}
	if got := countNotifications(t, notifications); got != 1 {
		t.Errorf("notifications within cooldown = %d, want still 1", got)
	}

	// Once the cooldown elapses the persisting condition fires again.
	current = base.Add(2*time.Hour + time.Minute)
	if err := m.RunCheck(context.Background()); err != nil {
		t.Fatalf("third RunCheck failed: %v", err)
	}
	if got := countNotifications(t, notifications); got != 2 {
		t.Errorf("notifications after cooldown = %d, want 2", got)
	}
}

func TestRunCheck_CooldownStillRefreshesInsights(t *testing.T) {
	item := lowStockItem("item-1", "Coconut Milk")
	m, inventory, _ := newTestMonitor(t, item)

	base := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)
	current := base
	m.clock = func() time.Time { return current }

	if err := m.RunCheck(context.Background()); err != nil {
		t.Fatalf("first RunCheck failed: %v", err)
	}

	// Add usage, then run again inside the cooldown window.
	stored, _ := inventory.GetByID(context.Background(), "item-1")
	stored.UsageHistory = append(stored.UsageHistory, domain.UsageEntry{Date: base, QuantityUsed: 5})
	if err := inventory.Update(context.Background(), stored); err != nil {
		t.Fatalf("failed to update item: %v", err)
	}

	current = base.Add(30 * time.Minute)
	if err := m.RunCheck(context.Background()); err != nil {
		t.Fatalf("second RunCheck failed: %v", err)
	}

	stored, _ = inventory.GetByID(context.Background(), "item-1")
	if stored.Predicted.NextWeek == 0 {
		t.Error("cooldown must only skip alerting, not the insight refresh")
	}
}

func TestRunCheck_BatchesAlertsOfSameSeverity(t *testing.T) {
	m, _, notifications := newTestMonitor(t,
		lowStockItem("item-1", "Chicken Breast"),
		lowStockItem("item-2", "Coconut Milk"),
	)

	if err := m.RunCheck(context.Background()); err != nil {
		t.Fatalf("RunCheck failed: %v", err)
	}

	list, err := notifications.List(context.Background(), domain.NotificationFilter{})
	if err != nil {
		t.Fatalf("failed to list notifications: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("notifications = %d, want 1 batched summary", len(list))
	}

	n := list[0]
	if !strings.Contains(n.Title, "2 items") {
		t.Errorf("title = %q, want batch title naming 2 items", n.Title)
	}
	if !strings.Contains(n.Message, "Chicken Breast") || !strings.Contains(n.Message, "Coconut Milk") {
		t.Errorf("message = %q, want both item names", n.Message)
	}
	if n.Source.EntityID != "batch" {
		t.Errorf("source entity = %q, want batch", n.Source.EntityID)
	}
}

func TestRunCheck_OneBadItemDoesNotAbortCycle(t *testing.T) {
	m, inventory, notifications := newTestMonitor(t,
		lowStockItem("item-1", "Chicken Breast"),
		lowStockItem("item-2", "Coconut Milk"),
	)
	inventory.FailUpdateFor = map[string]error{"item-1": errors.New("disk full")}

	if err := m.RunCheck(context.Background()); err != nil {
		t.Fatalf("RunCheck failed: %v", err)
	}

	list, err := notifications.List(context.Background(), domain.NotificationFilter{})
	if err != nil {
		t.Fatalf("failed to list notifications: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("notifications = %d, want 1 for the healthy item", len(list))
	}
	if !strings.Contains(list[0].Title, "Coconut Milk") {
		t.Errorf("title = %q, want the unaffected item", list[0].Title)
	}
}

func TestRunCheck_CooldownNotAdvancedOnCreateFailure(t *testing.T) {
	m, _, notifications := newTestMonitor(t, lowStockItem("item-1", "Chicken Breast"))

	base := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)
	current := base
	m.clock = func() time.Time { return current }

	notifications.FailCreate = errors.New("connection refused")
	if err := m.RunCheck(context.Background()); err != nil {
		t.Fatalf("RunCheck failed: %v", err)
	}
	if got := countNotifications(t, notifications); got != 0 {
		t.Fatalf("notifications = %d, want 0 while persistence is down", got)
	}

	// Persistence recovers; the next cycle must deliver despite being
	// inside what would have been the cooldown window.
	notifications.FailCreate = nil
	current = base.Add(30 * time.Minute)
	if err := m.RunCheck(context.Background()); err != nil {
		t.Fatalf("second RunCheck failed: %v", err)
	}
	if got := countNotifications(t, notifications); got != 1 {
		t.Errorf("notifications after recovery = %d, want 1 (cooldown must not advance on failure)", got)
	}
}

func TestCheckItem_BypassesCooldown(t *testing.T) {
	m, _, notifications := newTestMonitor(t, lowStockItem("item-1", "Chicken Breast"))

	if err := m.RunCheck(context.Background()); err != nil {
		t.Fatalf("RunCheck failed: %v", err)
	}
	if got := countNotifications(t, notifications); got != 1 {
		t.Fatalf("notifications = %d, want 1", got)
	}

	count, err := m.CheckItem(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("CheckItem failed: %v", err)
	}
	if count == 0 {
		t.Error("explicit check must evaluate even inside the cooldown window")
	}
	if got := countNotifications(t, notifications); got != 2 {
		t.Errorf("notifications after explicit check = %d, want 2", got)
	}
}

func TestCheckItem_UnknownItem(t *testing.T) {
	m, _, _ := newTestMonitor(t)

	if _, err := m.CheckItem(context.Background(), "missing"); err == nil {
		t.Fatal("expected an error for an unknown item")
	}
}

func TestStartStop(t *testing.T) {
	m, _, _ := newTestMonitor(t, healthyItem("item-1", "Jasmine Rice"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if m.Status().Running {
		t.Fatal("monitor should start stopped")
	}

	m.Start(ctx)
	if !m.Status().Running {
		t.Fatal("monitor should be running after Start")
	}

	// A second Start is a no-op, not a second schedule.
	m.Start(ctx)
	if !m.Status().Running {
		t.Fatal("repeated Start should leave the monitor running")
	}

	m.Stop()
	if m.Status().Running {
		t.Fatal("monitor should be stopped after Stop")
	}

	// Stopping again must not panic on the closed channel.
	m.Stop()
}

func TestStatusReportsConfig(t *testing.T) {
	m, _, _ := newTestMonitor(t)

	status := m.Status()
	if status.CheckIntervalMinutes != 60 {
		t.Errorf("interval = %d minutes, want 60", status.CheckIntervalMinutes)
	}
	if status.CooldownMinutes != 120 {
		t.Errorf("cooldown = %d minutes, want 120", status.CooldownMinutes)
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	m := New(memory.NewInventoryRepository(), memory.NewNotificationRepository(), Config{})

	if m.cfg.CheckInterval != defaultCheckInterval {
		t.Errorf("interval = %v, want %v", m.cfg.CheckInterval, defaultCheckInterval)
	}
	if m.cfg.CooldownPeriod != defaultCooldownPeriod {
		t.Errorf("cooldown = %v, want %v", m.cfg.CooldownPeriod, defaultCooldownPeriod)
	}
	if len(m.cfg.RecipientRoles) == 0 {
		t.Error("expected default recipient roles")
	}
}
