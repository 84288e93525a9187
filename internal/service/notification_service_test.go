package service

import (
	"context"
	"testing"
	"time"

	"github.com/dapurlink/caterwatch/internal/domain"
	"github.com/dapurlink/caterwatch/internal/repository/memory"
)

func newNotificationService() (*NotificationService, *memory.NotificationRepository) {
	repo := memory.NewNotificationRepository()
	return NewNotificationService(repo, nil), repo
}

func TestNotificationService_CreateDerivesPriorityAndExpiry(t *testing.T) {
	svc, _ := newNotificationService()

	n, err := svc.Create(context.Background(), CreateNotificationInput{
		Title:   "Low Stock Alert: Jasmine Rice",
		Message: "Jasmine Rice is running low.",
		Type:    domain.NotificationInventoryAlert,
		Insights: domain.Reasoning{
			Confidence: 0.95,
			Impact:     domain.ImpactHigh,
			Urgency:    domain.UrgencyImmediate,
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if n.ID == "" {
		t.Error("expected an assigned id")
	}
	if n.Priority != domain.PriorityCritical {
		t.Errorf("priority = %s, want critical derived from insights", n.Priority)
	}
	if n.ExpiresAt == nil {
		t.Fatal("expected an auto-assigned expiry")
	}
	wantExpiry := n.CreatedAt.Add(7 * 24 * time.Hour)
	if !n.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("ExpiresAt = %v, want %v (7 days for critical)", n.ExpiresAt, wantExpiry)
	}
}

func TestNotificationService_CreateDefaultsTypeToGeneral(t *testing.T) {
	svc, _ := newNotificationService()

	n, err := svc.Create(context.Background(), CreateNotificationInput{
		Title:   "Heads up",
		Message: "Kitchen deep clean on Friday.",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if n.Type != domain.NotificationGeneral {
		t.Errorf("type = %s, want general", n.Type)
	}
	if n.Priority != domain.PriorityMedium {
		t.Errorf("priority = %s, want the medium default without insights", n.Priority)
	}
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	svc, _ := newNotificationService()

	created, err := svc.Create(context.Background(), CreateNotificationInput{
		Title:      "Low Stock Alert: Jasmine Rice",
		Message:    "Jasmine Rice is running low.",
		Recipients: []domain.Recipient{{UserID: "user-1"}, {UserID: "user-2"}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, changed, err := svc.MarkAsRead(context.Background(), created.ID, "user-1")
	if err != nil {
		t.Fatalf("MarkAsRead failed: %v", err)
	}
	if !changed {
		t.Error("first read should report a change")
	}
	// read rate 0.5, no clicks yet: effectiveness 20
	if n.Analytics.Effectiveness != 20 {
		t.Errorf("effectiveness = %d, want 20", n.Analytics.Effectiveness)
	}

	_, changed, err = svc.MarkAsRead(context.Background(), created.ID, "user-1")
	if err != nil {
		t.Fatalf("repeat MarkAsRead failed: %v", err)
	}
	if changed {
		t.Error("repeat read should be a no-op")
	}

	if _, _, err := svc.MarkAsRead(context.Background(), "missing", "user-1"); err == nil {
		t.Error("expected an error for an unknown notification")
	}
}

func TestNotificationService_TrackEngagement(t *testing.T) {
	svc, repo := newNotificationService()

	created, err := svc.Create(context.Background(), CreateNotificationInput{
		Title:      "Expiry Warning: Fresh Basil",
		Message:    "Fresh Basil will expire in 2 day(s).",
		Recipients: []domain.Recipient{{UserID: "user-1"}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, _, err := svc.MarkAsRead(context.Background(), created.ID, "user-1"); err != nil {
		t.Fatalf("MarkAsRead failed: %v", err)
	}
	if _, err := svc.TrackEngagement(context.Background(), created.ID, "click"); err != nil {
		t.Fatalf("click tracking failed: %v", err)
	}
	n, err := svc.TrackEngagement(context.Background(), created.ID, "action")
	if err != nil {
		t.Fatalf("action tracking failed: %v", err)
	}

	if n.Analytics.Clicks != 1 || n.Analytics.Actions != 1 {
		t.Errorf("analytics = %+v, want 1 click and 1 action", n.Analytics)
	}
	// full read, click and action rates: 100
	if n.Analytics.Effectiveness != 100 {
		t.Errorf("effectiveness = %d, want 100", n.Analytics.Effectiveness)
	}

	stored, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if stored.Analytics.Effectiveness != 100 {
		t.Error("tracked analytics were not persisted")
	}
}

func TestNotificationService_Resolve(t *testing.T) {
	svc, _ := newNotificationService()

	created, err := svc.Create(context.Background(), CreateNotificationInput{
		Title:   "Overstock Alert: Paper Napkins",
		Message: "Paper Napkins is overstocked.",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := svc.Resolve(context.Background(), created.ID, "user-1")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !n.Resolved || n.ResolvedBy != "user-1" || n.ResolvedAt == nil {
		t.Errorf("resolution state = %+v, want resolved by user-1", n)
	}
}

func TestNotificationService_GetStats(t *testing.T) {
	svc, _ := newNotificationService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateNotificationInput{
		Title: "a", Message: "a",
		AIGenerated: true,
		Insights:    domain.Reasoning{Impact: domain.ImpactHigh, Urgency: domain.UrgencyImmediate},
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	low, err := svc.Create(ctx, CreateNotificationInput{
		Title: "b", Message: "b",
		Insights: domain.Reasoning{Impact: domain.ImpactLow, Urgency: domain.UrgencyLow},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Resolve(ctx, low.ID, "user-1"); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	stats, err := svc.GetStats(ctx, 0)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	if stats.Total != 2 {
		t.Errorf("total = %d, want 2", stats.Total)
	}
	if stats.Critical != 1 || stats.Low != 1 {
		t.Errorf("priority counts = %+v, want 1 critical and 1 low", stats)
	}
	if stats.AIGenerated != 1 {
		t.Errorf("ai_generated = %d, want 1", stats.AIGenerated)
	}
	if stats.Resolved != 1 || stats.Unresolved != 1 {
		t.Errorf("resolution counts = %+v, want 1 each", stats)
	}
}

func TestNotificationService_ListFilters(t *testing.T) {
	svc, _ := newNotificationService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateNotificationInput{
		Title: "for admins", Message: "m",
		Recipients: []domain.Recipient{{Role: "admin"}},
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(ctx, CreateNotificationInput{
		Title: "for one user", Message: "m",
		Recipients: []domain.Recipient{{UserID: "user-1"}},
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	admins, err := svc.List(ctx, domain.NotificationFilter{Role: "admin"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(admins) != 1 || admins[0].Title != "for admins" {
		t.Errorf("role filter returned %d results, want the admin notification only", len(admins))
	}

	users, err := svc.List(ctx, domain.NotificationFilter{UserID: "user-1"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 1 || users[0].Title != "for one user" {
		t.Errorf("user filter returned %d results, want the user notification only", len(users))
	}
}
