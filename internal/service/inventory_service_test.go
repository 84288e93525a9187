package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dapurlink/caterwatch/internal/domain"
	"github.com/dapurlink/caterwatch/internal/repository/memory"
)

func TestInventoryService_CreateItemAppliesDefaults(t *testing.T) {
	svc := NewInventoryService(memory.NewInventoryRepository())

	item, err := svc.CreateItem(context.Background(), CreateItemInput{
		Name:     "Jasmine Rice",
		Quantity: 40,
		Unit:     "kg",
		UnitCost: decimal.NewFromFloat(1.20),
	})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	if item.ID == "" {
		t.Error("expected an assigned id")
	}
	if item.MinThreshold != domain.DefaultMinThreshold {
		t.Errorf("min threshold = %d, want default %d", item.MinThreshold, domain.DefaultMinThreshold)
	}
	if item.MaxThreshold != domain.DefaultMaxThreshold {
		t.Errorf("max threshold = %d, want default %d", item.MaxThreshold, domain.DefaultMaxThreshold)
	}
	if item.Category != "General" {
		t.Errorf("category = %q, want General default", item.Category)
	}
	if !item.Cost.TotalCost.Equal(decimal.NewFromFloat(48.0)) {
		t.Errorf("total cost = %s, want 48", item.Cost.TotalCost)
	}
}

func TestInventoryService_RecordUsageAdjustsQuantity(t *testing.T) {
	repo := memory.NewInventoryRepository()
	svc := NewInventoryService(repo)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, CreateItemInput{Name: "Cooking Oil", Quantity: 10, Unit: "liter"})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	item, err := svc.RecordUsage(ctx, created.ID, 4, "wedding", "booking-7")
	if err != nil {
		t.Fatalf("RecordUsage failed: %v", err)
	}
	if item.Quantity != 6 {
		t.Errorf("quantity = %d, want 6", item.Quantity)
	}
	if len(item.UsageHistory) != 1 || item.UsageHistory[0].BookingID != "booking-7" {
		t.Errorf("usage history = %+v, want one entry for booking-7", item.UsageHistory)
	}

	stored, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	if stored.Quantity != 6 {
		t.Error("usage was not persisted")
	}

	if _, err := svc.RecordUsage(ctx, "missing", 1, "", ""); err == nil {
		t.Error("expected an error for an unknown item")
	}
}

func TestInventoryService_RecordRestock(t *testing.T) {
	svc := NewInventoryService(memory.NewInventoryRepository())
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, CreateItemInput{Name: "Soy Sauce", Quantity: 5, Unit: "liter"})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	item, err := svc.RecordRestock(ctx, created.ID, 20, "Umami House", decimal.NewFromFloat(64.0), "B-009")
	if err != nil {
		t.Fatalf("RecordRestock failed: %v", err)
	}
	if item.Quantity != 25 {
		t.Errorf("quantity = %d, want 25", item.Quantity)
	}
	if item.BatchNumber != "B-009" {
		t.Errorf("batch number = %q, want B-009", item.BatchNumber)
	}
}

func TestInventoryService_RefreshInsights(t *testing.T) {
	repo := memory.NewInventoryRepository()
	svc := NewInventoryService(repo)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, CreateItemInput{Name: "Coconut Milk", Quantity: 3, Unit: "liter"})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	for day := 1; day <= 10; day++ {
		if _, err := svc.RecordUsage(ctx, created.ID, 1, "daily prep", ""); err != nil {
			t.Fatalf("RecordUsage failed: %v", err)
		}
	}

	item, err := svc.RefreshInsights(ctx, created.ID)
	if err != nil {
		t.Fatalf("RefreshInsights failed: %v", err)
	}

	if item.Predicted.NextWeek == 0 {
		t.Error("expected a non-zero demand prediction")
	}
	if item.Insights.ReorderPoint == 0 {
		t.Error("expected a non-zero reorder point")
	}
	// Quantity dropped to zero and the threshold default is 10, so the
	// embedded alert log must have picked up a low stock entry.
	if len(item.Alerts) == 0 {
		t.Error("expected the embedded alert log to be appended to")
	}

	stored, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	if len(stored.Alerts) != len(item.Alerts) {
		t.Error("refreshed insights were not persisted")
	}
}
