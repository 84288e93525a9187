// internal/service/inventory_service.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dapurlink/caterwatch/internal/domain"
	"github.com/dapurlink/caterwatch/internal/insight"
	"github.com/dapurlink/caterwatch/internal/repository"
)

type InventoryService struct {
	repo repository.InventoryRepository
}

func NewInventoryService(repo repository.InventoryRepository) *InventoryService {
	return &InventoryService{repo: repo}
}

// CreateItemInput carries the fields accepted at item intake.
type CreateItemInput struct {
	Name         string
	Category     string
	Quantity     int
	Unit         string
	MinThreshold int
	MaxThreshold int
	UnitCost     decimal.Decimal
	Supplier     string
	Location     domain.Location
	ExpiryDate   *time.Time
	BatchNumber  string
}

// CreateItem creates a new inventory item, applying threshold defaults.
func (s *InventoryService) CreateItem(ctx context.Context, input CreateItemInput) (*domain.InventoryItem, error) {
	now := time.Now()

	minThreshold := input.MinThreshold
	if minThreshold == 0 {
		minThreshold = domain.DefaultMinThreshold
	}
	maxThreshold := input.MaxThreshold
	if maxThreshold == 0 {
		maxThreshold = domain.DefaultMaxThreshold
	}

	category := input.Category
	if category == "" {
		category = "General"
	}

	item := &domain.InventoryItem{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Category:     category,
		Quantity:     input.Quantity,
		Unit:         input.Unit,
		MinThreshold: minThreshold,
		MaxThreshold: maxThreshold,
		Cost: domain.ItemCost{
			UnitCost:  input.UnitCost,
			TotalCost: input.UnitCost.Mul(decimal.NewFromInt(int64(input.Quantity))),
			Supplier:  input.Supplier,
		},
		Location:    input.Location,
		ExpiryDate:  input.ExpiryDate,
		BatchNumber: input.BatchNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *InventoryService) GetAll(ctx context.Context) ([]*domain.InventoryItem, error) {
	return s.repo.GetAll(ctx)
}

func (s *InventoryService) GetByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *InventoryService) Update(ctx context.Context, item *domain.InventoryItem) error {
	return s.repo.Update(ctx, item)
}

func (s *InventoryService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// RecordUsage appends a usage entry to an item's history and adjusts its
// quantity (clamped at zero).
func (s *InventoryService) RecordUsage(ctx context.Context, id string, quantity int, purpose, bookingID string) (*domain.InventoryItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.RecordUsage(domain.UsageEntry{
		Date:         time.Now(),
		QuantityUsed: quantity,
		Purpose:      purpose,
		BookingID:    bookingID,
	})

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// RecordRestock appends a restock entry and increments quantity.
func (s *InventoryService) RecordRestock(ctx context.Context, id string, quantity int, supplier string, cost decimal.Decimal, batchNumber string) (*domain.InventoryItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.RecordRestock(domain.RestockEntry{
		Date:          time.Now(),
		QuantityAdded: quantity,
		Supplier:      supplier,
		Cost:          cost,
		BatchNumber:   batchNumber,
	})

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// RefreshInsights recomputes one item's derived demand/stock insights,
// appends any model-level alert log entries, persists and returns the item.
// Backs the per-item predictions endpoint.
func (s *InventoryService) RefreshInsights(ctx context.Context, id string) (*domain.InventoryItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	insight.RefreshItem(item, now)
	item.AppendAlerts(item.GenerateAlerts(now))

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}
