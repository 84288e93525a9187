// Package memory provides in-memory repository implementations used by tests
// and local development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dapurlink/caterwatch/internal/domain"
	"github.com/dapurlink/caterwatch/internal/repository"
)

// InventoryRepository provides in-memory inventory storage.
type InventoryRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.InventoryItem

	// FailUpdateFor simulates persistence failures for specific item ids.
	FailUpdateFor map[string]error
}

// NewInventoryRepository creates a new in-memory inventory repository.
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		items: make(map[string]*domain.InventoryItem),
	}
}

// Verify interface compliance
var _ repository.InventoryRepository = (*InventoryRepository)(nil)

func (r *InventoryRepository) GetAll(ctx context.Context) ([]*domain.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*domain.InventoryItem, 0, len(r.items))
	for _, item := range r.items {
		copied := *item
		items = append(items, &copied)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return items, nil
}

func (r *InventoryRepository) GetByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *InventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *InventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.FailUpdateFor[item.ID]; ok {
		return err
	}
	if _, ok := r.items[item.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
