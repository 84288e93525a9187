// internal/repository/inventory_repository.go
package repository

import (
	"context"
	"errors"

	"github.com/dapurlink/caterwatch/internal/domain"
)

// ErrNotFound is returned by any repository when a record does not exist.
var ErrNotFound = errors.New("record not found")

// InventoryRepository loads and persists inventory items. Items are
// addressable by id and fully mutable.
type InventoryRepository interface {
	GetAll(ctx context.Context) ([]*domain.InventoryItem, error)
	GetByID(ctx context.Context, id string) (*domain.InventoryItem, error)
	Create(ctx context.Context, item *domain.InventoryItem) error
	Update(ctx context.Context, item *domain.InventoryItem) error
	Delete(ctx context.Context, id string) error
}
