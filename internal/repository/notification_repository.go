// internal/repository/notification_repository.go
package repository

import (
	"context"
	"time"

	"github.com/dapurlink/caterwatch/internal/domain"
)

// NotificationRepository persists notifications and serves the
// notification-center queries.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	List(ctx context.Context, filter domain.NotificationFilter) ([]*domain.Notification, error)
	Update(ctx context.Context, n *domain.Notification) error
	Delete(ctx context.Context, id string) error
	GetStats(ctx context.Context, since time.Time) (*domain.NotificationStats, error)
}
