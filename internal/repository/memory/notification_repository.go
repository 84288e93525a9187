package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dapurlink/caterwatch/internal/domain"
	"github.com/dapurlink/caterwatch/internal/repository"
)

// NotificationRepository provides in-memory notification storage.
type NotificationRepository struct {
	mu            sync.RWMutex
	notifications map[string]*domain.Notification

	// FailCreate simulates persistence failures on notification creation.
	FailCreate error
}

// NewNotificationRepository creates a new in-memory notification repository.
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		notifications: make(map[string]*domain.Notification),
	}
}

// Verify interface compliance
var _ repository.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreate != nil {
		return r.FailCreate
	}
	copied := *n
	r.notifications[n.ID] = &copied
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *NotificationRepository) List(ctx context.Context, filter domain.NotificationFilter) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Notification
	for _, n := range r.notifications {
		if !matchesFilter(n, filter) {
			continue
		}
		copied := *n
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}

	return result, nil
}

func (r *NotificationRepository) Update(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notifications[n.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *n
	r.notifications[n.ID] = &copied
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notifications[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.notifications, id)
	return nil
}

func (r *NotificationRepository) GetStats(ctx context.Context, since time.Time) (*domain.NotificationStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &domain.NotificationStats{}
	var effectivenessSum float64
	for _, n := range r.notifications {
		if n.CreatedAt.Before(since) {
			continue
		}
		stats.Total++
		if !n.Resolved {
			stats.Unresolved++
		} else {
			stats.Resolved++
		}
		switch n.Priority {
		case domain.PriorityCritical:
			stats.Critical++
		case domain.PriorityHigh:
			stats.High++
		case domain.PriorityMedium:
			stats.Medium++
		case domain.PriorityLow:
			stats.Low++
		}
		if n.AIGenerated {
			stats.AIGenerated++
		}
		effectivenessSum += float64(n.Analytics.Effectiveness)
	}

	if stats.Total > 0 {
		stats.AvgEffectiveness = effectivenessSum / float64(stats.Total)
	}

	return stats, nil
}

func matchesFilter(n *domain.Notification, filter domain.NotificationFilter) bool {
	if filter.Type != "" && n.Type != filter.Type {
		return false
	}
	if filter.Priority != "" && n.Priority != filter.Priority {
		return false
	}
	if filter.Unresolved && n.Resolved {
		return false
	}

	if filter.UserID != "" || filter.Role != "" || filter.UnreadOnly {
		matched := false
		for _, rec := range n.Recipients {
			if filter.UserID != "" && rec.UserID != filter.UserID {
				continue
			}
			if filter.Role != "" && rec.Role != filter.Role {
				continue
			}
			if filter.UnreadOnly && rec.Read {
				continue
			}
			matched = true
			break
		}
		if !matched {
			return false
		}
	}

	return true
}
