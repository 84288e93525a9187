package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dapurlink/caterwatch/internal/cache"
	"github.com/dapurlink/caterwatch/internal/domain"
	"github.com/dapurlink/caterwatch/internal/repository"
)

const defaultStatsRangeDays = 30

type NotificationService struct {
	repo  repository.NotificationRepository
	cache cache.NotificationStatsCache
}

func NewNotificationService(repo repository.NotificationRepository, cacheImpl cache.NotificationStatsCache) *NotificationService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopNotificationStatsCache()
	}
	return &NotificationService{repo: repo, cache: cacheImpl}
}

// CreateNotificationInput carries the caller-provided fields of a new
// notification. Priority is derived, never accepted from the caller.
type CreateNotificationInput struct {
	Title          string
	Message        string
	Type           domain.NotificationType
	Recipients     []domain.Recipient
	Source         domain.Source
	AIGenerated    bool
	ActionRequired bool
	ActionText     string
	ActionURL      string
	Insights       domain.Reasoning
	ExpiresAt      *time.Time
}

// Create persists a new notification, deriving its priority from the insight
// urgency/impact and assigning the priority-based expiry when none is given.
func (s *NotificationService) Create(ctx context.Context, input CreateNotificationInput) (*domain.Notification, error) {
	now := time.Now()

	n := &domain.Notification{
		ID:             uuid.NewString(),
		Title:          input.Title,
		Message:        input.Message,
		Type:           input.Type,
		Priority:       domain.PriorityMedium,
		Recipients:     input.Recipients,
		Source:         input.Source,
		AIGenerated:    input.AIGenerated,
		ActionRequired: input.ActionRequired,
		ActionText:     input.ActionText,
		ActionURL:      input.ActionURL,
		Insights:       input.Insights,
		ExpiresAt:      input.ExpiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if n.Type == "" {
		n.Type = domain.NotificationGeneral
	}

	n.CalculatePriority()
	n.EnsureExpiry(now)

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	return n, nil
}

func (s *NotificationService) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *NotificationService) List(ctx context.Context, filter domain.NotificationFilter) ([]*domain.Notification, error) {
	return s.repo.List(ctx, filter)
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

// MarkAsRead flips one recipient's read flag and recomputes effectiveness.
// Reports whether the state changed; an already-read recipient is a no-op.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID string) (*domain.Notification, bool, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	changed := n.MarkAsRead(userID, time.Now())
	if !changed {
		return n, false, nil
	}

	n.TrackEffectiveness()
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, false, err
	}

	s.invalidateStats(ctx)
	return n, true, nil
}

// TrackEngagement bumps the click or action counter and recomputes the
// effectiveness score.
func (s *NotificationService) TrackEngagement(ctx context.Context, id, event string) (*domain.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch event {
	case "click":
		n.Analytics.Clicks++
	case "action":
		n.Analytics.Actions++
	default:
		n.Analytics.Views++
	}

	n.TrackEffectiveness()
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}

	return n, nil
}

// Resolve marks a notification resolved by a user.
func (s *NotificationService) Resolve(ctx context.Context, id, userID string) (*domain.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	n.Resolve(userID, time.Now())
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	return n, nil
}

// GetAnalytics returns one notification's engagement counters with the
// effectiveness score freshly recomputed.
func (s *NotificationService) GetAnalytics(ctx context.Context, id string) (*domain.Analytics, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	n.TrackEffectiveness()
	analytics := n.Analytics
	return &analytics, nil
}

// GetStats serves the notification-center overview aggregate, cached per
// range.
func (s *NotificationService) GetStats(ctx context.Context, rangeDays int) (*domain.NotificationStats, error) {
	if rangeDays <= 0 {
		rangeDays = defaultStatsRangeDays
	}

	if stats, ok, err := s.cache.GetStats(ctx, rangeDays); err == nil && ok {
		return stats, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("notifications: cache get stats failed")
	}

	since := time.Now().AddDate(0, 0, -rangeDays)
	stats, err := s.repo.GetStats(ctx, since)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetStats(ctx, rangeDays, stats); err != nil {
		log.Warn().Err(err).Msg("notifications: cache set stats failed")
	}

	return stats, nil
}

func (s *NotificationService) invalidateStats(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("notifications: cache invalidate failed")
	}
}
