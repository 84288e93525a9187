package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dapurlink/caterwatch/internal/config"
	"github.com/dapurlink/caterwatch/internal/domain"
	"github.com/redis/go-redis/v9"
)

const notificationStatsKeyPrefix = "notifications:stats"

// NotificationStatsCache caches the notification-center overview aggregate.
type NotificationStatsCache interface {
	GetStats(ctx context.Context, rangeDays int) (*domain.NotificationStats, bool, error)
	SetStats(ctx context.Context, rangeDays int, stats *domain.NotificationStats) error
	Invalidate(ctx context.Context) error
}

type redisNotificationStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopNotificationStatsCache struct{}

func NewNotificationStatsCache(cfg config.CacheConfig) (NotificationStatsCache, error) {
	if !cfg.Enabled {
		return &noopNotificationStatsCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisNotificationStatsCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopNotificationStatsCache() NotificationStatsCache {
	return &noopNotificationStatsCache{}
}

func (c *redisNotificationStatsCache) GetStats(ctx context.Context, rangeDays int) (*domain.NotificationStats, bool, error) {
	key := statsKey(rangeDays)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var stats domain.NotificationStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return nil, false, fmt.Errorf("decode notification stats cache: %w", err)
	}

	return &stats, true, nil
}

func (c *redisNotificationStatsCache) SetStats(ctx context.Context, rangeDays int, stats *domain.NotificationStats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode notification stats cache: %w", err)
	}

	if err := c.client.Set(ctx, statsKey(rangeDays), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisNotificationStatsCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	pattern := notificationStatsKeyPrefix + "*"
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return nil
}

func (n *noopNotificationStatsCache) GetStats(ctx context.Context, rangeDays int) (*domain.NotificationStats, bool, error) {
	return nil, false, nil
}

func (n *noopNotificationStatsCache) SetStats(ctx context.Context, rangeDays int, stats *domain.NotificationStats) error {
	return nil
}

func (n *noopNotificationStatsCache) Invalidate(ctx context.Context) error {
	return nil
}

func statsKey(rangeDays int) string {
	return fmt.Sprintf("%s:%dd", notificationStatsKeyPrefix, rangeDays)
}
