package cache

import (
	"context"
	"fmt"
	"time"

	"forum-api/core/config"
	"forum-api/core/constants"
	"forum-api/core/logger"

	"github.com/redis/go-redis/v9"
)

// Cache wraps the redis client used for token blacklisting, login
// throttling and short-lived queue snapshots.
type Cache struct {
	client *redis.Client
}

func NewCache(cfg config.RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return Cache{}, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis initialized successfully", "addr", cfg.Addr, "db", cfg.DB)
	return Cache{client: client}, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// ===================== Token blacklist =====================

func (c *Cache) AddToTokenBlacklist(ctx context.Context, tokenID string, ttl time.Duration) error {
	return c.client.Set(ctx, constants.RedisKeyTokenBlacklist+tokenID, "1", ttl).Err()
}

func (c *Cache) IsTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.client.Exists(ctx, constants.RedisKeyTokenBlacklist+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ===================== Login throttling =====================

func (c *Cache) IncrementLoginAttempt(ctx context.Context, email string) (int64, error) {
	key := constants.RedisKeyLoginAttempt + email
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := c.client.Expire(ctx, key, constants.BlockDuration).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (c *Cache) IsLoginBlocked(ctx context.Context, email string) (bool, error) {
	n, err := c.client.Get(ctx, constants.RedisKeyLoginAttempt+email).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= constants.MaxLoginAttempts, nil
}

func (c *Cache) ResetLoginAttempts(ctx context.Context, email string) error {
	return c.client.Del(ctx, constants.RedisKeyLoginAttempt+email).Err()
}

// ===================== Queue snapshots =====================

// SetQueueSnapshot caches the serialized queue for a company. Snapshots are
// short-lived; the polling endpoints tolerate staleness up to the TTL.
func (c *Cache) SetQueueSnapshot(ctx context.Context, companyID string, payload []byte) error {
	return c.client.Set(ctx, constants.RedisKeyQueueSnapshot+companyID, payload, constants.QueueSnapshotTTL).Err()
}

func (c *Cache) GetQueueSnapshot(ctx context.Context, companyID string) ([]byte, error) {
	b, err := c.client.Get(ctx, constants.RedisKeyQueueSnapshot+companyID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return b, err
}

func (c *Cache) InvalidateQueueSnapshot(ctx context.Context, companyID string) error {
	return c.client.Del(ctx, constants.RedisKeyQueueSnapshot+companyID).Err()
}

// ===================== Generic helpers =====================

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

func (c *Cache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}
