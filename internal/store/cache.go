package store

import (
	"context"
	"encoding/json"
	"time"

	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "restaurant:"

// CachedStore is a read-through Redis cache in front of another Store.
// Cache failures fall back to the backing store.
type CachedStore struct {
	next   Store
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedStore(next Store, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedStore {
	return &CachedStore{next: next, redis: client, ttl: ttl, logger: log}
}

func (c *CachedStore) Get(ctx context.Context, id string) (*models.RestaurantRecord, error) {
	cacheKey := cacheKeyPrefix + id
	if val, err := c.redis.Get(ctx, cacheKey).Result(); err == nil {
		var rec models.RestaurantRecord
		if err := json.Unmarshal([]byte(val), &rec); err == nil {
			return &rec, nil
		}
	}

	rec, err := c.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		c.logger.Warn("restaurant cache encode failed", map[string]interface{}{
			"restaurantId": id,
			"error":        err,
		})
		return rec, nil
	}
	if err := c.redis.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		c.logger.Debug("restaurant cache write failed", map[string]interface{}{
			"restaurantId": id,
			"error":        err,
		})
	}
	return rec, nil
}
