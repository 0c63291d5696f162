package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "dialog:session:"

// SessionStore keeps the session attributes of the in-flight conversation.
type SessionStore interface {
	Load(ctx context.Context, userID string) (map[string]string, error)
	Save(ctx context.Context, userID string, attrs map[string]string) error
	Delete(ctx context.Context, userID string) error
}

type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

// Load returns an empty map when the user has no live session.
func (s *RedisSessionStore) Load(ctx context.Context, userID string) (map[string]string, error) {
	val, err := s.client.Get(ctx, sessionKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", userID, err)
	}

	attrs := map[string]string{}
	if err := json.Unmarshal([]byte(val), &attrs); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", userID, err)
	}
	return attrs, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, userID string, attrs map[string]string) error {
	data, err := json.Marshal(attrs)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+userID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", userID, err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+userID).Err()
}

// NopSessionStore relies entirely on the attributes the front-end echoes back.
type NopSessionStore struct{}

func (NopSessionStore) Load(context.Context, string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (NopSessionStore) Save(context.Context, string, map[string]string) error { return nil }

func (NopSessionStore) Delete(context.Context, string) error { return nil }
