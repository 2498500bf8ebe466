package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/session"
)

// Store persists one Selection per session.
type Store interface {
	Load(ctx context.Context, sessionID string) (Selection, error)
	Save(ctx context.Context, sessionID string, selection Selection) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisStore keeps the selection as a JSON value that expires with the session.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (Selection, error) {
	data, err := s.client.Get(ctx, selectionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Selection{}, nil
	}
	if err != nil {
		return Selection{}, fmt.Errorf("redis get selection failed: %w", err)
	}

	var selection Selection
	if err := json.Unmarshal(data, &selection); err != nil {
		return Selection{}, fmt.Errorf("unmarshal selection failed: %w", err)
	}
	return selection, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, selection Selection) error {
	data, err := json.Marshal(selection)
	if err != nil {
		return fmt.Errorf("marshal selection failed: %w", err)
	}
	if err := s.client.Set(ctx, selectionKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set selection failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, selectionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete selection failed: %w", err)
	}
	return nil
}

func selectionKey(sessionID string) string {
	return session.Key(sessionID, "checkout")
}
