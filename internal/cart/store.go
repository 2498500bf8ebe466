package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/session"
)

var ErrInvalidProduct = errors.New("invalid product id")

// Snapshot maps product id to quantity. Every stored quantity is at least 1.
type Snapshot map[int64]int

func (s Snapshot) Empty() bool {
	return len(s) == 0
}

// ProductIDs returns the keys in ascending order.
func (s Snapshot) ProductIDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// adjustScript applies a delta to an existing line and deletes the line when
// the result drops to zero or below. Missing lines are left alone.
var adjustScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], ARGV[1])
if not current then
	return 0
end
local updated = tonumber(current) + tonumber(ARGV[2])
if updated <= 0 then
	redis.call('HDEL', KEYS[1], ARGV[1])
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], updated)
redis.call('EXPIRE', KEYS[1], ARGV[3])
return updated
`)

// RedisStore keeps each session's cart in one hash, expiring with the session.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Add(ctx context.Context, sessionID string, productID int64) error {
	if productID <= 0 {
		return ErrInvalidProduct
	}

	key := cartKey(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, field(productID), 1)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis add to cart failed: %w", err)
	}
	return nil
}

// SetQuantity applies delta to an existing line and returns the new quantity,
// which is 0 when the line was removed or was never in the cart.
func (s *RedisStore) SetQuantity(ctx context.Context, sessionID string, productID int64, delta int) (int, error) {
	if productID <= 0 {
		return 0, ErrInvalidProduct
	}

	ttlSeconds := int64(s.ttl / time.Second)
	quantity, err := adjustScript.Run(ctx, s.client, []string{cartKey(sessionID)}, field(productID), delta, ttlSeconds).Int()
	if err != nil {
		return 0, fmt.Errorf("redis adjust cart failed: %w", err)
	}
	return quantity, nil
}

func (s *RedisStore) Remove(ctx context.Context, sessionID string, productID int64) error {
	if err := s.client.HDel(ctx, cartKey(sessionID), field(productID)).Err(); err != nil {
		return fmt.Errorf("redis remove from cart failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis clear cart failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Snapshot(ctx context.Context, sessionID string) (Snapshot, error) {
	raw, err := s.client.HGetAll(ctx, cartKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read cart failed: %w", err)
	}

	snapshot := make(Snapshot, len(raw))
	for key, value := range raw {
		productID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			log.Printf("[CART] [ERROR] skipping malformed product id %q", key)
			continue
		}
		quantity, err := strconv.Atoi(value)
		if err != nil || quantity <= 0 {
			log.Printf("[CART] [ERROR] skipping malformed quantity %q for product %d", value, productID)
			continue
		}
		snapshot[productID] = quantity
	}
	return snapshot, nil
}

func cartKey(sessionID string) string {
	return session.Key(sessionID, "cart")
}

func field(productID int64) string {
	return strconv.FormatInt(productID, 10)
}
