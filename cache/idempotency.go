package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyPrefix = "idem:checkout:"

// IdempotencyStore remembers which order a checkout Idempotency-Key produced.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Lookup returns the stored value for key and whether it exists.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, idempotencyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Remember stores value under key for the configured TTL.
func (s *IdempotencyStore) Remember(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, idempotencyPrefix+key, value, s.ttl).Err()
}
