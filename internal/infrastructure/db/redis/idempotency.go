package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore maps owner-scoped Idempotency-Key values to the task they created.
// Key format: idem:task:<owner_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Lookup returns the task id recorded for key, or "" if the key is unseen or expired.
func (s *IdempotencyStore) Lookup(ctx context.Context, ownerID, key string) (string, error) {
	id, err := s.client.Get(ctx, s.key(ownerID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, nil
}

// Remember records taskID under key with SET NX; an existing entry wins.
func (s *IdempotencyStore) Remember(ctx context.Context, ownerID, key, taskID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(ownerID, key), taskID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency remember: %w", err)
	}
	return ok, nil
}

func (s *IdempotencyStore) key(ownerID, key string) string {
	return fmt.Sprintf("idem:task:%s:%s", ownerID, key)
}
