package ports

import (
	"context"
	"time"
)

// IdempotencyStore remembers which task a given owner-scoped key created.
type IdempotencyStore interface {
	// Lookup returns the task id stored for key, or "" when the key is unseen.
	Lookup(ctx context.Context, ownerID, key string) (string, error)
	// Remember stores taskID under key unless the key already exists.
	// It reports whether the value was stored.
	Remember(ctx context.Context, ownerID, key, taskID string, ttl time.Duration) (bool, error)
}
