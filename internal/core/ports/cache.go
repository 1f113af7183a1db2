// internal/core/ports/cache.go
package ports

import (
	"context"
	"encoding/json"
	"time"
)

// CacheRepository defines the interface for cache operations
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}) error
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
	Exists(ctx context.Context, keys ...string) (bool, error)

	// GetOrSet reads key into dest, calling fetch and storing its result on a miss.
	GetOrSet(ctx context.Context, key string, dest interface{},
		fetch func() (interface{}, error), ttl time.Duration) error

	// SetNX stores value only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)

	Ping(ctx context.Context) error
}

// CacheInvalidator drops cached read models that derive from inventory state.
type CacheInvalidator interface {
	InvalidateInventoryViews(ctx context.Context) error
}

const (
	IdempotencyPending   = "pending"
	IdempotencyCompleted = "completed"
)

// IdempotencyRecord is the stored state of one idempotent request.
type IdempotencyRecord struct {
	Status      string          `json:"status"`
	Fingerprint string          `json:"fingerprint"`
	Response    json.RawMessage `json:"response,omitempty"`
}

// Completed reports whether the record holds a replayable response.
func (r *IdempotencyRecord) Completed() bool {
	return r != nil && r.Status == IdempotencyCompleted
}

// IdempotencyStore remembers the outcome of requests carrying an
// Idempotency-Key so a retry gets the original response.
type IdempotencyStore interface {
	// Begin claims key for a new request. When the key was already claimed
	// it returns the existing record and false.
	Begin(ctx context.Context, key, fingerprint string) (*IdempotencyRecord, bool, error)
	Complete(ctx context.Context, key, fingerprint string, response any) error
	Abandon(ctx context.Context, key string) error
}
