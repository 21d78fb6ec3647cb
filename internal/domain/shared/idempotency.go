package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores in-flight operation keys to prevent duplicate processing.
// The checkout flow uses it as its submission guard: one submission per session
// at a time.
type IdempotencyStore interface {
	// MarkProcessed marks a key as taken with a TTL.
	// Returns true if the key was newly marked, false if it was already taken.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key is currently taken
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Clear releases a key before its TTL expires, re-enabling the operation
	Clear(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is the time-to-live for taken keys. A crashed submission frees
	// its key after this duration at the latest.
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     2 * time.Minute,
		Enabled: true,
	}
}
