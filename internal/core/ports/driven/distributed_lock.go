package driven

import (
	"context"
	"time"
)

// DistributedLock coordinates batch reconciliation across worker instances,
// so the same batch is never resolved twice concurrently.
type DistributedLock interface {
	// Acquire attempts to acquire a named lock with the given TTL.
	// Returns true if acquired, false if another instance holds it.
	Acquire(ctx context.Context, name string, ttl time.Duration) (acquired bool, err error)

	// Release releases a named lock. Safe to call when the lock is not held
	// or has already expired.
	Release(ctx context.Context, name string) error

	// Ping checks if the lock backend is healthy.
	Ping(ctx context.Context) error
}
