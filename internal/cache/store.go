// Package cache provides the key-value stores used to keep normalized feed
// batches between requests.
package cache

import (
	"context"
	"time"
)

//go:generate mockgen -source=store.go -destination=mock/store.go -package=mock

// Store is a byte-oriented key-value store with per-key expiry.
// Expired keys are reported as absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Purger is implemented by stores that need expired entries removed explicitly.
type Purger interface {
	Purge(ctx context.Context) (int, error)
}
