// Package db defines the narrow key-value contracts the result cache needs
// and the errors its backends return.
package db

import (
	"context"
	"time"
)

// Store is the facade implemented by every cache backend.
type Store interface {
	Pinger
	KVStore
	Close()
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
