// Package memory implements db.Store as a bounded in-process LRU.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kailas-cloud/simrec/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store keeps at most capacity entries. Entries expire after the TTL given
// to NewStore; expirable.LRU has no per-key TTL, so SetWithTTL ignores its ttl.
type Store struct {
	lru *expirable.LRU[string, []byte]
}

// NewStore creates an LRU store. ttl <= 0 disables expiry.
func NewStore(capacity int, ttl time.Duration) (*Store, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d", capacity)
	}
	return &Store{lru: expirable.NewLRU[string, []byte](capacity, nil, ttl)}, nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Get returns a copy of the stored value.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.lru.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// SetWithTTL stores a copy of value.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	v := make([]byte, len(value))
	copy(v, value)
	s.lru.Add(key, v)
	return nil
}

// Len returns the number of live entries.
func (s *Store) Len() int { return s.lru.Len() }

// Close drops all entries.
func (s *Store) Close() { s.lru.Purge() }
