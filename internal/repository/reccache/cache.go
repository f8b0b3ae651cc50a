// Package reccache stores ranked recommendation lists in a key-value store.
package reccache

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/simrec/internal/db"
	"github.com/kailas-cloud/simrec/internal/domain/recommendation"
)

// KeyPrefix namespaces cache entries in a shared Redis/Valkey.
const KeyPrefix = "simrec:rec:"

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache is a read-through cache of recommendation lists. Store failures are
// logged and reported as misses; they never fail a request.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a cache over s.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns the cached list for key.
func (c *Cache) Get(ctx context.Context, key string) ([]recommendation.Item, bool) {
	items, ok := c.get(ctx, KeyPrefix+key)
	if ok {
		c.incCache("hit")
	} else {
		c.incCache("miss")
	}
	return items, ok
}

// Set stores items under key.
func (c *Cache) Set(ctx context.Context, key string, items []recommendation.Item) {
	data, err := encode(items)
	if err != nil {
		c.logger.Warn("Failed to encode recommendations", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, KeyPrefix+key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache recommendations", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) get(ctx context.Context, key string) ([]recommendation.Item, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached recommendations", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	items, err := decode(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached recommendations", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return items, true
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// entry is the stored form of an item; a nil score stands for NaN.
type entry struct {
	Row   int      `json:"row"`
	Score *float64 `json:"score"`
	Title string   `json:"title"`
	URL   string   `json:"url"`
}

func encode(items []recommendation.Item) ([]byte, error) {
	entries := make([]entry, len(items))
	for i, it := range items {
		entries[i] = entry{Row: it.Row, Score: it.FiniteScore(), Title: it.Title, URL: it.URL}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("marshal items: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]recommendation.Item, error) {
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if entries == nil {
		return nil, fmt.Errorf("cached value is not a list")
	}
	items := make([]recommendation.Item, len(entries))
	for i, e := range entries {
		score := math.NaN()
		if e.Score != nil {
			score = *e.Score
		}
		items[i] = recommendation.Item{Row: e.Row, Score: score, Title: e.Title, URL: e.URL}
	}
	return items, nil
}
