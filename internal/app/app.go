// Package app wires configuration into the dataset, cache and use cases.
// It is shared by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/simrec/internal/config"
	"github.com/kailas-cloud/simrec/internal/db"
	"github.com/kailas-cloud/simrec/internal/db/memory"
	dbRedis "github.com/kailas-cloud/simrec/internal/db/redis"
	"github.com/kailas-cloud/simrec/internal/domain/dataset"
	"github.com/kailas-cloud/simrec/internal/domain/normalize"
	"github.com/kailas-cloud/simrec/internal/metrics"
	"github.com/kailas-cloud/simrec/internal/repository/corpus"
	datasetrepo "github.com/kailas-cloud/simrec/internal/repository/dataset"
	"github.com/kailas-cloud/simrec/internal/repository/reccache"
	recommenduc "github.com/kailas-cloud/simrec/internal/usecase/recommend"
)

// LoadDataset reads the corpus and matrix named in cfg.
func LoadDataset(cfg *config.Config, logger *zap.Logger) (*dataset.Dataset, error) {
	loader := datasetrepo.NewLoader(normalize.New(cfg.NormalizerConfig()), logger)
	ds, err := loader.Load(datasetrepo.Source{
		CorpusPath: cfg.Data.CorpusPath,
		MatrixPath: cfg.Data.MatrixPath,
		Columns: corpus.Columns{
			Ref:   cfg.Data.Columns.Ref,
			Title: cfg.Data.Columns.Title,
			URL:   cfg.Data.Columns.URL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return ds, nil
}

// Cache is the result cache together with the store behind it.
type Cache struct {
	Cache *reccache.Cache
	// Pinger is set only for remote stores; health checks ping it.
	Pinger db.Pinger
	store  db.Store
}

// Close releases the underlying store.
func (c *Cache) Close() {
	if c != nil && c.store != nil {
		c.store.Close()
	}
}

// NewCache builds the cache selected by cfg.Cache.Driver. It returns nil for
// driver "none". Remote stores are waited on until ready.
func NewCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Cache, error) {
	ttl := time.Duration(cfg.Cache.TTLSec) * time.Second

	var (
		store  db.Store
		pinger db.Pinger
	)
	switch cfg.Cache.Driver {
	case config.CacheNone, "":
		return nil, nil
	case config.CacheMemory:
		s, err := memory.NewStore(cfg.Cache.Capacity, ttl)
		if err != nil {
			return nil, fmt.Errorf("create memory cache: %w", err)
		}
		store = s
	case config.CacheRedis, config.CacheValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s cache: %w", cfg.Cache.Driver, err)
		}
		timeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := s.WaitForReady(ctx, timeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("%s cache not ready: %w", cfg.Cache.Driver, err)
		}
		store, pinger = s, s
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}

	logger.Info("Result cache enabled",
		zap.String("driver", cfg.Cache.Driver),
		zap.Duration("ttl", ttl),
	)
	return &Cache{
		Cache:  reccache.New(store, ttl, metrics.RecommendCacheTotal, logger),
		Pinger: pinger,
		store:  store,
	}, nil
}

// NewRecommendService builds the recommend use case over ds with the
// configured defaults and optional cache.
func NewRecommendService(
	cfg *config.Config, ds *dataset.Dataset, cache *Cache, logger *zap.Logger,
) (*recommenduc.Service, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	svc := recommenduc.New(ds, opts, logger)
	if cache != nil {
		svc.WithCache(cache.Cache)
	}
	return svc, nil
}
