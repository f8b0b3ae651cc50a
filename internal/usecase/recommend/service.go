package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/simrec/internal/domain"
	"github.com/kailas-cloud/simrec/internal/domain/dataset"
	"github.com/kailas-cloud/simrec/internal/domain/recommendation"
	logpkg "github.com/kailas-cloud/simrec/internal/logger"
	"github.com/kailas-cloud/simrec/internal/metrics"
)

// Service serves recommendations from a preloaded dataset.
type Service struct {
	data   *dataset.Dataset
	opts   recommendation.Options
	cache  Cache
	logger *zap.Logger
}

// New creates a recommend service. logger may be nil.
func New(data *dataset.Dataset, opts recommendation.Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{data: data, opts: opts, logger: logger}
}

// WithCache enables the read-through result cache.
func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

// Dataset returns the dataset the service reads from.
func (s *Service) Dataset() *dataset.Dataset { return s.data }

// Options returns the default lookup options.
func (s *Service) Options() recommendation.Options { return s.opts }

// Recommend returns the ranked neighbours of ref. limit <= 0 uses the
// configured default. Unknown or blank references yield domain.ErrReferenceNotFound.
func (s *Service) Recommend(ctx context.Context, ref string, limit int) ([]recommendation.Item, error) {
	start := time.Now()

	var (
		items  []recommendation.Item
		cached bool
	)
	opts, err := s.opts.WithLimit(limit)
	if err == nil {
		items, cached, err = s.recommend(ctx, ref, opts)
	}

	outcome := "ok"
	switch {
	case errors.Is(err, domain.ErrReferenceNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	metrics.RecommendRequestsTotal.WithLabelValues(outcome).Inc()
	metrics.RecommendDuration.Observe(time.Since(start).Seconds())

	logpkg.FromContext(ctx).Debug("Recommendation lookup",
		zap.String("ref", ref),
		zap.String("outcome", outcome),
		zap.Bool("cached", cached),
		zap.Int("results", len(items)),
		zap.Duration("duration", time.Since(start)),
	)

	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) recommend(
	ctx context.Context, ref string, opts recommendation.Options,
) ([]recommendation.Item, bool, error) {
	if s.cache == nil {
		items, err := Recommend(s.data, ref, opts)
		return items, false, err
	}

	row, normalized, err := s.data.Lookup(ref)
	if err != nil {
		return nil, false, fmt.Errorf("lookup %q: %w", ref, err)
	}

	key := s.cacheKey(normalized, opts)
	if items, ok := s.cache.Get(ctx, key); ok {
		return items, true, nil
	}

	items, err := Rank(s.data, row, opts)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(ctx, key, items)
	return items, false, nil
}

func (s *Service) cacheKey(normalized string, opts recommendation.Options) string {
	h := sha256.New()
	h.Write([]byte(s.data.Fingerprint()))
	h.Write([]byte{0})
	h.Write([]byte(normalized))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(opts.Limit())))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(opts.SkipNearest())))
	return hex.EncodeToString(h.Sum(nil))
}
