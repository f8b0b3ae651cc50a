package batch

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/simrec/internal/domain"
	dombatch "github.com/kailas-cloud/simrec/internal/domain/batch"
)

// MaxBatchSize is the maximum number of refs per batch request.
const MaxBatchSize = 100

// Service runs several lookups with per-item error reporting.
type Service struct {
	rec          Recommender
	maxBatchSize int
}

// New creates a batch service.
func New(rec Recommender) *Service {
	return &Service{rec: rec, maxBatchSize: MaxBatchSize}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// MaxBatchSize returns the configured limit.
func (s *Service) MaxBatchSize() int { return s.maxBatchSize }

// Recommend looks up every ref in order. A failed ref does not stop the
// batch; a canceled context fails the remaining refs.
func (s *Service) Recommend(ctx context.Context, refs []string, limit int) []dombatch.Result {
	results := make([]dombatch.Result, len(refs))

	if len(refs) > s.maxBatchSize {
		for i, ref := range refs {
			results[i] = dombatch.NewError(
				ref,
				fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrInvalidOptions),
			)
		}
		return results
	}

	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(refs); j++ {
				results[j] = dombatch.NewError(refs[j], err)
			}
			return results
		}

		items, err := s.rec.Recommend(ctx, ref, limit)
		if err != nil {
			results[i] = dombatch.NewError(ref, err)
			continue
		}
		results[i] = dombatch.NewOK(ref, items)
	}

	return results
}
