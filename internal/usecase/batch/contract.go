package batch

import (
	"context"

	"github.com/kailas-cloud/simrec/internal/domain/recommendation"
)

// Recommender answers a single lookup.
type Recommender interface {
	Recommend(ctx context.Context, ref string, limit int) ([]recommendation.Item, error)
}
