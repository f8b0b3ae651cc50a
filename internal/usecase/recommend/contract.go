package recommend

import (
	"context"

	"github.com/kailas-cloud/simrec/internal/domain/recommendation"
)

// Cache stores ranked results keyed by an opaque string.
// Implementations swallow their own errors; a failed Get is a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]recommendation.Item, bool)
	Set(ctx context.Context, key string, items []recommendation.Item)
}
