package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/simrec/internal/domain/dataset"
	"github.com/kailas-cloud/simrec/internal/domain/recommendation"
)

// Recommend resolves ref against ds and returns its ranked neighbours.
// It has no side effects and is safe for concurrent use.
func Recommend(ds *dataset.Dataset, ref string, opts recommendation.Options) ([]recommendation.Item, error) {
	row, _, err := ds.Lookup(ref)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", ref, err)
	}
	return Rank(ds, row, opts)
}

// Rank orders every column of the similarity row by descending score,
// removes row itself, drops the next opts.SkipNearest() columns and returns
// up to opts.Limit() items. Equal scores keep corpus order; NaN sorts last.
func Rank(ds *dataset.Dataset, row int, opts recommendation.Options) ([]recommendation.Item, error) {
	if row < 0 || row >= ds.Len() {
		return nil, fmt.Errorf("rank: row %d out of range [0, %d)", row, ds.Len())
	}
	limit := opts.Limit()
	if limit <= 0 {
		limit = recommendation.DefaultLimit
	}
	scores := ds.Row(row)

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ranksHigher(scores[order[a]], scores[order[b]])
	})

	items := make([]recommendation.Item, 0, limit)
	skipped := 0
	for _, col := range order {
		if col == row {
			continue
		}
		if skipped < opts.SkipNearest() {
			skipped++
			continue
		}
		rec, err := ds.Record(col)
		if err != nil {
			return nil, fmt.Errorf("rank: %w", err)
		}
		items = append(items, recommendation.Item{
			Row:   col,
			Score: scores[col],
			Title: rec.Title(),
			URL:   rec.TitleURL(),
		})
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func ranksHigher(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}
