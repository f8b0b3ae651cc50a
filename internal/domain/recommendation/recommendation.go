package recommendation

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/simrec/internal/domain"
)

// Lookup limits.
const (
	DefaultLimit       = 5
	MaxLimit           = 100
	DefaultSkipNearest = 1
)

// Options controls how many neighbours are returned and how many leading
// neighbours are skipped after the queried row itself is removed.
type Options struct {
	limit       int
	skipNearest int
}

// NewOptions validates lookup options. limit <= 0 means DefaultLimit;
// skipNearest < 0 means DefaultSkipNearest.
func NewOptions(limit, skipNearest int) (Options, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		return Options{}, fmt.Errorf("%w: limit must be at most %d, got %d", domain.ErrInvalidOptions, MaxLimit, limit)
	}
	if skipNearest < 0 {
		skipNearest = DefaultSkipNearest
	}
	return Options{limit: limit, skipNearest: skipNearest}, nil
}

// DefaultOptions returns limit=5, skipNearest=1.
func DefaultOptions() Options {
	return Options{limit: DefaultLimit, skipNearest: DefaultSkipNearest}
}

// Limit returns the maximum number of items.
func (o Options) Limit() int { return o.limit }

// SkipNearest returns the number of leading neighbours dropped.
func (o Options) SkipNearest() int { return o.skipNearest }

// WithLimit returns a copy with a different limit, keeping the receiver's
// value when limit <= 0.
func (o Options) WithLimit(limit int) (Options, error) {
	if limit <= 0 {
		return o, nil
	}
	return NewOptions(limit, o.skipNearest)
}

// Item is one ranked recommendation.
type Item struct {
	Row   int     `json:"row"`
	Score float64 `json:"score"`
	Title string  `json:"title"`
	URL   string  `json:"url"`
}

// FiniteScore returns a pointer to the score, or nil when it is NaN or
// infinite and therefore has no JSON representation.
func (i Item) FiniteScore() *float64 {
	if math.IsNaN(i.Score) || math.IsInf(i.Score, 0) {
		return nil
	}
	s := i.Score
	return &s
}
