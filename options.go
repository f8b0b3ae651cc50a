package simrec

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/simrec/internal/domain/normalize"
	"github.com/kailas-cloud/simrec/internal/domain/recommendation"
)

// Option configures the Engine.
type Option interface {
	apply(*engineConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*engineConfig)

func (f optionFunc) apply(c *engineConfig) { f(c) }

type engineConfig struct {
	limit         int
	skipNearest   int
	normalize     normalize.Config
	normalizeForm string
	columns       Columns

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		limit:       recommendation.DefaultLimit,
		skipNearest: recommendation.DefaultSkipNearest,
		normalize:   normalize.DefaultConfig(),
	}
}

// Columns names the corpus columns. Empty names fall back to ref, title
// and title_url.
type Columns struct {
	Ref   string
	Title string
	URL   string
}

// Replacement substitutes From with To before Unicode normalization.
type Replacement struct {
	From string
	To   string
}

// Normalization controls how references are matched.
type Normalization struct {
	// Form is "NFKC" (default), "NFC" or "none".
	Form string
	// Replacements default to mapping thin and non-breaking spaces to ' '.
	// A non-nil empty slice disables them.
	Replacements []Replacement
	// KeepSpacing disables trimming and whitespace collapsing.
	KeepSpacing bool
}

// WithLimit sets how many recommendations Recommend returns (1..100).
// Default: 5.
func WithLimit(n int) Option {
	return optionFunc(func(c *engineConfig) {
		c.limit = n
	})
}

// WithSkipNearest sets how many of the closest neighbours are dropped after
// the reference itself. Default: 1. Use 0 for the true nearest neighbours.
func WithSkipNearest(n int) Option {
	return optionFunc(func(c *engineConfig) {
		c.skipNearest = n
	})
}

// WithNormalizer configures reference normalization. An unknown form
// makes Open fail with ErrInvalidOptions.
func WithNormalizer(n Normalization) Option {
	return optionFunc(func(c *engineConfig) {
		cfg := normalize.DefaultConfig()
		if n.Replacements != nil {
			cfg.Replacements = make([]normalize.Replacement, len(n.Replacements))
			for i, r := range n.Replacements {
				cfg.Replacements[i] = normalize.Replacement{From: r.From, To: r.To}
			}
		}
		if n.KeepSpacing {
			cfg.Trim = false
			cfg.CollapseSpace = false
		}
		c.normalize = cfg
		c.normalizeForm = n.Form
	})
}

// WithColumns overrides the corpus column names.
func WithColumns(cols Columns) Option {
	return optionFunc(func(c *engineConfig) {
		c.columns = cols
	})
}

// WithLogger enables structured logging for engine operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *engineConfig) {
		c.logger = l
	})
}

// WithPrometheus registers engine metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *engineConfig) {
		c.metricsReg = reg
	})
}
