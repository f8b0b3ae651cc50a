package simrec

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/simrec/internal/domain"
	"github.com/kailas-cloud/simrec/internal/domain/corpus"
	"github.com/kailas-cloud/simrec/internal/domain/dataset"
	"github.com/kailas-cloud/simrec/internal/domain/normalize"
	"github.com/kailas-cloud/simrec/internal/domain/recommendation"
	"github.com/kailas-cloud/simrec/internal/domain/similarity"
	corpusrepo "github.com/kailas-cloud/simrec/internal/repository/corpus"
	datasetrepo "github.com/kailas-cloud/simrec/internal/repository/dataset"
	recommenduc "github.com/kailas-cloud/simrec/internal/usecase/recommend"
)

// Recommendation is one similar document.
type Recommendation struct {
	Title string
	URL   string
	// Row is the document's position in the corpus.
	Row int
	// Score is the similarity to the queried reference.
	Score float64
}

// Document is one corpus row for New.
type Document struct {
	Ref   string
	Title string
	URL   string
}

// Engine answers similarity lookups over an immutable dataset.
// It is safe for concurrent use.
type Engine struct {
	ds  *dataset.Dataset
	svc *recommenduc.Service
	obs *observer
}

// Open loads a corpus (.csv or .parquet) and a similarity matrix (.npy).
// A matrix whose size differs from the corpus length fails with
// ErrDimensionMismatch.
func Open(ctx context.Context, corpusPath, matrixPath string, opts ...Option) (eng *Engine, err error) {
	cfg, obs, err := setup(opts)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { obs.observe("open", start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("simrec: %w", err)
	}

	n, err := cfg.normalizer()
	if err != nil {
		return nil, err
	}
	loader := datasetrepo.NewLoader(n, zap.NewNop())
	ds, err := loader.Load(datasetrepo.Source{
		CorpusPath: corpusPath,
		MatrixPath: matrixPath,
		Columns: corpusrepo.Columns{
			Ref:   cfg.columns.Ref,
			Title: cfg.columns.Title,
			URL:   cfg.columns.URL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("simrec: %w", err)
	}
	return newEngine(ds, cfg, obs)
}

// New builds an engine from in-memory data. matrix must be len(docs) x len(docs).
func New(docs []Document, matrix [][]float64, opts ...Option) (eng *Engine, err error) {
	cfg, obs, err := setup(opts)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { obs.observe("open", start, err) }()

	n, err := cfg.normalizer()
	if err != nil {
		return nil, err
	}
	records := make([]corpus.Record, len(docs))
	for i, d := range docs {
		records[i] = corpus.NewRecord(d.Ref, d.Title, d.URL)
	}
	m, err := similarity.FromRows(matrix)
	if err != nil {
		return nil, fmt.Errorf("simrec: %w", err)
	}
	ds, err := dataset.New(corpus.New(records), m, n, fingerprint(docs, matrix))
	if err != nil {
		return nil, fmt.Errorf("simrec: %w", err)
	}
	return newEngine(ds, cfg, obs)
}

func setup(opts []Option) (*engineConfig, *observer, error) {
	cfg := defaultEngineConfig()
	for _, o := range opts {
		o.apply(cfg)
	}
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, obs, nil
}

func newEngine(ds *dataset.Dataset, cfg *engineConfig, obs *observer) (*Engine, error) {
	if cfg.skipNearest < 0 {
		return nil, fmt.Errorf("simrec: %w: skip nearest must not be negative", domain.ErrInvalidOptions)
	}
	ropts, err := recommendation.NewOptions(cfg.limit, cfg.skipNearest)
	if err != nil {
		return nil, fmt.Errorf("simrec: %w", err)
	}
	if dups := ds.Duplicates(); len(dups) > 0 && obs.logger != nil {
		obs.logger.Warn("duplicate refs in corpus, first row wins", "count", len(dups))
	}
	return &Engine{
		ds:  ds,
		svc: recommenduc.New(ds, ropts, zap.NewNop()),
		obs: obs,
	}, nil
}

// Recommend returns the configured number of documents most similar to ref.
// Unknown or blank references fail with ErrReferenceNotFound.
func (e *Engine) Recommend(ctx context.Context, ref string) ([]Recommendation, error) {
	return e.RecommendN(ctx, ref, 0)
}

// RecommendN is Recommend with an explicit limit. limit <= 0 uses the
// configured default.
func (e *Engine) RecommendN(ctx context.Context, ref string, limit int) (recs []Recommendation, err error) {
	start := time.Now()
	defer func() { e.obs.observe("recommend", start, err) }()

	items, err := e.svc.Recommend(ctx, ref, limit)
	if err != nil {
		return nil, fmt.Errorf("simrec: %w", err)
	}
	recs = make([]Recommendation, len(items))
	for i, it := range items {
		recs[i] = Recommendation{Title: it.Title, URL: it.URL, Row: it.Row, Score: it.Score}
	}
	return recs, nil
}

// Len returns the number of documents.
func (e *Engine) Len() int { return e.ds.Len() }

// Fingerprint identifies the loaded data.
func (e *Engine) Fingerprint() string { return e.ds.Fingerprint() }

// Duplicates returns normalized refs shadowed by an earlier row.
func (e *Engine) Duplicates() []string { return e.ds.Duplicates() }

func (c *engineConfig) normalizer() (*normalize.Normalizer, error) {
	cfg := c.normalize
	if c.normalizeForm != "" {
		form, err := normalize.ParseForm(c.normalizeForm)
		if err != nil {
			return nil, fmt.Errorf("simrec: %w: %w", domain.ErrInvalidOptions, err)
		}
		cfg.Form = form
	}
	return normalize.New(cfg), nil
}

func fingerprint(docs []Document, matrix [][]float64) string {
	h := sha256.New()
	for _, d := range docs {
		h.Write([]byte(d.Ref))
		h.Write([]byte{0})
		h.Write([]byte(d.Title))
		h.Write([]byte{0})
		h.Write([]byte(d.URL))
		h.Write([]byte{0})
	}
	var buf [8]byte
	for _, row := range matrix {
		for _, v := range row {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
