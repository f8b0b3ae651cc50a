// Package dataset holds the immutable lookup context built once at startup:
// the corpus, its similarity matrix and the normalized reference index.
package dataset

import (
	"fmt"

	"github.com/kailas-cloud/simrec/internal/domain"
	"github.com/kailas-cloud/simrec/internal/domain/corpus"
	"github.com/kailas-cloud/simrec/internal/domain/normalize"
	"github.com/kailas-cloud/simrec/internal/domain/similarity"
)

// Dataset is safe for concurrent reads. It is never mutated after New.
type Dataset struct {
	corpus      corpus.Corpus
	matrix      similarity.Matrix
	normalizer  *normalize.Normalizer
	index       map[string]int
	duplicates  []string
	fingerprint string
}

// New validates that the matrix matches the corpus and builds the ref index.
// When several rows normalize to the same ref the first row wins.
func New(c corpus.Corpus, m similarity.Matrix, n *normalize.Normalizer, fingerprint string) (*Dataset, error) {
	if c.Len() == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	if m.Dim() != c.Len() {
		return nil, domain.NewDimensionMismatch(c.Len(), m.Dim())
	}

	ds := &Dataset{
		corpus:      c,
		matrix:      m,
		normalizer:  n,
		index:       make(map[string]int, c.Len()),
		fingerprint: fingerprint,
	}
	c.Each(func(row int, r corpus.Record) bool {
		key := n.Normalize(r.Ref())
		if key == "" {
			return true
		}
		if _, ok := ds.index[key]; ok {
			ds.duplicates = append(ds.duplicates, key)
			return true
		}
		ds.index[key] = row
		return true
	})
	if len(ds.index) == 0 {
		return nil, fmt.Errorf("%w: no row has a non-empty ref", domain.ErrEmptyCorpus)
	}
	return ds, nil
}

// Lookup resolves a user-supplied reference to a corpus row.
// The second return value is the normalized reference.
func (d *Dataset) Lookup(ref string) (int, string, error) {
	key := d.normalizer.Normalize(ref)
	if key == "" {
		return 0, key, domain.ErrReferenceNotFound
	}
	row, ok := d.index[key]
	if !ok {
		return 0, key, domain.ErrReferenceNotFound
	}
	return row, key, nil
}

// Len returns the number of corpus rows.
func (d *Dataset) Len() int { return d.corpus.Len() }

// Record returns the corpus record at row i.
func (d *Dataset) Record(i int) (corpus.Record, error) {
	r, err := d.corpus.At(i)
	if err != nil {
		return corpus.Record{}, fmt.Errorf("record: %w", err)
	}
	return r, nil
}

// Row returns the similarity row for corpus row i. Callers must not modify it.
func (d *Dataset) Row(i int) []float64 { return d.matrix.Row(i) }

// Matrix returns the similarity matrix.
func (d *Dataset) Matrix() similarity.Matrix { return d.matrix }

// Normalize applies the dataset's reference normalizer.
func (d *Dataset) Normalize(ref string) string { return d.normalizer.Normalize(ref) }

// Duplicates returns normalized refs that were shadowed by an earlier row.
func (d *Dataset) Duplicates() []string {
	out := make([]string, len(d.duplicates))
	copy(out, d.duplicates)
	return out
}

// Fingerprint identifies the loaded data; it changes whenever either source file does.
func (d *Dataset) Fingerprint() string { return d.fingerprint }
