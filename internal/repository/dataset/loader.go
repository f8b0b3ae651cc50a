// Package dataset assembles the lookup dataset from files on disk.
package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kailas-cloud/simrec/internal/domain/dataset"
	"github.com/kailas-cloud/simrec/internal/domain/normalize"
	"github.com/kailas-cloud/simrec/internal/repository/corpus"
	"github.com/kailas-cloud/simrec/internal/repository/matrix"
)

// Source names the files a dataset is built from.
type Source struct {
	CorpusPath string
	MatrixPath string
	Columns    corpus.Columns
}

// Loader reads a corpus and its similarity matrix and builds a Dataset.
type Loader struct {
	normalizer *normalize.Normalizer
	logger     *zap.Logger
}

// NewLoader creates a loader. A nil normalizer means identity.
func NewLoader(n *normalize.Normalizer, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{normalizer: n, logger: logger}
}

// Load reads both files and validates that they match.
func (l *Loader) Load(src Source) (*dataset.Dataset, error) {
	c, err := corpus.Load(src.CorpusPath, src.Columns)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	m, err := matrix.Load(src.MatrixPath)
	if err != nil {
		return nil, fmt.Errorf("load matrix: %w", err)
	}

	fp, err := Fingerprint(src.CorpusPath, src.MatrixPath)
	if err != nil {
		return nil, err
	}

	ds, err := dataset.New(c, m, l.normalizer, fp)
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}

	if dups := ds.Duplicates(); len(dups) > 0 {
		l.logger.Warn("duplicate refs in corpus, first row wins",
			zap.Int("count", len(dups)),
			zap.Strings("refs", head(dups, 10)),
		)
	}
	l.logger.Info("dataset loaded",
		zap.String("corpus", filepath.Base(src.CorpusPath)),
		zap.String("matrix", filepath.Base(src.MatrixPath)),
		zap.Int("documents", ds.Len()),
		zap.String("fingerprint", fp[:12]),
	)
	return ds, nil
}

// Fingerprint returns the hex SHA-256 over the contents of the given files.
func Fingerprint(paths ...string) (string, error) {
	h := sha256.New()
	for _, p := range paths {
		if err := hashFile(h, p); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(w io.Writer, path string) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("fingerprint %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("fingerprint %s: %w", filepath.Base(path), err)
	}
	return nil
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
