// Package corpus reads the document corpus from CSV or Parquet files.
package corpus

import (
	"fmt"
	"path/filepath"
	"strings"

	domcorpus "github.com/kailas-cloud/simrec/internal/domain/corpus"
)

// Columns names the corpus fields in the source file.
type Columns struct {
	Ref   string
	Title string
	URL   string
}

// DefaultColumns matches the df_all_clean.csv export.
func DefaultColumns() Columns {
	return Columns{Ref: "ref", Title: "title", URL: "title_url"}
}

func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	if c.Ref == "" {
		c.Ref = d.Ref
	}
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.URL == "" {
		c.URL = d.URL
	}
	return c
}

// Load reads a corpus, picking the format from the file extension.
func Load(path string, cols Columns) (domcorpus.Corpus, error) {
	cols = cols.withDefaults()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return LoadCSV(path, cols)
	case ".parquet":
		return LoadParquet(path, cols)
	default:
		return domcorpus.Corpus{}, fmt.Errorf("unsupported corpus format %q (want .csv or .parquet)", ext)
	}
}
