package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	domcorpus "github.com/kailas-cloud/simrec/internal/domain/corpus"
)

// LoadCSV reads a corpus from a CSV file with a header row.
func LoadCSV(path string, cols Columns) (domcorpus.Corpus, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return domcorpus.Corpus{}, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	c, err := ReadCSV(f, cols)
	if err != nil {
		return domcorpus.Corpus{}, fmt.Errorf("read corpus %s: %w", filepath.Base(path), err)
	}
	return c, nil
}

// ReadCSV parses CSV from r. Columns are located by header name
// (case-insensitive, surrounding spaces and a UTF-8 BOM ignored); extra
// columns such as a pandas index are skipped.
func ReadCSV(r io.Reader, cols Columns) (domcorpus.Corpus, error) {
	cols = cols.withDefaults()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domcorpus.Corpus{}, fmt.Errorf("missing header row")
		}
		return domcorpus.Corpus{}, fmt.Errorf("read header: %w", err)
	}

	refIdx, titleIdx, urlIdx, err := locateColumns(header, cols)
	if err != nil {
		return domcorpus.Corpus{}, err
	}
	maxIdx := max(refIdx, titleIdx, urlIdx)

	var records []domcorpus.Record
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return domcorpus.Corpus{}, fmt.Errorf("line %d: %w", line, err)
		}
		if len(row) <= maxIdx {
			return domcorpus.Corpus{}, fmt.Errorf("line %d: expected at least %d fields, got %d", line, maxIdx+1, len(row))
		}
		records = append(records, domcorpus.NewRecord(row[refIdx], row[titleIdx], row[urlIdx]))
	}

	return domcorpus.New(records), nil
}

func locateColumns(header []string, cols Columns) (ref, title, url int, err error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		h = strings.ToLower(strings.TrimSpace(h))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	find := func(name string) (int, error) {
		i, ok := pos[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("column %q not found in header %v", name, header)
		}
		return i, nil
	}
	if ref, err = find(cols.Ref); err != nil {
		return
	}
	if title, err = find(cols.Title); err != nil {
		return
	}
	url, err = find(cols.URL)
	return
}
