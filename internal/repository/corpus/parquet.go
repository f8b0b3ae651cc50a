package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	domcorpus "github.com/kailas-cloud/simrec/internal/domain/corpus"
)

// LoadParquet reads a corpus from a Parquet file. Column names come from cols;
// other columns in the file are ignored.
func LoadParquet(path string, cols Columns) (domcorpus.Corpus, error) {
	cols = cols.withDefaults()

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return domcorpus.Corpus{}, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	pf, err := parquet.OpenFile(f, fileSize(f))
	if err != nil {
		return domcorpus.Corpus{}, fmt.Errorf("open parquet %s: %w", filepath.Base(path), err)
	}

	refIdx, titleIdx, urlIdx, err := locateColumns(leafNames(pf.Schema()), cols)
	if err != nil {
		return domcorpus.Corpus{}, fmt.Errorf("parquet %s: %w", filepath.Base(path), err)
	}

	reader := parquet.NewReader(pf)
	defer reader.Close()

	records := make([]domcorpus.Record, 0, reader.NumRows())
	buf := make([]parquet.Row, 128)
	for {
		n, err := reader.ReadRows(buf)
		for _, row := range buf[:n] {
			records = append(records, domcorpus.NewRecord(
				stringAt(row, refIdx), stringAt(row, titleIdx), stringAt(row, urlIdx),
			))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return domcorpus.Corpus{}, fmt.Errorf("read parquet rows: %w", err)
		}
		if n == 0 {
			break
		}
	}

	return domcorpus.New(records), nil
}

func fileSize(f *os.File) int64 {
	st, err := f.Stat()
	if err != nil {
		return 0
	}
	return st.Size()
}

// leafNames returns the flat column names in leaf order, which is the
// order of values in a parquet.Row for a flat schema.
func leafNames(schema *parquet.Schema) []string {
	fields := schema.Fields()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name())
	}
	return names
}

func stringAt(row parquet.Row, column int) string {
	for _, v := range row {
		if v.Column() == column {
			if v.IsNull() {
				return ""
			}
			return string(v.ByteArray())
		}
	}
	return ""
}
