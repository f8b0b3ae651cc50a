package recommend

import (
	"context"
	"fmt"
	"testing"

	"github.com/kailas-cloud/simrec/internal/domain/corpus"
	"github.com/kailas-cloud/simrec/internal/domain/dataset"
	"github.com/kailas-cloud/simrec/internal/domain/normalize"
	"github.com/kailas-cloud/simrec/internal/domain/recommendation"
	"github.com/kailas-cloud/simrec/internal/domain/similarity"
)

// newTestDataset builds a dataset with refs "SN 1.0", "SN 1.1", ... and the
// given similarity rows.
func newTestDataset(t *testing.T, rows [][]float64) *dataset.Dataset {
	t.Helper()
	records := make([]corpus.Record, len(rows))
	for i := range rows {
		records[i] = corpus.NewRecord(
			fmt.Sprintf("SN 1.%d", i),
			fmt.Sprintf("Title %d", i),
			fmt.Sprintf("https://suttacentral.net/sn1.%d", i),
		)
	}
	m, err := similarity.FromRows(rows)
	if err != nil {
		t.Fatalf("matrix: %v", err)
	}
	ds, err := dataset.New(corpus.New(records), m, normalize.Default(), "fp-test")
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	return ds
}

// exampleRows has row 0 equal to [1.0, 0.9, 0.9, 0.5, 0.3, 0.2, 0.1].
func exampleRows() [][]float64 {
	base := []float64{1.0, 0.9, 0.9, 0.5, 0.3, 0.2, 0.1}
	rows := make([][]float64, len(base))
	for i := range rows {
		rows[i] = make([]float64, len(base))
		for j := range rows[i] {
			if i == j {
				rows[i][j] = 1
			} else {
				rows[i][j] = base[max(i, j)] * base[min(i, j)+1]
			}
		}
	}
	copy(rows[0], base)
	return rows
}

func rowsOf(items []recommendation.Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Row
	}
	return out
}

// mockCache is an in-memory recommend.Cache.
type mockCache struct {
	entries map[string][]recommendation.Item
	gets    int
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]recommendation.Item)}
}

func (m *mockCache) Get(_ context.Context, key string) ([]recommendation.Item, bool) {
	m.gets++
	items, ok := m.entries[key]
	return items, ok
}

func (m *mockCache) Set(_ context.Context, key string, items []recommendation.Item) {
	m.sets++
	m.entries[key] = items
}
