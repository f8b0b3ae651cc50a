package simrec

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var testDocs = []Document{
	{Ref: "MN 1", Title: "The Root of All Things", URL: "https://suttacentral.net/mn1"},
	{Ref: "MN 2", Title: "All the Defilements", URL: "https://suttacentral.net/mn2"},
	{Ref: "MN 3", Title: "Heirs in the Teaching", URL: "https://suttacentral.net/mn3"},
	{Ref: "MN 4", Title: "Fear and Dread", URL: "https://suttacentral.net/mn4"},
	{Ref: "MN 5", Title: "Unblemished", URL: "https://suttacentral.net/mn5"},
	{Ref: "MN 6", Title: "One Might Wish", URL: "https://suttacentral.net/mn6"},
	{Ref: "MN 7", Title: "The Simile of the Cloth", URL: "https://suttacentral.net/mn7"},
}

func testMatrix() [][]float64 {
	first := []float64{1.0, 0.9, 0.9, 0.5, 0.3, 0.2, 0.1}
	m := make([][]float64, len(first))
	for i := range m {
		m[i] = make([]float64, len(first))
		m[i][i] = 1
		m[i][0] = first[i]
	}
	m[0] = first
	return m
}

func TestNew_Recommend(t *testing.T) {
	eng, err := New(testDocs, testMatrix())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recs, err := eng.Recommend(context.Background(), "MN 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantRows := []int{2, 3, 4, 5, 6}
	if len(recs) != len(wantRows) {
		t.Fatalf("expected %d results, got %d", len(wantRows), len(recs))
	}
	for i, r := range recs {
		if r.Row != wantRows[i] {
			t.Errorf("result %d: row %d, want %d", i, r.Row, wantRows[i])
		}
	}
	if recs[0].Title != "Heirs in the Teaching" || recs[0].URL != "https://suttacentral.net/mn3" {
		t.Errorf("unexpected first result: %+v", recs[0])
	}
}

func TestNew_Options(t *testing.T) {
	eng, err := New(testDocs, testMatrix(), WithLimit(2), WithSkipNearest(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recs, err := eng.Recommend(context.Background(), "MN\u20091")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 || recs[0].Row != 1 || recs[1].Row != 2 {
		t.Errorf("unexpected results: %+v", recs)
	}

	recs, err = eng.RecommendN(context.Background(), "MN 1", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 4 {
		t.Errorf("expected 4 results, got %d", len(recs))
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"limit too large", WithLimit(101)},
		{"negative skip", WithSkipNearest(-1)},
		{"unknown form", WithNormalizer(Normalization{Form: "NFD"})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(testDocs, testMatrix(), tc.opt)
			if !errors.Is(err, ErrInvalidOptions) {
				t.Fatalf("expected ErrInvalidOptions, got %v", err)
			}
		})
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(testDocs[:2], testMatrix()); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := New(nil, nil); !errors.Is(err, ErrInvalidMatrix) {
		t.Errorf("expected ErrInvalidMatrix for empty input, got %v", err)
	}
	if _, err := New(testDocs[:2], [][]float64{{1, 0}, {0}}); !errors.Is(err, ErrInvalidMatrix) {
		t.Errorf("expected ErrInvalidMatrix for ragged rows, got %v", err)
	}
}

func TestRecommend_NotFound(t *testing.T) {
	eng, err := New(testDocs, testMatrix())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = eng.Recommend(context.Background(), "DN 99")
	if !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}
}

func TestNormalization_KeepSpacing(t *testing.T) {
	eng, err := New(testDocs, testMatrix(), WithNormalizer(Normalization{Form: "none", KeepSpacing: true}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := eng.Recommend(context.Background(), " MN 1 "); !errors.Is(err, ErrReferenceNotFound) {
		t.Errorf("expected padded ref to miss without trimming, got %v", err)
	}
	if _, err := eng.Recommend(context.Background(), "MN\u00a01"); err != nil {
		t.Errorf("expected default replacements to apply, got %v", err)
	}
}

func TestWithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	eng, err := New(testDocs, testMatrix(), WithPrometheus(reg), WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	_, _ = eng.Recommend(ctx, "MN 1")
	_, _ = eng.Recommend(ctx, "nope")

	ops := eng.obs.metrics.operations
	if got := testutil.ToFloat64(ops.WithLabelValues("recommend", "ok")); got != 1 {
		t.Errorf("expected 1 ok, got %v", got)
	}
	if got := testutil.ToFloat64(ops.WithLabelValues("recommend", "not_found")); got != 1 {
		t.Errorf("expected 1 not_found, got %v", got)
	}

	// A second engine on the same registry reuses the collectors.
	if _, err := New(testDocs, testMatrix(), WithPrometheus(reg)); err != nil {
		t.Fatalf("unexpected error on re-register: %v", err)
	}
}

func writeNPY(t *testing.T, path string, rows [][]float64) {
	t.Helper()
	header := "{'descr': '<f8', 'fortran_order': False, 'shape': (7, 7), }"
	for (10+len(header)+1)%64 != 0 {
		header += " "
	}
	header += "\n"
	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY")
	buf.Write([]byte{1, 0})
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	for _, r := range rows {
		_ = binary.Write(&buf, binary.LittleEndian, r)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write npy: %v", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "docs.csv")
	var csv bytes.Buffer
	csv.WriteString("id,sutta,name,link\n")
	for i, d := range testDocs {
		csv.WriteString(string(rune('0'+i)) + "," + d.Ref + "," + d.Title + "," + d.URL + "\n")
	}
	if err := os.WriteFile(corpusPath, csv.Bytes(), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	matrixPath := filepath.Join(dir, "sim.npy")
	writeNPY(t, matrixPath, testMatrix())

	eng, err := Open(context.Background(), corpusPath, matrixPath,
		WithColumns(Columns{Ref: "sutta", Title: "name", URL: "link"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eng.Len() != len(testDocs) {
		t.Errorf("expected %d documents, got %d", len(testDocs), eng.Len())
	}
	if len(eng.Fingerprint()) != 64 {
		t.Errorf("unexpected fingerprint %q", eng.Fingerprint())
	}
	recs, err := eng.Recommend(context.Background(), "MN 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 5 || recs[0].Row != 2 {
		t.Errorf("unexpected results: %+v", recs)
	}
}

func TestOpen_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Open(ctx, "a.csv", "b.npy"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
