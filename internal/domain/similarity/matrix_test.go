package similarity

import (
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/simrec/internal/domain"
)

func TestNew_Valid(t *testing.T) {
	m, err := New(2, []float64{1, 0.5, 0.5, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Dim() != 2 {
		t.Fatalf("expected dim 2, got %d", m.Dim())
	}
	if m.At(0, 1) != 0.5 {
		t.Errorf("expected At(0,1)=0.5, got %f", m.At(0, 1))
	}
	row := m.Row(1)
	if len(row) != 2 || row[0] != 0.5 || row[1] != 1 {
		t.Errorf("unexpected row: %v", row)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		dim  int
		data []float64
	}{
		{"zero dim", 0, nil},
		{"negative dim", -1, nil},
		{"short data", 2, []float64{1, 2, 3}},
		{"long data", 1, []float64{1, 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.dim, tc.data)
			if !errors.Is(err, domain.ErrInvalidMatrix) {
				t.Fatalf("expected ErrInvalidMatrix, got %v", err)
			}
		})
	}
}

func TestFromRows_Ragged(t *testing.T) {
	_, err := FromRows([][]float64{{1, 0}, {0}})
	if !errors.Is(err, domain.ErrInvalidMatrix) {
		t.Fatalf("expected ErrInvalidMatrix, got %v", err)
	}
}

func TestRow_CapacityIsBounded(t *testing.T) {
	m, _ := FromRows([][]float64{{1, 2}, {3, 4}})
	row := m.Row(0)
	row = append(row, 99)
	if m.At(1, 0) != 3 {
		t.Fatalf("append to row view leaked into next row: %v", row)
	}
}

func TestMaxAsymmetry(t *testing.T) {
	sym, _ := FromRows([][]float64{{1, 0.2}, {0.2, 1}})
	if got := sym.MaxAsymmetry(); got != 0 {
		t.Errorf("expected 0 for symmetric matrix, got %f", got)
	}

	asym, _ := FromRows([][]float64{
		{1, 0.2, 0.4},
		{0.5, 1, 0.1},
		{0.4, 0.1, 1},
	})
	if got := asym.MaxAsymmetry(); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("expected 0.3, got %f", got)
	}
}
