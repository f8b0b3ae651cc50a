package similarity

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/simrec/internal/domain"
)

// Matrix is a square pairwise similarity matrix stored row-major.
// Entry (i, j) is the similarity between corpus rows i and j.
type Matrix struct {
	dim  int
	data []float64
}

// New creates a dim x dim matrix from row-major data. The slice is not copied;
// callers hand over ownership.
func New(dim int, data []float64) (Matrix, error) {
	if dim <= 0 {
		return Matrix{}, fmt.Errorf("%w: dimension must be positive, got %d", domain.ErrInvalidMatrix, dim)
	}
	if len(data) != dim*dim {
		return Matrix{}, fmt.Errorf("%w: expected %d values for %dx%d, got %d",
			domain.ErrInvalidMatrix, dim*dim, dim, dim, len(data))
	}
	return Matrix{dim: dim, data: data}, nil
}

// FromRows builds a matrix from a slice of equal-length rows.
func FromRows(rows [][]float64) (Matrix, error) {
	dim := len(rows)
	data := make([]float64, 0, dim*dim)
	for i, r := range rows {
		if len(r) != dim {
			return Matrix{}, fmt.Errorf("%w: row %d has %d columns, want %d", domain.ErrInvalidMatrix, i, len(r), dim)
		}
		data = append(data, r...)
	}
	return New(dim, data)
}

// Dim returns the number of rows (and columns).
func (m Matrix) Dim() int { return m.dim }

// Row returns row i as a read-only view. Callers must not modify it.
func (m Matrix) Row(i int) []float64 {
	return m.data[i*m.dim : (i+1)*m.dim : (i+1)*m.dim]
}

// At returns entry (i, j).
func (m Matrix) At(i, j int) float64 { return m.data[i*m.dim+j] }

// MaxAsymmetry returns the largest |a(i,j) - a(j,i)|. Zero for a symmetric matrix.
// NaN entries are skipped.
func (m Matrix) MaxAsymmetry() float64 {
	var worst float64
	for i := 0; i < m.dim; i++ {
		for j := i + 1; j < m.dim; j++ {
			d := math.Abs(m.At(i, j) - m.At(j, i))
			if d > worst {
				worst = d
			}
		}
	}
	return worst
}
