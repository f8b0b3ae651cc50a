// Package matrix loads precomputed similarity matrices from disk.
package matrix

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sbinet/npyio/npy"

	"github.com/kailas-cloud/simrec/internal/domain"
	"github.com/kailas-cloud/simrec/internal/domain/similarity"
)

// Load reads a square similarity matrix from a NumPy .npy file.
func Load(path string) (similarity.Matrix, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".npy" {
		return similarity.Matrix{}, fmt.Errorf("unsupported matrix format %q", ext)
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return similarity.Matrix{}, fmt.Errorf("open matrix: %w", err)
	}
	defer f.Close()

	m, err := ReadNPY(f)
	if err != nil {
		return similarity.Matrix{}, fmt.Errorf("read matrix %s: %w", filepath.Base(path), err)
	}
	return m, nil
}

// ReadNPY decodes a 2-D float32 or float64 array. Fortran-ordered payloads
// are transposed into row-major order.
func ReadNPY(r io.Reader) (similarity.Matrix, error) {
	nr, err := npy.NewReader(r)
	if err != nil {
		return similarity.Matrix{}, fmt.Errorf("%w: %w", domain.ErrInvalidMatrix, err)
	}

	shape := nr.Header.Descr.Shape
	if len(shape) != 2 {
		return similarity.Matrix{}, fmt.Errorf("%w: expected 2 dimensions, got %d", domain.ErrInvalidMatrix, len(shape))
	}
	if shape[0] != shape[1] {
		return similarity.Matrix{}, fmt.Errorf("%w: matrix is not square (%dx%d)", domain.ErrInvalidMatrix, shape[0], shape[1])
	}
	dim := shape[0]

	var data []float64
	switch nr.Header.Descr.Type {
	case "<f8", "float64":
		data = make([]float64, dim*dim)
		if err := nr.Read(&data); err != nil {
			return similarity.Matrix{}, fmt.Errorf("%w: %w", domain.ErrInvalidMatrix, err)
		}
	case "<f4", "float32":
		f32 := make([]float32, dim*dim)
		if err := nr.Read(&f32); err != nil {
			return similarity.Matrix{}, fmt.Errorf("%w: %w", domain.ErrInvalidMatrix, err)
		}
		data = make([]float64, len(f32))
		for i, v := range f32 {
			data[i] = float64(v)
		}
	default:
		return similarity.Matrix{}, fmt.Errorf("%w: unsupported dtype %q", domain.ErrInvalidMatrix, nr.Header.Descr.Type)
	}

	if len(data) != dim*dim {
		return similarity.Matrix{}, fmt.Errorf("%w: expected %d values, got %d", domain.ErrInvalidMatrix, dim*dim, len(data))
	}
	if nr.Header.Descr.Fortran {
		data = transpose(data, dim)
	}

	m, err := similarity.New(dim, data)
	if err != nil {
		return similarity.Matrix{}, fmt.Errorf("build matrix: %w", err)
	}
	return m, nil
}

func transpose(data []float64, dim int) []float64 {
	out := make([]float64, len(data))
	for i := range dim {
		for j := range dim {
			out[i*dim+j] = data[j*dim+i]
		}
	}
	return out
}
