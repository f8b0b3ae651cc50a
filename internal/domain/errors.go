package domain

import (
	"errors"
	"fmt"
)

// NotFoundMessage is the user-facing text returned for unknown references.
const NotFoundMessage = "Sutta reference not found. Try another."

var (
	// ErrReferenceNotFound signals that no corpus row matches the reference.
	ErrReferenceNotFound = errors.New("reference not found")
	// ErrDimensionMismatch signals a similarity matrix that does not match the corpus.
	ErrDimensionMismatch = errors.New("similarity matrix dimension mismatch")
	// ErrEmptyCorpus signals a corpus without records.
	ErrEmptyCorpus = errors.New("corpus is empty")
	// ErrInvalidMatrix signals a malformed similarity matrix.
	ErrInvalidMatrix = errors.New("invalid similarity matrix")
	// ErrInvalidOptions signals out-of-range lookup options.
	ErrInvalidOptions = errors.New("invalid recommendation options")
)

// DimensionMismatchError wraps ErrDimensionMismatch with both sizes.
type DimensionMismatchError struct {
	CorpusLen int
	MatrixDim int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: corpus has %d rows, matrix is %dx%d",
		ErrDimensionMismatch.Error(), e.CorpusLen, e.MatrixDim, e.MatrixDim)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// NewDimensionMismatch creates a dimension mismatch error.
func NewDimensionMismatch(corpusLen, matrixDim int) error {
	return &DimensionMismatchError{CorpusLen: corpusLen, MatrixDim: matrixDim}
}
