package simrec

import "github.com/kailas-cloud/simrec/internal/domain"

// NotFoundMessage is the user-facing text for an unknown reference.
const NotFoundMessage = domain.NotFoundMessage

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrReferenceNotFound = domain.ErrReferenceNotFound
	ErrDimensionMismatch = domain.ErrDimensionMismatch
	ErrEmptyCorpus       = domain.ErrEmptyCorpus
	ErrInvalidMatrix     = domain.ErrInvalidMatrix
	ErrInvalidOptions    = domain.ErrInvalidOptions
)
