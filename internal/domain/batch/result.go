package batch

import (
	"errors"

	"github.com/kailas-cloud/simrec/internal/domain"
	"github.com/kailas-cloud/simrec/internal/domain/recommendation"
)

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK       ItemStatus = "ok"
	StatusNotFound ItemStatus = "not_found"
	StatusError    ItemStatus = "error"
)

// Result is the outcome of looking up one reference in a batch.
type Result struct {
	ref    string
	status ItemStatus
	items  []recommendation.Item
	err    error
}

// NewOK creates a successful batch result.
func NewOK(ref string, items []recommendation.Item) Result {
	return Result{ref: ref, status: StatusOK, items: items}
}

// NewError creates a failed batch result. Unknown references get
// StatusNotFound.
func NewError(ref string, err error) Result {
	status := StatusError
	if errors.Is(err, domain.ErrReferenceNotFound) {
		status = StatusNotFound
	}
	return Result{ref: ref, status: status, err: err}
}

// Ref returns the reference as submitted.
func (r Result) Ref() string { return r.ref }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Items returns the recommendations; nil unless Status is StatusOK.
func (r Result) Items() []recommendation.Item { return r.items }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }
