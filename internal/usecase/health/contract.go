package health

import "context"

// CachePinger checks remote cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// DatasetSizer reports how many documents are loaded.
type DatasetSizer interface {
	Len() int
}
