package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	DocumentStore
	IndexManager
	Searcher
	Aggregator
	Driver() string
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WriteResult is the outcome reported by the engine for a write.
type WriteResult string

const (
	// ResultCreated means a new document was stored.
	ResultCreated WriteResult = "created"
	// ResultUpdated means an existing document was replaced.
	ResultUpdated WriteResult = "updated"
	// ResultDeleted means the document was removed.
	ResultDeleted WriteResult = "deleted"
	// ResultNotFound means there was nothing to remove.
	ResultNotFound WriteResult = "not_found"
)

// DocumentStore provides id-addressed document operations inside an index.
type DocumentStore interface {
	Put(ctx context.Context, index, id string, doc []byte) (WriteResult, error)
	Get(ctx context.Context, index, id string) ([]byte, error)
	Delete(ctx context.Context, index, id string) (WriteResult, error)
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	EnsureIndex(ctx context.Context, def *IndexDefinition) error
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher runs queries over an index.
type Searcher interface {
	Search(ctx context.Context, q *SearchQuery) (*SearchResult, error)
}

// Aggregator computes a single metric over the documents matching a filter.
// A nil value means the engine had nothing to compute it from.
type Aggregator interface {
	Aggregate(ctx context.Context, q *AggregateQuery) (*float64, error)
}
