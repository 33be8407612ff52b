package employee

import (
	"context"

	"github.com/tananushka/employees/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	ensureIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	putFn         func(ctx context.Context, index, id string, doc []byte) (db.WriteResult, error)
	getFn         func(ctx context.Context, index, id string) ([]byte, error)
	deleteFn      func(ctx context.Context, index, id string) (db.WriteResult, error)
	searchFn      func(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	aggregateFn   func(ctx context.Context, q *db.AggregateQuery) (*float64, error)
}

func (m *mockStore) EnsureIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.ensureIndexFn != nil {
		return m.ensureIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return true, nil
}

func (m *mockStore) Put(ctx context.Context, index, id string, doc []byte) (db.WriteResult, error) {
	if m.putFn != nil {
		return m.putFn(ctx, index, id, doc)
	}
	return db.ResultCreated, nil
}

func (m *mockStore) Get(ctx context.Context, index, id string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, index, id)
	}
	return nil, db.ErrDocumentNotFound
}

func (m *mockStore) Delete(ctx context.Context, index, id string) (db.WriteResult, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, index, id)
	}
	return db.ResultNotFound, nil
}

func (m *mockStore) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Aggregate(ctx context.Context, q *db.AggregateQuery) (*float64, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, q)
	}
	return nil, nil
}
