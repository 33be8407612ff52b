// Package instrumented decorates a db.Store with Prometheus metrics and
// debug logging.
package instrumented

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/tananushka/employees/internal/db"
	"github.com/tananushka/employees/internal/metrics"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store wraps a db.Store. Every call is counted and timed by driver and
// operation; not-found outcomes are recorded as "not_found", not "error".
type Store struct {
	inner  db.Store
	driver string
	logger *zap.Logger
}

// New wraps inner.
func New(inner db.Store, logger *zap.Logger) *Store {
	return &Store{inner: inner, driver: inner.Driver(), logger: logger}
}

// Driver returns the wrapped driver name.
func (s *Store) Driver() string { return s.driver }

// Close closes the wrapped store.
func (s *Store) Close() { s.inner.Close() }

// WaitForReady is not instrumented; it runs once at startup.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return s.inner.WaitForReady(ctx, timeout) //nolint:wrapcheck // transparent decorator
}

// Ping delegates to the wrapped store.
func (s *Store) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.inner.Ping(ctx)
	s.observe(db.OpPing, start, err)
	return err //nolint:wrapcheck // transparent decorator
}

// Put delegates to the wrapped store.
func (s *Store) Put(ctx context.Context, index, id string, doc []byte) (db.WriteResult, error) {
	start := time.Now()
	res, err := s.inner.Put(ctx, index, id, doc)
	s.observe(db.OpPut, start, err, zap.String("index", index), zap.String("id", id), zap.String("result", string(res)))
	return res, err //nolint:wrapcheck // transparent decorator
}

// Get delegates to the wrapped store.
func (s *Store) Get(ctx context.Context, index, id string) ([]byte, error) {
	start := time.Now()
	doc, err := s.inner.Get(ctx, index, id)
	s.observe(db.OpGet, start, err, zap.String("index", index), zap.String("id", id))
	return doc, err //nolint:wrapcheck // transparent decorator
}

// Delete delegates to the wrapped store.
func (s *Store) Delete(ctx context.Context, index, id string) (db.WriteResult, error) {
	start := time.Now()
	res, err := s.inner.Delete(ctx, index, id)
	s.observe(db.OpDelete, start, err, zap.String("index", index), zap.String("id", id), zap.String("result", string(res)))
	return res, err //nolint:wrapcheck // transparent decorator
}

// EnsureIndex delegates to the wrapped store.
func (s *Store) EnsureIndex(ctx context.Context, def *db.IndexDefinition) error {
	start := time.Now()
	err := s.inner.EnsureIndex(ctx, def)
	s.observe(db.OpEnsureIndex, start, err, zap.String("index", def.Name))
	return err //nolint:wrapcheck // transparent decorator
}

// CreateIndex delegates to the wrapped store.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	start := time.Now()
	err := s.inner.CreateIndex(ctx, def)
	s.observe(db.OpCreateIndex, start, err, zap.String("index", def.Name))
	return err //nolint:wrapcheck // transparent decorator
}

// DropIndex delegates to the wrapped store.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	start := time.Now()
	err := s.inner.DropIndex(ctx, name)
	s.observe(db.OpDropIndex, start, err, zap.String("index", name))
	return err //nolint:wrapcheck // transparent decorator
}

// IndexExists delegates to the wrapped store.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	ok, err := s.inner.IndexExists(ctx, name)
	s.observe(db.OpIndexInfo, start, err, zap.String("index", name), zap.Bool("exists", ok))
	return ok, err //nolint:wrapcheck // transparent decorator
}

// Search delegates to the wrapped store.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	start := time.Now()
	res, err := s.inner.Search(ctx, q)
	hits := 0
	if res != nil {
		hits = len(res.Hits)
	}
	s.observe(db.OpSearch, start, err,
		zap.String("index", q.Index),
		zap.String("field", q.Query.Field),
		zap.Int("offset", q.Offset),
		zap.Int("limit", q.Limit),
		zap.Int("hits", hits),
	)
	return res, err //nolint:wrapcheck // transparent decorator
}

// Aggregate delegates to the wrapped store.
func (s *Store) Aggregate(ctx context.Context, q *db.AggregateQuery) (*float64, error) {
	start := time.Now()
	v, err := s.inner.Aggregate(ctx, q)
	s.observe(db.OpAggregate, start, err,
		zap.String("index", q.Index),
		zap.String("metric", string(q.Metric)),
		zap.String("field", q.Field),
		zap.Bool("has_value", v != nil),
	)
	return v, err //nolint:wrapcheck // transparent decorator
}

func (s *Store) observe(op string, start time.Time, err error, fields ...zap.Field) {
	duration := time.Since(start)
	status := statusOf(err)

	metrics.StoreOperationsTotal.WithLabelValues(s.driver, op, status).Inc()
	metrics.StoreOperationDuration.WithLabelValues(s.driver, op).Observe(duration.Seconds())

	fields = append(fields,
		zap.String("driver", s.driver),
		zap.String("op", op),
		zap.String("status", status),
		zap.Duration("duration", duration),
	)
	if status == "error" {
		s.logger.Warn("Store operation failed", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Debug("Store operation", fields...)
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, db.ErrDocumentNotFound), errors.Is(err, db.ErrIndexNotFound):
		return "not_found"
	case errors.Is(err, db.ErrIndexExists):
		return "exists"
	default:
		return "error"
	}
}
