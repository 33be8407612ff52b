package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tananushka/employees/internal/db"
	"github.com/tananushka/employees/internal/domain"
	domemp "github.com/tananushka/employees/internal/domain/employee"
	"github.com/tananushka/employees/internal/domain/search/mode"
	"github.com/tananushka/employees/internal/domain/search/request"
)

// store is the consumer interface for employee documents (ISP).
type store interface {
	EnsureIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Put(ctx context.Context, index, id string, doc []byte) (db.WriteResult, error)
	Get(ctx context.Context, index, id string) ([]byte, error)
	Delete(ctx context.Context, index, id string) (db.WriteResult, error)
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	Aggregate(ctx context.Context, q *db.AggregateQuery) (*float64, error)
}

// Repo implements usecase/employee.Repository over one index.
type Repo struct {
	store store
	index string
}

// New creates an employee repository for the named index.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// EnsureIndex creates the employee index when it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def, err := buildIndex(r.index)
	if err != nil {
		return err
	}
	if err := r.store.EnsureIndex(ctx, def); err != nil {
		return fmt.Errorf("ensure index %s: %w", r.index, err)
	}
	return nil
}

// HealthCheck reports an error when the employee index is missing.
func (r *Repo) HealthCheck(ctx context.Context) error {
	ok, err := r.store.IndexExists(ctx, r.index)
	if err != nil {
		return fmt.Errorf("index exists %s: %w", r.index, err)
	}
	if !ok {
		return fmt.Errorf("index %s: %w", r.index, db.ErrIndexNotFound)
	}
	return nil
}

// Put stores e under e.ID, overwriting any previous record.
func (r *Repo) Put(ctx context.Context, e domemp.Employee) (domemp.Outcome, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("marshal employee: %w", err)
	}

	res, err := r.store.Put(ctx, r.index, e.ID, data)
	if err != nil {
		return "", fmt.Errorf("put %s: %w", e.ID, err)
	}
	return outcome(res)
}

// Get returns the employee stored under id.
func (r *Repo) Get(ctx context.Context, id string) (domemp.Employee, error) {
	raw, err := r.store.Get(ctx, r.index, id)
	if err != nil {
		if errors.Is(err, db.ErrDocumentNotFound) {
			return domemp.Employee{}, domain.ErrEmployeeNotFound
		}
		return domemp.Employee{}, fmt.Errorf("get %s: %w", id, err)
	}
	return decode(id, raw)
}

// Delete removes the employee. A missing id is the NotFound outcome.
func (r *Repo) Delete(ctx context.Context, id string) (domemp.Outcome, error) {
	res, err := r.store.Delete(ctx, r.index, id)
	if err != nil {
		return "", fmt.Errorf("delete %s: %w", id, err)
	}
	return outcome(res)
}

// List returns a page of employees in engine order.
func (r *Repo) List(ctx context.Context, offset, limit int) ([]domemp.Employee, error) {
	return r.search(ctx, db.MatchAll(), offset, limit)
}

// Search returns a page of employees matching req.
func (r *Repo) Search(ctx context.Context, req request.Request, offset, limit int) ([]domemp.Employee, error) {
	q := db.Match(req.Field(), req.Value())
	if req.Mode() == mode.Term {
		q = db.Term(req.Field(), req.Value())
	}
	return r.search(ctx, q.On(indexType(req.Kind())), offset, limit)
}

// Aggregate computes the requested metric. nil means no matching employees.
func (r *Repo) Aggregate(ctx context.Context, agg request.Aggregation) (*float64, error) {
	v, err := r.store.Aggregate(ctx, &db.AggregateQuery{
		Index:  r.index,
		Name:   agg.Name(),
		Filter: db.Term(agg.Field(), agg.FieldValue()).On(indexType(agg.FieldKind())),
		Metric: db.Metric(agg.Metric()),
		Field:  agg.MetricField(),
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("aggregate %s: %w", agg.Name(), err)
	}
	return v, nil
}

func (r *Repo) search(ctx context.Context, q db.Query, offset, limit int) ([]domemp.Employee, error) {
	res, err := r.store.Search(ctx, &db.SearchQuery{
		Index:  r.index,
		Query:  q,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return []domemp.Employee{}, nil
		}
		return nil, fmt.Errorf("search %s: %w", r.index, err)
	}

	out := make([]domemp.Employee, 0, len(res.Hits))
	for _, h := range res.Hits {
		e, err := decode(h.ID, h.Source)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// decode parses a stored document. The id always comes from the engine key.
func decode(id string, raw []byte) (domemp.Employee, error) {
	var e domemp.Employee
	if err := json.Unmarshal(raw, &e); err != nil {
		return domemp.Employee{}, fmt.Errorf("decode employee %s: %w", id, err)
	}
	e.ID = id
	return e, nil
}

func outcome(res db.WriteResult) (domemp.Outcome, error) {
	switch res {
	case db.ResultCreated:
		return domemp.Created, nil
	case db.ResultUpdated:
		return domemp.Updated, nil
	case db.ResultDeleted:
		return domemp.Deleted, nil
	case db.ResultNotFound:
		return domemp.NotFound, nil
	default:
		return "", fmt.Errorf("unexpected store result %q", res)
	}
}
