package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/tananushka/employees/internal/db"
)

// Search runs a single-clause query with from/size paging.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if q.Index == "" {
		return nil, errors.New("index name is required")
	}
	if q.Limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	if q.Offset < 0 {
		return nil, errors.New("offset must not be negative")
	}

	body, err := json.Marshal(map[string]any{
		"from":  q.Offset,
		"size":  q.Limit,
		"query": buildQuery(q.Query),
	})
	if err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(q.Index),
		s.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	defer closeBody(res)

	if res.IsError() {
		return nil, searchError(db.OpSearch, res)
	}

	var out struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string          `json:"_id"`
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := decodeBody(res, &out); err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	result := &db.SearchResult{
		Total: out.Hits.Total.Value,
		Hits:  make([]db.Hit, 0, len(out.Hits.Hits)),
	}
	for _, h := range out.Hits.Hits {
		result.Hits = append(result.Hits, db.Hit{ID: h.ID, Source: h.Source})
	}
	return result, nil
}

// Aggregate computes one metric aggregation over the documents matching an
// exact filter. Hits are not returned (size 0).
func (s *Store) Aggregate(ctx context.Context, q *db.AggregateQuery) (*float64, error) {
	if q.Index == "" {
		return nil, errors.New("index name is required")
	}
	if q.Field == "" {
		return nil, errors.New("metric field is required")
	}
	switch q.Metric {
	case db.MetricAvg, db.MetricMin, db.MetricMax:
	default:
		return nil, fmt.Errorf("unsupported metric %q", q.Metric)
	}

	name := q.Name
	if name == "" {
		name = string(q.Metric) + "_" + q.Field
	}

	filter := q.Filter
	if filter.Kind == db.QueryMatch {
		// Filters are exact by contract.
		filter.Kind = db.QueryTerm
	}

	body, err := json.Marshal(map[string]any{
		"size":  0,
		"query": buildQuery(filter),
		"aggs": map[string]any{
			name: map[string]any{
				string(q.Metric): map[string]any{"field": db.TrimKeyword(q.Field)},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode aggregate body: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(q.Index),
		s.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}
	defer closeBody(res)

	if res.IsError() {
		return nil, searchError(db.OpAggregate, res)
	}

	var out struct {
		Aggregations map[string]struct {
			Value *float64 `json:"value"`
		} `json:"aggregations"`
	}
	if err := decodeBody(res, &out); err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}
	return out.Aggregations[name].Value, nil
}

func searchError(op string, res *esapi.Response) error {
	re := decodeError(res)
	if re.Type == "index_not_found_exception" {
		return db.ErrIndexNotFound
	}
	return &db.Error{Op: op, Err: re}
}

// buildQuery renders the query DSL clause for q. Non-text fields have no
// keyword sub-field, so term queries address them directly.
func buildQuery(q db.Query) map[string]any {
	switch q.Kind {
	case db.QueryMatch:
		return map[string]any{"match": map[string]any{db.TrimKeyword(q.Field): q.Value}}
	case db.QueryTerm:
		field := keywordField(q.Field)
		if q.Type != db.IndexFieldText {
			field = db.TrimKeyword(q.Field)
		}
		return map[string]any{"term": map[string]any{field: q.Value}}
	default:
		return map[string]any{"match_all": map[string]any{}}
	}
}

// keywordField names the untokenized sub-field, adding the suffix only once.
func keywordField(field string) string {
	return db.TrimKeyword(field) + db.KeywordSuffix
}
