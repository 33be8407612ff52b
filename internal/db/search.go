package db

import "strings"

// QueryKind selects how a field is compared with a value.
type QueryKind int

const (
	// QueryMatchAll matches every document in the index.
	QueryMatchAll QueryKind = iota
	// QueryMatch is an analyzed full-text match.
	QueryMatch
	// QueryTerm is an exact match against the untokenized variant of a field.
	QueryTerm
)

// Query is a single-field query. The zero value matches everything.
// Type is the index type of Field; non-text fields have no analyzed variant,
// so match and term both compare the value exactly.
type Query struct {
	Kind  QueryKind
	Field string
	Value string
	Type  IndexFieldType
}

// On returns a copy of q against a field of type t.
func (q Query) On(t IndexFieldType) Query {
	q.Type = t
	return q
}

// MatchAll returns a query matching every document.
func MatchAll() Query { return Query{Kind: QueryMatchAll} }

// Match returns a full-text query on a text field.
func Match(field, value string) Query {
	return Query{Kind: QueryMatch, Field: field, Value: value}
}

// Term returns an exact-value query on a text field.
func Term(field, value string) Query {
	return Query{Kind: QueryTerm, Field: field, Value: value}
}

// SearchQuery is the input for Searcher.Search.
type SearchQuery struct {
	Index  string
	Query  Query
	Offset int
	Limit  int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total int
	Hits  []Hit
}

// Hit is a single matching document with its raw JSON source.
type Hit struct {
	ID     string
	Source []byte
}

// Metric is a server-side scalar aggregation.
type Metric string

const (
	// MetricAvg is the arithmetic mean.
	MetricAvg Metric = "avg"
	// MetricMin is the minimum value.
	MetricMin Metric = "min"
	// MetricMax is the maximum value.
	MetricMax Metric = "max"
)

// AggregateQuery is the input for Aggregator.Aggregate.
type AggregateQuery struct {
	Index  string
	Name   string // result name inside the engine request
	Filter Query
	Metric Metric
	Field  string
}

// KeywordSuffix marks the untokenized variant of a text field.
const KeywordSuffix = ".keyword"

// TrimKeyword strips a trailing KeywordSuffix from a field name.
func TrimKeyword(field string) string {
	return strings.TrimSuffix(field, KeywordSuffix)
}
