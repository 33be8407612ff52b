package employees

import domemp "github.com/tananushka/employees/internal/domain/employee"

// Employee is a stored employee record.
type Employee = domemp.Employee

// Address is the nested address of an employee.
type Address = domemp.Address

// Outcome is the result of a write: created, updated, deleted or not_found.
type Outcome = domemp.Outcome

// Write outcomes.
const (
	Created  = domemp.Created
	Updated  = domemp.Updated
	Deleted  = domemp.Deleted
	NotFound = domemp.NotFound
)

// QueryType selects how Search compares the value.
type QueryType string

// Query types.
const (
	QueryMatch QueryType = "match" // analyzed full-text match
	QueryTerm  QueryType = "term"  // exact value
)

// MetricType is the aggregation computed by Aggregate.
type MetricType string

// Metric types.
const (
	MetricAvg MetricType = "avg"
	MetricMin MetricType = "min"
	MetricMax MetricType = "max"
)

// SearchQuery selects employees by one text field.
// Zero Page and Size mean the first page of the default size.
type SearchQuery struct {
	Field string
	Value string
	Type  QueryType
	Page  int
	Size  int
}

// AggregateQuery computes Metric over MetricField for the employees whose
// Field equals Value exactly.
type AggregateQuery struct {
	Field       string
	Value       string
	Metric      MetricType
	MetricField string
}
