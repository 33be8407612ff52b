package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrDocumentNotFound = errors.New("db: document not found")
	ErrIndexNotFound    = errors.New("db: index not found")
	ErrIndexExists      = errors.New("db: index already exists")
)

// Op constants name the engine operation for error context.
const (
	OpPing        = "PING"
	OpPut         = "PUT"
	OpGet         = "GET"
	OpDelete      = "DELETE"
	OpExists      = "EXISTS"
	OpSearch      = "SEARCH"
	OpAggregate   = "AGGREGATE"
	OpCreateIndex = "CREATE_INDEX"
	OpDropIndex   = "DROP_INDEX"
	OpIndexInfo   = "INDEX_INFO"
	OpEnsureIndex = "ENSURE_INDEX"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
