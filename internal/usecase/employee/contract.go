package employee

import (
	"context"

	domemp "github.com/tananushka/employees/internal/domain/employee"
	"github.com/tananushka/employees/internal/domain/search/request"
)

// Repository defines the storage contract for employees.
type Repository interface {
	Put(ctx context.Context, e domemp.Employee) (domemp.Outcome, error)
	Get(ctx context.Context, id string) (domemp.Employee, error)
	Delete(ctx context.Context, id string) (domemp.Outcome, error)
	List(ctx context.Context, offset, limit int) ([]domemp.Employee, error)
	Search(ctx context.Context, req request.Request, offset, limit int) ([]domemp.Employee, error)
	Aggregate(ctx context.Context, agg request.Aggregation) (*float64, error)
}

// Page is a zero-based page request. Nil fields take the service defaults.
type Page struct {
	Page *int
	Size *int
}
