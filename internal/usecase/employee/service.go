package employee

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tananushka/employees/internal/domain"
	domemp "github.com/tananushka/employees/internal/domain/employee"
	"github.com/tananushka/employees/internal/domain/search/request"
)

// Pagination defaults.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxResultWindow bounds offset+limit; Elasticsearch rejects deeper pages.
	MaxResultWindow = 10000
)

// Service handles employee CRUD, search and aggregation.
type Service struct {
	repo            Repository
	newID           func() string
	defaultPageSize int
	maxPageSize     int
	maxResultWindow int
}

// New creates an employee service.
func New(repo Repository) *Service {
	return &Service{
		repo:            repo,
		newID:           uuid.NewString,
		defaultPageSize: DefaultPageSize,
		maxPageSize:     MaxPageSize,
		maxResultWindow: MaxResultWindow,
	}
}

// WithPagination configures page size limits and the result window.
// Non-positive values keep the current setting. The result is clamped so
// that defaultPageSize <= maxPageSize <= maxResultWindow.
func (s *Service) WithPagination(defaultPageSize, maxPageSize, maxResultWindow int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	if maxResultWindow > 0 {
		s.maxResultWindow = maxResultWindow
	}
	s.maxPageSize = min(s.maxPageSize, s.maxResultWindow)
	s.defaultPageSize = min(s.defaultPageSize, s.maxPageSize)
	return s
}

// WithIDGenerator replaces the generator used by Create.
func (s *Service) WithIDGenerator(fn func() string) *Service {
	if fn != nil {
		s.newID = fn
	}
	return s
}

// List returns one page of employees. A page beyond the data is empty.
func (s *Service) List(ctx context.Context, p Page) ([]domemp.Employee, error) {
	offset, limit, ok, err := s.window(p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domemp.Employee{}, nil
	}

	list, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return list, nil
}

// Get returns the employee with the given id.
func (s *Service) Get(ctx context.Context, id string) (domemp.Employee, error) {
	if err := domemp.ValidateID(id); err != nil {
		return domemp.Employee{}, err
	}
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return domemp.Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

// Put stores e under id, replacing any existing record.
// The id from the path wins over an id in the body.
func (s *Service) Put(ctx context.Context, id string, e domemp.Employee) (domemp.Outcome, error) {
	if err := domemp.ValidateID(id); err != nil {
		return "", err
	}
	if err := e.Validate(); err != nil {
		return "", err
	}

	out, err := s.repo.Put(ctx, e.WithID(id))
	if err != nil {
		return "", fmt.Errorf("put employee: %w", err)
	}
	return out, nil
}

// Create stores e under a freshly generated id.
func (s *Service) Create(ctx context.Context, e domemp.Employee) (string, domemp.Outcome, error) {
	id := s.newID()
	out, err := s.Put(ctx, id, e)
	if err != nil {
		return "", "", err
	}
	return id, out, nil
}

// Delete removes the employee. A missing id yields domemp.NotFound.
func (s *Service) Delete(ctx context.Context, id string) (domemp.Outcome, error) {
	if err := domemp.ValidateID(id); err != nil {
		return "", err
	}
	out, err := s.repo.Delete(ctx, id)
	if err != nil {
		return "", fmt.Errorf("delete employee: %w", err)
	}
	return out, nil
}

// Search returns one page of employees whose field matches value.
// queryType is "match" (full text) or "term" (exact).
func (s *Service) Search(ctx context.Context, field, value, queryType string, p Page) ([]domemp.Employee, error) {
	req, err := request.New(field, value, queryType)
	if err != nil {
		return nil, err
	}

	offset, limit, ok, err := s.window(p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domemp.Employee{}, nil
	}

	list, err := s.repo.Search(ctx, req, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("search employees: %w", err)
	}
	return list, nil
}

// Aggregate computes metricType over metricField for the employees whose
// field equals fieldValue. nil means nothing matched.
func (s *Service) Aggregate(
	ctx context.Context, field, fieldValue, metricType, metricField string,
) (*float64, error) {
	agg, err := request.NewAggregation(field, fieldValue, metricType, metricField)
	if err != nil {
		return nil, err
	}

	v, err := s.repo.Aggregate(ctx, agg)
	if err != nil {
		return nil, fmt.Errorf("aggregate employees: %w", err)
	}
	return v, nil
}

// window converts a page request into offset/limit. ok=false means the page
// starts past the result window and the answer is empty. A page that starts
// inside the window is cut at its end.
func (s *Service) window(p Page) (offset, limit int, ok bool, err error) {
	page := 0
	if p.Page != nil {
		page = *p.Page
	}
	size := s.defaultPageSize
	if p.Size != nil {
		size = *p.Size
	}

	if page < 0 {
		return 0, 0, false, domain.NewValidationError("page", "must not be negative")
	}
	if size < 1 || size > s.maxPageSize {
		return 0, 0, false, domain.NewValidationError("size", "must be between 1 and %d", s.maxPageSize)
	}

	// page*size >= window, without overflowing on huge pages.
	if page >= (s.maxResultWindow+size-1)/size {
		return 0, 0, false, nil
	}
	offset = page * size
	return offset, min(size, s.maxResultWindow-offset), true, nil
}
