package employees

import (
	"context"
	"fmt"
	"time"

	employeeuc "github.com/tananushka/employees/internal/usecase/employee"
)

// EmployeeService reads, writes and queries employee records.
type EmployeeService struct {
	svc employeeUseCase
	obs *observer
}

// List returns one zero-based page. size <= 0 uses the default page size.
func (s *EmployeeService) List(ctx context.Context, page, size int) (_ []Employee, err error) {
	start := time.Now()
	defer func() { s.obs.observe("employee.list", start, err) }()

	list, err := s.svc.List(ctx, toPage(page, size))
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return list, nil
}

// Get returns the employee stored under id.
func (s *EmployeeService) Get(ctx context.Context, id string) (_ Employee, err error) {
	start := time.Now()
	defer func() { s.obs.observe("employee.get", start, err) }()

	e, err := s.svc.Get(ctx, id)
	if err != nil {
		return Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

// Put stores e under id, replacing any existing record.
func (s *EmployeeService) Put(ctx context.Context, id string, e Employee) (_ Outcome, err error) {
	start := time.Now()
	defer func() { s.obs.observe("employee.put", start, err) }()

	out, err := s.svc.Put(ctx, id, e)
	if err != nil {
		return "", fmt.Errorf("put employee: %w", err)
	}
	return out, nil
}

// Create stores e under a generated id and returns it.
func (s *EmployeeService) Create(ctx context.Context, e Employee) (_ string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("employee.create", start, err) }()

	id, _, err := s.svc.Create(ctx, e)
	if err != nil {
		return "", fmt.Errorf("create employee: %w", err)
	}
	return id, nil
}

// Delete removes the employee. A missing id is the NotFound outcome, not an error.
func (s *EmployeeService) Delete(ctx context.Context, id string) (_ Outcome, err error) {
	start := time.Now()
	defer func() { s.obs.observe("employee.delete", start, err) }()

	out, err := s.svc.Delete(ctx, id)
	if err != nil {
		return "", fmt.Errorf("delete employee: %w", err)
	}
	return out, nil
}

// Search returns one page of employees matching q.
func (s *EmployeeService) Search(ctx context.Context, q SearchQuery) (_ []Employee, err error) {
	start := time.Now()
	defer func() { s.obs.observe("employee.search", start, err) }()

	list, err := s.svc.Search(ctx, q.Field, q.Value, string(q.Type), toPage(q.Page, q.Size))
	if err != nil {
		return nil, fmt.Errorf("search employees: %w", err)
	}
	return list, nil
}

// Aggregate computes q.Metric. nil means no employee matched.
func (s *EmployeeService) Aggregate(ctx context.Context, q AggregateQuery) (_ *float64, err error) {
	start := time.Now()
	defer func() { s.obs.observe("employee.aggregate", start, err) }()

	v, err := s.svc.Aggregate(ctx, q.Field, q.Value, string(q.Metric), q.MetricField)
	if err != nil {
		return nil, fmt.Errorf("aggregate employees: %w", err)
	}
	return v, nil
}

func toPage(page, size int) employeeuc.Page {
	p := employeeuc.Page{Page: &page}
	if size > 0 {
		p.Size = &size
	}
	return p
}
