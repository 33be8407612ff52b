package employees

import (
	"context"

	domemp "github.com/tananushka/employees/internal/domain/employee"
	employeeuc "github.com/tananushka/employees/internal/usecase/employee"
	healthuc "github.com/tananushka/employees/internal/usecase/health"
)

// --- employeeUseCase mock ---

type mockEmployeeUC struct {
	listFn      func(ctx context.Context, p employeeuc.Page) ([]domemp.Employee, error)
	getFn       func(ctx context.Context, id string) (domemp.Employee, error)
	putFn       func(ctx context.Context, id string, e domemp.Employee) (domemp.Outcome, error)
	createFn    func(ctx context.Context, e domemp.Employee) (string, domemp.Outcome, error)
	deleteFn    func(ctx context.Context, id string) (domemp.Outcome, error)
	searchFn    func(ctx context.Context, field, value, queryType string, p employeeuc.Page) ([]domemp.Employee, error)
	aggregateFn func(ctx context.Context, field, fieldValue, metricType, metricField string) (*float64, error)
}

func (m *mockEmployeeUC) List(ctx context.Context, p employeeuc.Page) ([]domemp.Employee, error) {
	return m.listFn(ctx, p)
}

func (m *mockEmployeeUC) Get(ctx context.Context, id string) (domemp.Employee, error) {
	return m.getFn(ctx, id)
}

func (m *mockEmployeeUC) Put(ctx context.Context, id string, e domemp.Employee) (domemp.Outcome, error) {
	return m.putFn(ctx, id, e)
}

func (m *mockEmployeeUC) Create(ctx context.Context, e domemp.Employee) (string, domemp.Outcome, error) {
	return m.createFn(ctx, e)
}

func (m *mockEmployeeUC) Delete(ctx context.Context, id string) (domemp.Outcome, error) {
	return m.deleteFn(ctx, id)
}

func (m *mockEmployeeUC) Search(
	ctx context.Context, field, value, queryType string, p employeeuc.Page,
) ([]domemp.Employee, error) {
	return m.searchFn(ctx, field, value, queryType, p)
}

func (m *mockEmployeeUC) Aggregate(
	ctx context.Context, field, fieldValue, metricType, metricField string,
) (*float64, error) {
	return m.aggregateFn(ctx, field, fieldValue, metricType, metricField)
}

// --- indexEnsurer mock ---

type mockIndex struct {
	err   error
	calls int
}

func (m *mockIndex) EnsureIndex(context.Context) error {
	m.calls++
	return m.err
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }
