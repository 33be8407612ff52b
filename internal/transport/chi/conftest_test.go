package chi

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/tananushka/employees/internal/domain"
	domemp "github.com/tananushka/employees/internal/domain/employee"
	"github.com/tananushka/employees/internal/domain/search/metric"
	"github.com/tananushka/employees/internal/domain/search/mode"
	"github.com/tananushka/employees/internal/domain/search/request"
	employeeuc "github.com/tananushka/employees/internal/usecase/employee"
	healthuc "github.com/tananushka/employees/internal/usecase/health"
)

// memRepo is an in-memory employeeuc.Repository. Search understands the
// name and skills fields only.
type memRepo struct {
	mu   sync.Mutex
	data map[string]domemp.Employee
	err  error
}

func newMemRepo() *memRepo {
	return &memRepo{data: make(map[string]domemp.Employee)}
}

func (m *memRepo) Put(_ context.Context, e domemp.Employee) (domemp.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	_, exists := m.data[e.ID]
	m.data[e.ID] = e
	if exists {
		return domemp.Updated, nil
	}
	return domemp.Created, nil
}

func (m *memRepo) Get(_ context.Context, id string) (domemp.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domemp.Employee{}, m.err
	}
	e, ok := m.data[id]
	if !ok {
		return domemp.Employee{}, domain.ErrEmployeeNotFound
	}
	return e, nil
}

func (m *memRepo) Delete(_ context.Context, id string) (domemp.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	if _, ok := m.data[id]; !ok {
		return domemp.NotFound, nil
	}
	delete(m.data, id)
	return domemp.Deleted, nil
}

func (m *memRepo) List(_ context.Context, offset, limit int) ([]domemp.Employee, error) {
	return m.page(func(domemp.Employee) bool { return true }, offset, limit)
}

func (m *memRepo) Search(_ context.Context, req request.Request, offset, limit int) ([]domemp.Employee, error) {
	return m.page(func(e domemp.Employee) bool { return matches(e, req.Field(), req.Value(), req.Mode()) }, offset, limit)
}

func (m *memRepo) Aggregate(_ context.Context, agg request.Aggregation) (*float64, error) {
	list, err := m.page(func(e domemp.Employee) bool {
		return matches(e, agg.Field(), agg.FieldValue(), mode.Term)
	}, 0, 1<<30)
	if err != nil || len(list) == 0 {
		return nil, err
	}

	var out float64
	for i, e := range list {
		v := float64(e.Salary)
		switch {
		case i == 0:
			out = v
		case agg.Metric() == metric.Avg:
			out += v
		case agg.Metric() == metric.Min:
			out = min(out, v)
		case agg.Metric() == metric.Max:
			out = max(out, v)
		}
	}
	if agg.Metric() == metric.Avg {
		out /= float64(len(list))
	}
	return &out, nil
}

func (m *memRepo) page(keep func(domemp.Employee) bool, offset, limit int) ([]domemp.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := []domemp.Employee{}
	for _, id := range ids {
		if e := m.data[id]; keep(e) {
			out = append(out, e)
		}
	}
	if offset >= len(out) {
		return []domemp.Employee{}, nil
	}
	return out[offset:min(offset+limit, len(out))], nil
}

func matches(e domemp.Employee, field, value string, m mode.Mode) bool {
	var values []string
	switch field {
	case "name":
		values = []string{e.Name}
	case "skills":
		values = e.Skills
	case "salary":
		return value == strconv.Itoa(e.Salary)
	case "experience":
		return value == strconv.Itoa(e.Experience)
	case "verified":
		return value == strconv.FormatBool(e.Verified)
	}
	if m == mode.Term {
		return slices.Contains(values, value)
	}
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), strings.ToLower(value)) {
			return true
		}
	}
	return false
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubIndex struct{ err error }

func (c stubIndex) HealthCheck(context.Context) error { return c.err }

// testAPI bundles a router with its backing fakes.
type testAPI struct {
	handler http.Handler
	repo    *memRepo
}

func newTestAPI(t *testing.T, apiKeys ...string) *testAPI {
	t.Helper()
	return newTestAPIWithHealth(t, nil, nil, apiKeys...)
}

func newTestAPIWithHealth(t *testing.T, dbErr, indexErr error, apiKeys ...string) *testAPI {
	t.Helper()
	repo := newMemRepo()
	emp := employeeuc.New(repo).WithIDGenerator(func() string { return "generated-1" })
	health := healthuc.New(stubPinger{err: dbErr}, stubIndex{err: indexErr})
	return &testAPI{
		handler: NewRouter(NewServer(emp, health), zaptest.NewLogger(t), apiKeys),
		repo:    repo,
	}
}

var errStoreDown = errors.New("dial tcp 10.0.0.7:9200: connection refused")
