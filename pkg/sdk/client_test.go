package employees

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	healthuc "github.com/tananushka/employees/internal/usecase/health"
)

func TestNew_NoAddress(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "valkey", addrs: []string{"localhost:6379"}}
	_, err := createStore(cfg)
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestCreateStore_Elasticsearch(t *testing.T) {
	cfg := defaultConfig()
	WithElasticsearch("http://127.0.0.1:1").apply(cfg)

	s, err := createStore(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()
	if s.Driver() != "elasticsearch" {
		t.Errorf("driver = %q", s.Driver())
	}
}

func TestClientOptions(t *testing.T) {
	cfg := defaultConfig()
	if cfg.index != "employees" || !cfg.ensureIndex || cfg.readinessTimeout != defaultReadinessTimeout {
		t.Fatalf("defaults = %+v", cfg)
	}

	logger := slog.Default()
	reg := prometheus.NewRegistry()
	opts := []Option{
		WithElasticsearch("http://a:9200", "http://b:9200"),
		WithBasicAuth("elastic", "pw"),
		WithInsecureSkipVerify(),
		WithRefresh("false"),
		WithIndex("staff"),
		WithoutEnsureIndex(),
		WithReadinessTimeout(time.Second),
		WithPagination(5, 50, 1000),
		WithLogger(logger),
		WithPrometheus(reg),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver != "elasticsearch" || len(cfg.addrs) != 2 {
		t.Errorf("driver/addrs = %q %v", cfg.driver, cfg.addrs)
	}
	if cfg.username != "elastic" || cfg.password != "pw" || !cfg.insecureSkipVerify || cfg.refresh != "false" {
		t.Errorf("auth/tls = %+v", cfg)
	}
	if cfg.index != "staff" || cfg.ensureIndex || cfg.readinessTimeout != time.Second {
		t.Errorf("index = %+v", cfg)
	}
	if cfg.defaultPageSize != 5 || cfg.maxPageSize != 50 || cfg.maxResultWindow != 1000 {
		t.Errorf("pagination = %+v", cfg)
	}
	if cfg.logger != logger || cfg.metricsReg != reg {
		t.Error("logger/registry not applied")
	}

	WithRedis("localhost:6379", "secret").apply(cfg)
	WithKeyPrefix("hr:").apply(cfg)
	if cfg.driver != "redis" || cfg.addrs[0] != "localhost:6379" || cfg.password != "secret" || cfg.keyPrefix != "hr:" {
		t.Errorf("redis = %+v", cfg)
	}
}

func TestEnsureIndex(t *testing.T) {
	idx := &mockIndex{}
	c := &Client{index: idx}
	if err := c.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.calls != 1 {
		t.Errorf("calls = %d", idx.calls)
	}

	idx.err = errors.New("mapper_parsing_exception")
	if err := c.EnsureIndex(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestHealth(t *testing.T) {
	c := &Client{healthSvc: &mockHealthUC{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK, "index": healthuc.CheckError},
	}}}

	h := c.Health(context.Background())
	if h.Status != "degraded" || h.Checks["index"] != "error" || h.Checks["database"] != "ok" {
		t.Errorf("health = %+v", h)
	}
}

func TestWireClient_PaginationClampedToWindow(t *testing.T) {
	cfg := defaultConfig()
	WithPagination(10, 100, 50).apply(cfg)
	emp := wireClient(nil, cfg, nil).Employees()

	_, err := emp.List(context.Background(), 0, 51)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("size 51 over a window of 50: expected ErrValidation, got %v", err)
	}
}

func TestObserver_NilIsNoop(t *testing.T) {
	var o *observer
	o.observe("employee.get", time.Now(), errors.New("boom"))
}

func TestObserver_RecordsStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o.observe("employee.get", time.Now(), nil)
	o.observe("employee.get", time.Now(), ErrEmployeeNotFound)
	o.observe("employee.search", time.Now(), ErrUnsupportedQueryType)
	o.observe("employee.search", time.Now(), errors.New("connection reset"))

	tests := []struct {
		op, status string
	}{
		{"employee.get", "ok"},
		{"employee.get", "not_found"},
		{"employee.search", "invalid"},
		{"employee.search", "error"},
	}
	for _, tc := range tests {
		if got := testutil.ToFloat64(o.metrics.operations.WithLabelValues(tc.op, tc.status)); got != 1 {
			t.Errorf("%s/%s = %v, want 1", tc.op, tc.status, got)
		}
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.metrics.operations != second.metrics.operations {
		t.Error("expected the already registered counter to be reused")
	}
}
