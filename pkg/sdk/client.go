package employees

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tananushka/employees/internal/db"
	dbElastic "github.com/tananushka/employees/internal/db/elastic"
	dbRedis "github.com/tananushka/employees/internal/db/redis"
	domemp "github.com/tananushka/employees/internal/domain/employee"
	employeerepo "github.com/tananushka/employees/internal/repository/employee"
	employeeuc "github.com/tananushka/employees/internal/usecase/employee"
	healthuc "github.com/tananushka/employees/internal/usecase/health"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaced by fakes in tests.
type employeeUseCase interface {
	List(ctx context.Context, p employeeuc.Page) ([]domemp.Employee, error)
	Get(ctx context.Context, id string) (domemp.Employee, error)
	Put(ctx context.Context, id string, e domemp.Employee) (domemp.Outcome, error)
	Create(ctx context.Context, e domemp.Employee) (string, domemp.Outcome, error)
	Delete(ctx context.Context, id string) (domemp.Outcome, error)
	Search(ctx context.Context, field, value, queryType string, p employeeuc.Page) ([]domemp.Employee, error)
	Aggregate(ctx context.Context, field, fieldValue, metricType, metricField string) (*float64, error)
}

type indexEnsurer interface {
	EnsureIndex(ctx context.Context) error
}

// Client is the employees SDK entry point.
type Client struct {
	store     db.Store
	employees employeeUseCase
	index     indexEnsurer
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client, waits for the engine and, unless WithoutEnsureIndex
// is given, creates the employee index. ctx bounds the startup work.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("employees: database address required (use WithElasticsearch or WithRedis)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("employees: database not ready: %w", err)
	}

	c := wireClient(store, cfg, obs)
	if cfg.ensureIndex {
		if err := c.EnsureIndex(ctx); err != nil {
			store.Close()
			return nil, err
		}
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "elasticsearch":
		s, err := dbElastic.NewStore(dbElastic.Config{
			Addrs:              cfg.addrs,
			Username:           cfg.username,
			Password:           cfg.password,
			InsecureSkipVerify: cfg.insecureSkipVerify,
			Refresh:            cfg.refresh,
		})
		if err != nil {
			return nil, fmt.Errorf("employees: create elasticsearch store: %w", err)
		}
		return s, nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.addrs,
			Username:  cfg.username,
			Password:  cfg.password,
			KeyPrefix: cfg.keyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("employees: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("employees: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	repo := employeerepo.New(store, cfg.index)
	svc := employeeuc.New(repo).
		WithPagination(cfg.defaultPageSize, cfg.maxPageSize, cfg.maxResultWindow)

	return &Client{
		store:     store,
		employees: svc,
		index:     repo,
		healthSvc: healthuc.New(store, repo),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// EnsureIndex creates the employee index if it does not exist.
func (c *Client) EnsureIndex(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("index.ensure", start, err) }()

	if err = c.index.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("employees: %w", err)
	}
	return nil
}

// Employees returns the employee record service.
func (c *Client) Employees() *EmployeeService {
	return &EmployeeService{svc: c.employees, obs: c.obs}
}
