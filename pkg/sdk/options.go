package employees

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver             string // "elasticsearch" or "redis"
	addrs              []string
	username           string
	password           string
	insecureSkipVerify bool
	refresh            string
	keyPrefix          string

	index            string
	ensureIndex      bool
	readinessTimeout time.Duration

	defaultPageSize int
	maxPageSize     int
	maxResultWindow int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		index:            "employees",
		ensureIndex:      true,
		readinessTimeout: defaultReadinessTimeout,
	}
}

// WithElasticsearch connects to an Elasticsearch cluster.
func WithElasticsearch(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "elasticsearch"
		c.addrs = addrs
	})
}

// WithRedis connects to a Redis 8 instance (Query Engine + JSON).
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithBasicAuth sets the username and password for the search engine.
func WithBasicAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithInsecureSkipVerify disables TLS certificate checks (Elasticsearch only).
func WithInsecureSkipVerify() Option {
	return optionFunc(func(c *clientConfig) {
		c.insecureSkipVerify = true
	})
}

// WithRefresh sets the Elasticsearch refresh policy for writes:
// "true", "false" or "wait_for" (default).
func WithRefresh(policy string) Option {
	return optionFunc(func(c *clientConfig) {
		c.refresh = policy
	})
}

// WithKeyPrefix namespaces Redis keys and index names.
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithIndex sets the index name. Default: employees.
func WithIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = name
	})
}

// WithoutEnsureIndex skips creating the index in New.
func WithoutEnsureIndex() Option {
	return optionFunc(func(c *clientConfig) {
		c.ensureIndex = false
	})
}

// WithReadinessTimeout bounds how long New waits for the engine. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithPagination sets the default and maximum page size and the deepest
// reachable result. Zero keeps the built-in value. The maximum page size is
// lowered to the result window, and the default to the maximum.
func WithPagination(defaultPageSize, maxPageSize, maxResultWindow int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultPageSize = defaultPageSize
		c.maxPageSize = maxPageSize
		c.maxResultWindow = maxResultWindow
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
