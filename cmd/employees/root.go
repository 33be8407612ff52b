package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tananushka/employees/internal/config"
	"github.com/tananushka/employees/internal/db"
	dbElastic "github.com/tananushka/employees/internal/db/elastic"
	"github.com/tananushka/employees/internal/db/instrumented"
	dbRedis "github.com/tananushka/employees/internal/db/redis"
	logpkg "github.com/tananushka/employees/internal/logger"
	"github.com/tananushka/employees/internal/metrics"
	employeerepo "github.com/tananushka/employees/internal/repository/employee"
	"github.com/tananushka/employees/internal/version"
)

func newRootCmd() *cobra.Command {
	var env string

	root := &cobra.Command{
		Use:           "employees",
		Short:         "Employee records REST API over Elasticsearch or Redis",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), env)
		},
	}
	root.PersistentFlags().StringVar(&env, "env", "", "config environment (default: $ENV or local)")

	root.AddCommand(newServeCmd(&env), newMigrateCmd(&env), newVersionCmd())
	return root
}

// app holds what every command needs: config, logger and an opened store.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
	store  db.Store
	repo   *employeerepo.Repo
}

// bootstrap loads config, builds the logger and connects to the store.
func bootstrap(ctx context.Context, env string) (*app, error) {
	config.LoadDotEnv(".env")
	if env == "" {
		env = config.GetEnv()
	}

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	logger.Info("Starting employees",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("index", cfg.Index.Name),
	)

	metrics.RegisterStoreMetrics()

	store, err := openStore(cfg.Database, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		_ = logger.Sync()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database")

	return &app{
		env:    env,
		cfg:    cfg,
		logger: logger,
		store:  store,
		repo:   employeerepo.New(store, cfg.Index.Name),
	}, nil
}

func (a *app) close() {
	a.store.Close()
	_ = a.logger.Sync()
}

// openStore creates the configured driver wrapped with metrics and logging.
func openStore(cfg config.DatabaseConfig, logger *zap.Logger) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverElasticsearch:
		store, err = dbElastic.NewStore(dbElastic.Config{
			Addrs:              cfg.Addrs,
			Username:           cfg.Username,
			Password:           cfg.Password,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			Refresh:            cfg.Refresh,
		})
	case config.DriverRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Username:  cfg.Username,
			Password:  cfg.Password,
			DB:        cfg.DB,
			KeyPrefix: cfg.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}
	return instrumented.New(store, logger), nil
}
