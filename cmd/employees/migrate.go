package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tananushka/employees/internal/db"
)

func newMigrateCmd(env *string) *cobra.Command {
	var recreate bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the employee index if it does not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx, *env)
			if err != nil {
				return err
			}
			defer a.close()

			if recreate {
				err := a.store.DropIndex(ctx, a.cfg.Index.Name)
				if err != nil && !errors.Is(err, db.ErrIndexNotFound) {
					return fmt.Errorf("drop index: %w", err)
				}
				a.logger.Warn("Dropped index", zap.String("index", a.cfg.Index.Name))
			}

			if err := a.repo.EnsureIndex(ctx); err != nil {
				return fmt.Errorf("ensure index: %w", err)
			}
			a.logger.Info("Index ready", zap.String("index", a.cfg.Index.Name))
			return nil
		},
	}
	cmd.Flags().BoolVar(&recreate, "recreate", false, "drop the index and its documents first")
	return cmd
}
