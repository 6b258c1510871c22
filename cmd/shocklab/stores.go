package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"scenario-shock-lab/internal/config"
	"scenario-shock-lab/internal/storage"
	chstore "scenario-shock-lab/internal/storage/clickhouse"
	"scenario-shock-lab/internal/storage/memory"
	"scenario-shock-lab/internal/storage/migrations"
	"scenario-shock-lab/internal/storage/postgres"
)

// stores bundles the history stores of the configured driver.
type stores struct {
	shocks    storage.ShockStore
	baselines storage.BaselineStore
	close     func()
}

func (s *stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// openStores connects the configured driver and applies its migrations.
func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("using postgres shock history")
		return &stores{
			shocks:    postgres.NewShockStore(pool),
			baselines: postgres.NewBaselineStore(pool),
			close:     pool.Close,
		}, nil

	case config.DriverClickHouse:
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickHouse.DSN())
		if err != nil {
			return nil, err
		}
		logger.Info("using clickhouse shock history", zap.String("addr", cfg.Storage.ClickHouse.Addr))
		return &stores{
			shocks:    chstore.NewShockStore(conn),
			baselines: chstore.NewBaselineStore(conn),
			close:     func() { _ = conn.Close() },
		}, nil

	default:
		logger.Debug("using in-memory shock history")
		return &stores{
			shocks:    memory.NewShockStore(),
			baselines: memory.NewBaselineStore(),
		}, nil
	}
}
