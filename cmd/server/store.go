package main

import (
	"context"
	"fmt"

	"github.com/ogurasousui/employee-records/internal/adapters/repository/memory"
	"github.com/ogurasousui/employee-records/internal/adapters/repository/postgres"
	"github.com/ogurasousui/employee-records/internal/adapters/repository/sqlite"
	"github.com/ogurasousui/employee-records/internal/core/employee"
	"github.com/ogurasousui/employee-records/internal/platform/config"
	pg "github.com/ogurasousui/employee-records/internal/platform/db/postgres"
	sqlitedb "github.com/ogurasousui/employee-records/internal/platform/db/sqlite"
)

type store struct {
	repo  employee.Repository
	tx    employee.TransactionManager
	close func()
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (*store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := pg.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("initialize database pool: %w", err)
		}
		return &store{
			repo:  postgres.NewEmployeeRepository(pool),
			tx:    pg.NewTransactionManager(pool),
			close: pool.Close,
		}, nil
	case config.DriverSQLite:
		db, err := sqlitedb.Open(cfg.SQLitePath, sqlite.Models()...)
		if err != nil {
			return nil, err
		}
		return &store{
			repo:  sqlite.NewEmployeeRepository(db),
			close: func() { _ = sqlitedb.Close(db) },
		}, nil
	case config.DriverMemory:
		return &store{
			repo:  memory.NewEmployeeRepository(),
			close: func() {},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
