package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/employee-records/internal/core/employee"
	"github.com/ogurasousui/employee-records/internal/platform/config"
	"github.com/ogurasousui/employee-records/internal/platform/logging"
	"github.com/ogurasousui/employee-records/internal/platform/server"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.close()
	logger.Info("employee store ready", zap.String("driver", cfg.Database.Driver))

	var enricher employee.Enricher
	if cfg.Salary.Enabled {
		calculator := employee.NewSalaryCalculator(cfg.Salary.Latency)
		defer calculator.Close()
		enricher = calculator
		logger.Info("salary enrichment enabled", zap.Duration("latency", cfg.Salary.Latency))
	}

	svc := employee.NewService(st.repo, enricher, st.tx, logger.Named("employee"))

	if cfg.Database.Preload {
		n, err := svc.Preload(ctx, employee.DefaultRoster())
		if err != nil {
			return fmt.Errorf("preload employees: %w", err)
		}
		logger.Info("preload finished", zap.Int("created", n))
	}

	return server.New(cfg.Server, svc, logger.Named("server")).Run(ctx)
}
