package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/employee-records/internal/platform/config"
	"github.com/spf13/cobra"
)

// migrationFunc は action を dir のマイグレーションで dsn に適用します。
type migrationFunc func(out io.Writer, action, dir, dsn string) error

func newRootCommand(migrateFn migrationFunc) *cobra.Command {
	var (
		configPath    string
		migrationsDir string
	)

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply schema migrations to the employee records database",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	root.PersistentFlags().StringVar(&migrationsDir, "dir", "assets/migrations", "directory containing migration files")

	action := func(name, short string) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := config.LoadDotEnv(); err != nil {
					return err
				}
				cfg, err := config.Load(config.ResolvePath(configPath))
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if cfg.Database.Driver != config.DriverPostgres {
					return fmt.Errorf("migrations require the %s driver, got %q", config.DriverPostgres, cfg.Database.Driver)
				}
				if err := migrateFn(cmd.OutOrStdout(), name, migrationsDir, cfg.Database.DSN()); err != nil {
					return fmt.Errorf("migration %s failed: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migration %s completed\n", name)
				return nil
			},
		}
	}

	root.AddCommand(
		action("up", "Apply all pending migrations"),
		action("down", "Roll back all migrations"),
		action("drop", "Drop everything in the database"),
		action("version", "Print the current migration version"),
	)
	return root
}

func runMigration(out io.Writer, action, dir, dsn string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path for %s: %w", dir, err)
	}
	absDir = filepath.ToSlash(absDir)

	m, err := migrate.New(fmt.Sprintf("file://%s", absDir), dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Fprintln(out, "no migration applied")
				return nil
			}
			return err
		}
		fmt.Fprintf(out, "version=%d dirty=%t\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}
