package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chiragthakuri/time-tracker/internal/adapters/repository/gorm"
	"github.com/chiragthakuri/time-tracker/internal/platform/config"
	"github.com/chiragthakuri/time-tracker/internal/platform/db/sqlite"
	"github.com/chiragthakuri/time-tracker/internal/platform/logging"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath    string
	migrationsDir string
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the time-tracker database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Database.Driver == config.DriverSQLite {
			return autoMigrateSQLite(cmd.Context(), cfg)
		}
		return withMigrate(cfg, func(m *migrate.Migrate) error {
			return ignoreNoChange(m.Up())
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadPostgresConfig()
		if err != nil {
			return err
		}
		return withMigrate(cfg, func(m *migrate.Migrate) error {
			return ignoreNoChange(m.Down())
		})
	},
}

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop everything in the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadPostgresConfig()
		if err != nil {
			return err
		}
		return withMigrate(cfg, func(m *migrate.Migrate) error {
			return m.Drop()
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied migration version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadPostgresConfig()
		if err != nil {
			return err
		}
		return withMigrate(cfg, func(m *migrate.Migrate) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Fprintln(cmd.OutOrStdout(), "no migration applied")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "assets/migrations", "directory containing migration files")
	rootCmd.AddCommand(upCmd, downCmd, dropCmd, versionCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func effectiveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(effectiveConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func loadPostgresConfig() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return nil, fmt.Errorf("command requires the %s driver, configured driver is %s", config.DriverPostgres, cfg.Database.Driver)
	}
	return cfg, nil
}

func withMigrate(cfg *config.Config, fn func(m *migrate.Migrate) error) error {
	absDir, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("resolve path for %s: %w", migrationsDir, err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	return fn(m)
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func autoMigrateSQLite(ctx context.Context, cfg *config.Config) error {
	db, err := sqlite.Open(cfg.Database.SQLiteDSN, logging.ParseLevel(cfg.Logger.Level))
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return gorm.AutoMigrate(ctx, db)
}
