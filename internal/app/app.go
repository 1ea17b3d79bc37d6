// Package app は設定に従ってストア・ユースケース・HTTP ハンドラを組み立てます。
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chiragthakuri/time-tracker/internal/adapters/http/handler"
	"github.com/chiragthakuri/time-tracker/internal/adapters/http/router"
	gormrepo "github.com/chiragthakuri/time-tracker/internal/adapters/repository/gorm"
	pgrepo "github.com/chiragthakuri/time-tracker/internal/adapters/repository/postgres"
	"github.com/chiragthakuri/time-tracker/internal/core/employee"
	"github.com/chiragthakuri/time-tracker/internal/core/health"
	"github.com/chiragthakuri/time-tracker/internal/core/project"
	"github.com/chiragthakuri/time-tracker/internal/core/resource"
	"github.com/chiragthakuri/time-tracker/internal/platform/config"
	"github.com/chiragthakuri/time-tracker/internal/platform/db/postgres"
	"github.com/chiragthakuri/time-tracker/internal/platform/db/sqlite"
	"github.com/chiragthakuri/time-tracker/internal/platform/logging"
)

// App は組み立て済みのアプリケーションです。
type App struct {
	Handler http.Handler
	closers []func()
}

// Close はストアの接続を解放します。
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type stores struct {
	employees employee.Repository
	projects  project.Repository
	tx        resource.TransactionManager
	pinger    health.Pinger
	close     func()
}

// New は cfg.Database.Driver に応じたストアでアプリケーションを構築します。
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var (
		s   *stores
		err error
	)
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		s, err = openPostgres(ctx, cfg.Database)
	case config.DriverSQLite:
		s, err = openSQLite(ctx, cfg.Database, logging.ParseLevel(cfg.Logger.Level))
	default:
		err = fmt.Errorf("app: unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("store opened", slog.String("driver", cfg.Database.Driver))

	employees := employee.NewService(s.employees, s.tx, logger)
	projects := project.NewService(s.projects, s.tx, logger)

	h := router.New(router.Options{
		Logger: logger,
		Health: handler.NewHealthHandler(health.NewChecker(s.pinger), logger),
		Resources: []router.Mounter{
			handler.NewResourceHandler[employee.Resource](employees, logger),
			handler.NewResourceHandler[project.Resource](projects, logger),
		},
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		AccessLog:          true,
	})

	return &App{Handler: h, closers: []func(){s.close}}, nil
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*stores, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tx := postgres.NewTransactionManager(pool,
		postgres.WithIsolation(postgres.IsolationLevel(cfg)),
		postgres.WithCommitErrorTranslator(pgrepo.TranslatePgError),
	)

	return &stores{
		employees: pgrepo.NewEmployeeRepository(pool),
		projects:  pgrepo.NewProjectRepository(pool),
		tx:        tx,
		pinger:    pool,
		close:     pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg config.DatabaseConfig, level slog.Level) (*stores, error) {
	db, err := sqlite.Open(cfg.SQLiteDSN, level)
	if err != nil {
		return nil, fmt.Errorf("app: open sqlite: %w", err)
	}

	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	if cfg.AutoMigrate {
		if err := gormrepo.AutoMigrate(ctx, db); err != nil {
			closeDB()
			return nil, fmt.Errorf("app: migrate sqlite: %w", err)
		}
	}

	return &stores{
		employees: gormrepo.NewEmployeeStore(db),
		projects:  gormrepo.NewProjectStore(db),
		tx:        sqlite.NewTransactionManager(db),
		pinger:    sqlite.NewPinger(db),
		close:     closeDB,
	}, nil
}
