package sqlite

import (
	"log/slog"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open は gormlite を利用して SQLite データベースを開きます。
// 接続は 1 本に制限し、外部キー制約を有効にします。
func Open(dsn string, level slog.Level) (*gorm.DB, error) {
	db, err := gorm.Open(gormlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(level)),
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if level == slog.LevelDebug {
		db = db.Debug()
	}

	internalDB, err := db.DB()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// :memory: は接続ごとに別データベースになるため 1 本に固定する
	internalDB.SetMaxOpenConns(1)
	internalDB.SetMaxIdleConns(1)

	if err := db.Exec("PRAGMA journal_mode=wal; PRAGMA foreign_keys=on; PRAGMA busy_timeout=5000").Error; err != nil {
		return nil, errors.WithStack(err)
	}

	return db, nil
}

func gormLogLevel(level slog.Level) logger.LogLevel {
	switch {
	case level >= slog.LevelError:
		return logger.Error
	case level >= slog.LevelWarn:
		return logger.Warn
	case level >= slog.LevelInfo:
		return logger.Warn
	default:
		return logger.Info
	}
}
