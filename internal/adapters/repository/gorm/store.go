package gorm

import (
	"context"
	"slices"

	"github.com/chiragthakuri/time-tracker/internal/core/resource"
	"github.com/chiragthakuri/time-tracker/internal/platform/db/sqlite"
	"github.com/ncruces/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AutoMigrate はスキーマを作成・更新します。
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

type store struct {
	db *gorm.DB
}

func (s *store) conn(ctx context.Context) *gorm.DB {
	return sqlite.DBFromContext(ctx, s.db)
}

// translate は gorm / SQLite のエラーをリソースのエラー種別へ寄せます。
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.WithStack(resource.ErrNotFound)
	}

	var sqliteErr *sqlite3.Error
	if errors.As(err, &sqliteErr) && slices.Contains([]sqlite3.ErrorCode{sqlite3.BUSY, sqlite3.LOCKED}, sqliteErr.Code()) {
		return errors.Wrapf(resource.ErrConcurrencyConflict, "sqlite: %v", err)
	}

	return errors.WithStack(err)
}

// updates は changes を Updates 用のマップへ変換し、version を進めます。
func updates(changes resource.Changes, writable []string, encode func(column string, value any) any) (map[string]any, error) {
	values := make(map[string]any, len(changes)+1)
	for _, ch := range changes {
		if !slices.Contains(writable, ch.Column) {
			return nil, errors.Errorf("gorm: column %q is not writable", ch.Column)
		}
		values[ch.Column] = encode(ch.Column, ch.Value)
	}
	values["version"] = gorm.Expr("version + 1")
	return values, nil
}

func conflict(table string, id int64) error {
	return errors.Wrapf(resource.ErrConcurrencyConflict, "gorm: %s id=%d was not written", table, id)
}
