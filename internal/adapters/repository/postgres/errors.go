package postgres

import (
	"errors"
	"fmt"

	"github.com/chiragthakuri/time-tracker/internal/core/resource"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	serializationFailureCode = "40001"
	deadlockDetectedCode     = "40P01"
)

// TranslatePgError はドライバのエラーをリソースのエラー種別へ寄せます。コミット時のエラーにも使います。
// 該当しないエラーはそのまま返し、上位で永続化エラーとして扱われます。
func TranslatePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return resource.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case serializationFailureCode, deadlockDetectedCode:
			return fmt.Errorf("postgres: %w: %w", resource.ErrConcurrencyConflict, err)
		}
	}
	return err
}

func conflict(table string, id int64) error {
	return fmt.Errorf("postgres: %s id=%d was not written: %w", table, id, resource.ErrConcurrencyConflict)
}
