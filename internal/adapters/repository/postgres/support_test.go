package postgres

import (
	"errors"
	"testing"

	"github.com/chiragthakuri/time-tracker/internal/core/resource"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslatePgError(t *testing.T) {
	t.Parallel()

	if !errors.Is(TranslatePgError(pgx.ErrNoRows), resource.ErrNotFound) {
		t.Fatalf("expected no rows to map to ErrNotFound")
	}

	for _, code := range []string{serializationFailureCode, deadlockDetectedCode} {
		err := TranslatePgError(&pgconn.PgError{Code: code})
		if !errors.Is(err, resource.ErrConcurrencyConflict) {
			t.Fatalf("expected %s to map to ErrConcurrencyConflict, got %v", code, err)
		}
	}

	fk := &pgconn.PgError{Code: "23503"}
	if TranslatePgError(fk) != error(fk) {
		t.Fatalf("expected foreign key violation to pass through")
	}
	if TranslatePgError(nil) != nil {
		t.Fatalf("expected nil to stay nil")
	}
}

func TestBuildUpdate(t *testing.T) {
	t.Parallel()

	changes := resource.Changes{}.Set("name", "Bob").Set("start_date", "2024-01-01")
	query, args, err := buildUpdate("employees", []string{"name", "start_date"}, 1, 3, changes)
	if err != nil {
		t.Fatalf("buildUpdate returned error: %v", err)
	}

	want := "UPDATE employees SET name = $1, start_date = $2, version = version + 1 WHERE id = $3 AND version = $4"
	if query != want {
		t.Fatalf("unexpected query.\nwant %s\ngot  %s", want, query)
	}
	if len(args) != 4 || args[2] != int64(1) || args[3] != int64(3) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildUpdate_Rejects(t *testing.T) {
	t.Parallel()

	if _, _, err := buildUpdate("employees", []string{"name"}, 1, 1, nil); !errors.Is(err, errNoChanges) {
		t.Fatalf("expected errNoChanges, got %v", err)
	}

	changes := resource.Changes{}.Set("version", 9)
	if _, _, err := buildUpdate("employees", []string{"name"}, 1, 1, changes); err == nil {
		t.Fatalf("expected non-writable column to be rejected")
	}
}
