// Package resource は 1 エンティティ型に対する CRUD の判断ロジックを共通化します。
//
// エンティティごとの差は Mapper と Store だけで表現し、コントローラーの重複実装を避けます。
package resource

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/chiragthakuri/time-tracker/internal/core/patch"
	"github.com/go-playground/validator/v10"
)

// Service はエンティティ型 E とリソース型 R に対するユースケースをまとめます。
type Service[E Entity, R any] struct {
	name     string
	store    Store[E]
	mapper   Mapper[E, R]
	tx       TransactionManager
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService は Service を生成します。tx と logger は nil を許容します。
func NewService[E Entity, R any](name string, store Store[E], mapper Mapper[E, R], tx TransactionManager, logger *slog.Logger) *Service[E, R] {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service[E, R]{
		name:     name,
		store:    store,
		mapper:   mapper,
		tx:       tx,
		validate: NewValidator(),
		logger:   logger.With(slog.String("resource", name)),
	}
}

// Name はリソース名を返します。
func (s *Service[E, R]) Name() string {
	return s.name
}

// List はすべてのレコードをリソース形状で返します。順序は保証しません。
func (s *Service[E, R]) List(ctx context.Context) ([]R, error) {
	op := s.name + ".list"

	var entities []E
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.store.List(txCtx)
		if err != nil {
			return err
		}
		entities = found
		return nil
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to list resources", slog.Any("error", err))
		return nil, persistence(op, err)
	}

	out := make([]R, 0, len(entities))
	for _, e := range entities {
		out = append(out, s.mapper.ToResource(e))
	}
	return out, nil
}

// Get は id のレコードを返します。
func (s *Service[E, R]) Get(ctx context.Context, id int64) (R, error) {
	op := s.name + ".get"
	var zero R

	if id <= 0 {
		return zero, invalidf(op, "id must be a positive integer")
	}

	s.logger.InfoContext(ctx, "fetching resource", slog.Int64("id", id))

	var found E
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		e, err := s.store.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		found = e
		return nil
	}); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "resource not found", slog.Int64("id", id))
			return zero, notFound(op, id)
		}
		s.logger.ErrorContext(ctx, "failed to fetch resource", slog.Int64("id", id), slog.Any("error", err))
		return zero, persistence(op, err)
	}

	return s.mapper.ToResource(found), nil
}

// Create は新しいレコードを作成し、ストアが採番した id を含むリソースを返します。
// r に含まれる id は無視されます。
func (s *Service[E, R]) Create(ctx context.Context, r R) (R, error) {
	op := s.name + ".create"
	var zero R

	if err := s.validate.StructCtx(ctx, r); err != nil {
		return zero, invalid(op, describeValidation(err))
	}

	var created E
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		e, err := s.store.Create(txCtx, s.mapper.ToEntity(0, r))
		if err != nil {
			return err
		}
		created = e
		return nil
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist resource", slog.Any("error", err))
		return zero, persistence(op, err)
	}

	s.logger.InfoContext(ctx, "resource created", slog.Int64("id", created.RecordID()))
	return s.mapper.ToResource(created), nil
}

// Replace は id のレコードを r で全面的に置き換えます。
func (s *Service[E, R]) Replace(ctx context.Context, id int64, r R) error {
	op := s.name + ".replace"

	if id <= 0 {
		return invalidf(op, "id must be a positive integer")
	}
	if err := s.validate.StructCtx(ctx, r); err != nil {
		return invalid(op, describeValidation(err))
	}

	entity := s.mapper.ToEntity(id, r)
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.store.Replace(txCtx, entity)
	}); err != nil {
		return s.resolveWriteError(ctx, op, id, err)
	}

	s.logger.InfoContext(ctx, "resource replaced", slog.Int64("id", id))
	return nil
}

// Patch は id のレコードへ ops を適用し、変更されたカラムだけを更新します。
func (s *Service[E, R]) Patch(ctx context.Context, id int64, ops []patch.Operation) error {
	op := s.name + ".patch"

	if id <= 0 {
		return invalidf(op, "id must be a positive integer")
	}
	if err := patch.Validate(ops); err != nil {
		return invalid(op, err)
	}

	var changes Changes
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		current, err := s.store.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		patched, err := patch.ApplyTo(s.mapper.ToResource(current), ops)
		if err != nil {
			return invalid(op, err)
		}
		if err := s.validate.StructCtx(txCtx, patched); err != nil {
			return invalid(op, describeValidation(err))
		}

		changes = s.mapper.Diff(current, s.mapper.ToEntity(id, patched))
		if changes.Empty() {
			return nil
		}
		return s.store.Update(txCtx, id, current.RecordVersion(), changes)
	}); err != nil {
		return s.resolveWriteError(ctx, op, id, err)
	}

	s.logger.InfoContext(ctx, "resource patched", slog.Int64("id", id), slog.Any("columns", changes.Columns()))
	return nil
}

// Delete は id のレコードを削除します。
func (s *Service[E, R]) Delete(ctx context.Context, id int64) error {
	op := s.name + ".delete"

	if id <= 0 {
		return notFound(op, id)
	}

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if _, err := s.store.FindByID(txCtx, id); err != nil {
			return err
		}
		return s.store.Delete(txCtx, id)
	}); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, "resource not found", slog.Int64("id", id))
			return notFound(op, id)
		}
		s.logger.ErrorContext(ctx, "failed to delete resource", slog.Int64("id", id), slog.Any("error", err))
		return persistence(op, err)
	}

	s.logger.InfoContext(ctx, "resource deleted", slog.Int64("id", id))
	return nil
}

// resolveWriteError は書き込み失敗を種別へ振り分けます。競合時は再取得し、
// レコードが消えていれば NotFound、残っていれば永続化エラーとします。再試行はしません。
func (s *Service[E, R]) resolveWriteError(ctx context.Context, op string, id int64, err error) error {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return err
	case errors.Is(err, ErrConcurrencyConflict):
		_, findErr := s.store.FindByID(ctx, id)
		if errors.Is(findErr, ErrNotFound) {
			s.logger.WarnContext(ctx, "resource vanished during write", slog.Int64("id", id))
			return notFound(op, id)
		}
		s.logger.ErrorContext(ctx, "concurrent modification detected", slog.Int64("id", id), slog.Any("error", err))
		return persistence(op, err)
	case errors.Is(err, ErrNotFound):
		s.logger.WarnContext(ctx, "resource not found", slog.Int64("id", id))
		return notFound(op, id)
	default:
		s.logger.ErrorContext(ctx, "failed to persist resource", slog.Int64("id", id), slog.Any("error", err))
		return persistence(op, err)
	}
}
