package resource

import "context"

// Entity は永続化形状のレコードが満たす制約です。
type Entity interface {
	RecordID() int64
	RecordVersion() int64
}

// Mapper は永続化形状とリソース形状の相互変換です。検証や I/O は行いません。
type Mapper[E Entity, R any] interface {
	ToResource(e E) R
	// ToEntity は id を持つ永続化形状へ変換します。リソース側の id は使いません。
	ToEntity(id int64, r R) E
	// Diff は before から after への書き込み可能カラムの差分を返します。
	Diff(before, after E) Changes
}

// Store は単一エンティティ型の永続化の抽象です。
//
// 実装は該当レコードが無い場合に ErrNotFound を、前提とした状態が失われていた場合に
// ErrConcurrencyConflict を (必要ならラップして) 返します。
type Store[E Entity] interface {
	List(ctx context.Context) ([]E, error)
	FindByID(ctx context.Context, id int64) (E, error)
	Create(ctx context.Context, e E) (E, error)
	// Replace は e.RecordID() の行の書き込み可能カラムをすべて上書きします。
	Replace(ctx context.Context, e E) error
	// Update は version が一致する場合に限り changes のカラムだけを更新します。
	Update(ctx context.Context, id, version int64, changes Changes) error
	Delete(ctx context.Context, id int64) error
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}
