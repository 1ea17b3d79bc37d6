package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type transactionContextKey struct{}

var txContextKey = transactionContextKey{}

// TransactionManager は gorm を用いたトランザクション制御を提供します。
type TransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager は TransactionManager を生成します。
func NewTransactionManager(db *gorm.DB) *TransactionManager {
	if db == nil {
		return nil
	}
	return &TransactionManager{db: db}
}

// WithinReadOnly は fn をトランザクション内で実行します。SQLite では読み書きと同じ扱いです。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return m.within(ctx, fn)
}

// WithinReadWrite は fn をトランザクション内で実行します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return m.within(ctx, fn)
}

func (m *TransactionManager) within(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("sqlite: transaction function is required")
	}
	if m == nil {
		return fn(ctx)
	}
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey, tx))
	})
}

func txFromContext(ctx context.Context) (*gorm.DB, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txContextKey).(*gorm.DB)
	return tx, ok
}

// DBFromContext はコンテキスト内のトランザクションを返します。無ければ fallback を返します。
func DBFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}

// Pinger は gorm.DB の疎通確認を行います。
type Pinger struct {
	db *gorm.DB
}

// NewPinger は Pinger を生成します。
func NewPinger(db *gorm.DB) *Pinger {
	return &Pinger{db: db}
}

func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
