package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type txContextKey struct{}

// TransactionManager runs units of work inside a single gorm transaction that
// travels through the context. Nested calls join the outer transaction.
type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) *TransactionManager {
	if db == nil {
		return nil
	}
	return &TransactionManager{db: db}
}

// WithinReadOnly starts a read-only transaction and runs fn inside it.
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// WithinReadWrite starts a read-write transaction and runs fn inside it.
// Check-then-insert sequences must lock the rows they depend on (see
// leave.Repository.LockBalance); the default isolation level is kept.
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, &sql.TxOptions{}, fn)
}

func (m *TransactionManager) within(ctx context.Context, opts *sql.TxOptions, fn func(context.Context) error) error {
	if fn == nil {
		return errors.New("store: transaction function is required")
	}

	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx := m.db.WithContext(ctx).Begin(opts)
	if tx.Error != nil {
		return Translate(fmt.Errorf("begin tx: %w", tx.Error))
	}

	finished := false
	defer func() {
		if !finished {
			tx.Rollback()
		}
	}()

	if err := fn(contextWithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("store: rollback: %w", rbErr))
		}
		finished = true
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return Translate(fmt.Errorf("commit: %w", err))
	}

	finished = true
	return nil
}

func contextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext returns the transaction carried by ctx, if any.
func TxFromContext(ctx context.Context) (*gorm.DB, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx, ok
}

// Conn returns the transaction in ctx or fallback, bound to ctx. Repositories
// must route every statement through it so that work joins the caller's
// transaction.
func Conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := TxFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}
