package repositories

import (
	"context"
	"errors"

	"courrier-registry/internal/core/domain"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager implements Transactor on top of gorm
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Do runs fn in a transaction. Nested calls join the outer transaction.
// Domain errors returned by fn roll back and propagate unchanged.
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	if err == nil {
		return nil
	}
	if _, ok := domain.AsError(err); ok {
		return err
	}
	// begin/commit failures
	return domain.StorageFault("transaction", err)
}

// conn returns the transaction bound to ctx, or db otherwise
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// notFoundOr translates gorm.ErrRecordNotFound to a domain NotFound error
func notFoundOr(err error, entity, key string, value any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(entity, key, value)
	}
	return domain.StorageFault("query "+entity, err)
}
