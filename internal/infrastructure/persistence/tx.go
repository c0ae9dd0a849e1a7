package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txContextKey struct{}

// GormTxManager implements shared.TxManager on top of gorm transactions.
// The open transaction travels in the context, and repositories pick it up
// through dbFromContext so every call inside WithinTx joins the same one.
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a new GormTxManager
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// WithinTx runs fn inside a single database transaction. Returning an error
// from fn rolls back everything written through the transactional context.
func (m *GormTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// dbFromContext returns the transaction carried by ctx when one is active,
// and fallback bound to ctx otherwise.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
