package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// withTx binds tx to ctx so repositories called inside TxManager.RunInTx
// join the transaction.
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// conn returns the transaction bound to ctx, or base scoped to ctx.
func conn(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return base.WithContext(ctx)
}
