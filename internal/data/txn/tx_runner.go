package txn

import (
	"context"

	"gorm.io/gorm"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
)

// TxRunner is the single transaction boundary for writes. A non-nil error
// from fn rolls the transaction back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return errs.NewError(errs.CodeInternal, "txn.InTx", "transaction runner has nil db", nil)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
