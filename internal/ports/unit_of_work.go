package ports

import "context"

// Tx is an opaque transaction handle; the persistence adapter decides the
// concrete type.
type Tx interface{}

// UnitOfWork runs fn in one transaction. A non-nil error rolls back.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

func WithTxContext(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns nil outside a transaction.
func TxFromContext(ctx context.Context) Tx {
	return ctx.Value(txKey{})
}
