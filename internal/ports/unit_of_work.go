package ports

import "context"

// Tx is an opaque transaction handle for the persistence adapters.
// Infrastructure controls the concrete type (for example, *gorm.DB).
type Tx interface{}

// UnitOfWork defines a transaction boundary, used where several writes must
// land together — a POS export's checks, or a schedule header with its
// assignments.
//
// Callback-style: returning an error rolls back, returning nil commits.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// WithTxContext stores a transaction handle in context so repositories
// called inside the boundary join the same transaction.
func WithTxContext(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext reads a transaction handle from context; nil outside a
// boundary.
func TxFromContext(ctx context.Context) Tx {
	return ctx.Value(txKey{})
}
