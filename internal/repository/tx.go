package repository

import "context"

// TxManager runs fn inside a single store transaction. The transaction is
// carried in the returned context, so repository calls made with that context
// participate in it. fn returning an error rolls everything back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
