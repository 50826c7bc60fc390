package ports

import "context"

// TxManager runs fn atomically against the transition store: if fn returns an
// error, nothing it wrote through repositories using the passed ctx is kept.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
