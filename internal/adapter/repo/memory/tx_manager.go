package memory

import "context"

type txKey struct{}

// TxManager serializes transactions on a Store and restores the store when fn
// fails. Nested calls join the outer transaction.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) == t.store {
		return fn(ctx)
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, t.store)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}
