package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
)

type txnCtxKey struct{}

// TxnFromCtx returns the read-write transaction stored by RunInTx, if any.
func TxnFromCtx(ctx context.Context) (*badger.Txn, bool) {
	txn, ok := ctx.Value(txnCtxKey{}).(*badger.Txn)
	return txn, ok
}

// TxManager runs callbacks inside a single read-write BadgerDB transaction.
type TxManager struct {
	db *DB
}

func NewTxManager(db *DB) *TxManager {
	return &TxManager{db: db}
}

// RunInTx commits when fn returns nil and discards the transaction on
// error or panic. Commit conflicts surface as badger.ErrConflict.
// A nested call reuses the outer transaction.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := TxnFromCtx(ctx); ok {
		return fn(ctx)
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return fn(context.WithValue(ctx, txnCtxKey{}, txn))
	})
}

// View runs fn with the context transaction when present, otherwise in a
// fresh read-only transaction.
func (m *TxManager) View(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if txn, ok := TxnFromCtx(ctx); ok {
		return fn(txn)
	}
	return m.db.View(fn)
}

// Update runs fn with the context transaction when present, otherwise in a
// fresh read-write transaction committed on return.
func (m *TxManager) Update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if txn, ok := TxnFromCtx(ctx); ok {
		return fn(txn)
	}
	return m.db.Update(fn)
}
