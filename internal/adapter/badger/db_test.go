package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/bugtracker/internal/config"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(InMemoryConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_InMemory(t *testing.T) {
	t.Parallel()

	db := openTest(t)
	require.NoError(t, db.Ping(context.Background()))

	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("k"), []byte("v"))
	}))
	require.NoError(t, db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("k"))
		require.NoError(t, err)
		return item.Value(func(val []byte) error {
			assert.Equal(t, []byte("v"), val)
			return nil
		})
	}))
}

func TestOpen_PersistentRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open(config.BadgerConfig{}, nil)
	require.Error(t, err)
}

func TestOpen_OnDiskWithGC(t *testing.T) {
	t.Parallel()

	db, err := Open(config.BadgerConfig{Path: t.TempDir(), GCInterval: 10 * time.Millisecond, GCDiscardRatio: 0.5}, nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.NoError(t, db.Close(), "second close must be a no-op")
}

func TestPing_Closed(t *testing.T) {
	t.Parallel()

	db, err := Open(InMemoryConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	assert.ErrorIs(t, db.Ping(context.Background()), ErrClosed)
}

func TestRunInTx_CommitAndDiscard(t *testing.T) {
	t.Parallel()

	db := openTest(t)
	tm := NewTxManager(db)
	ctx := context.Background()

	require.NoError(t, tm.RunInTx(ctx, func(ctx context.Context) error {
		return tm.Update(ctx, func(txn *badger.Txn) error {
			return txn.Set([]byte("committed"), []byte("1"))
		})
	}))

	sentinel := errors.New("abort")
	err := tm.RunInTx(ctx, func(ctx context.Context) error {
		if err := tm.Update(ctx, func(txn *badger.Txn) error {
			return txn.Set([]byte("discarded"), []byte("1"))
		}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	require.NoError(t, tm.View(ctx, func(txn *badger.Txn) error {
		_, err := txn.Get([]byte("committed"))
		require.NoError(t, err)
		_, err = txn.Get([]byte("discarded"))
		assert.ErrorIs(t, err, badger.ErrKeyNotFound)
		return nil
	}))
}

func TestRunInTx_SharesTransaction(t *testing.T) {
	t.Parallel()

	db := openTest(t)
	tm := NewTxManager(db)

	require.NoError(t, tm.RunInTx(context.Background(), func(ctx context.Context) error {
		outer, ok := TxnFromCtx(ctx)
		require.True(t, ok)
		return tm.RunInTx(ctx, func(ctx context.Context) error {
			inner, _ := TxnFromCtx(ctx)
			assert.Same(t, outer, inner)
			return nil
		})
	}))
}
