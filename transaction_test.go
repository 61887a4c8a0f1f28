package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pior/redis/resp"
)

func TestOpenTransactionExec(t *testing.T) {
	client, mock := newTestClient(t,
		"+OK\r\n",     // MULTI
		"+QUEUED\r\n", // SET a
		"+QUEUED\r\n", // SET b
		"*2\r\n+OK\r\n+OK\r\n", // EXEC
	)
	ctx := context.Background()

	var execReply resp.Value
	err := client.OpenTransaction(ctx, func(tx *Tx) error {
		if _, err := tx.Multi(ctx); err != nil {
			return err
		}
		queued, err := tx.Set(ctx, "a", "1")
		if err != nil {
			return err
		}
		assert.Equal(t, "QUEUED", queued.Text())
		if _, err := tx.Set(ctx, "b", "2"); err != nil {
			return err
		}
		execReply, err = tx.Exec(ctx)
		return err
	})
	require.NoError(t, err)

	results := execReply.Array()
	require.Len(t, results, 2)
	assert.Equal(t, "OK", results[0].Text())
	assert.Equal(t, "OK", results[1].Text())

	expected := "*1\r\n$5\r\nMULTI\r\n" +
		"*3\r\n$3\r\nSET\r\n$1\r\na\r\n$1\r\n1\r\n" +
		"*3\r\n$3\r\nSET\r\n$1\r\nb\r\n$1\r\n2\r\n" +
		"*1\r\n$4\r\nEXEC\r\n"
	assert.Equal(t, expected, mock.GetWrittenRequest())

	// The pinned connection went back to the pool.
	assert.Equal(t, uint64(0), client.PoolStats().DestroyedConns)
	assert.Equal(t, uint64(1), client.Stats().Transactions)
}

func TestOpenTransactionDiscard(t *testing.T) {
	client, _ := newTestClient(t,
		"+OK\r\n",     // MULTI
		"+QUEUED\r\n", // SET
		"+OK\r\n",     // DISCARD
	)
	ctx := context.Background()

	err := client.OpenTransaction(ctx, func(tx *Tx) error {
		if _, err := tx.Multi(ctx); err != nil {
			return err
		}
		if _, err := tx.Set(ctx, "a", "1"); err != nil {
			return err
		}
		_, err := tx.Discard(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), client.PoolStats().DestroyedConns)
}

func TestOpenTransactionUnmatchedMulti(t *testing.T) {
	client, _ := newTestClient(t, "+OK\r\n") // MULTI, never closed
	ctx := context.Background()

	err := client.OpenTransaction(ctx, func(tx *Tx) error {
		_, err := tx.Multi(ctx)
		return err
	})
	require.ErrorIs(t, err, ErrUnmatchedTransaction)

	// Leaving a MULTI open poisons the connection.
	assert.Equal(t, uint64(1), client.PoolStats().DestroyedConns)
}

func TestOpenTransactionLowercaseMulti(t *testing.T) {
	// The balance tracking matches command names case-insensitively, like
	// the server does.
	client, _ := newTestClient(t, "+OK\r\n")
	ctx := context.Background()

	err := client.OpenTransaction(ctx, func(tx *Tx) error {
		_, err := tx.Do(ctx, "multi")
		return err
	})
	require.ErrorIs(t, err, ErrUnmatchedTransaction)
	assert.Equal(t, uint64(1), client.PoolStats().DestroyedConns)
}

func TestOpenTransactionCallbackErrorWins(t *testing.T) {
	client, _ := newTestClient(t, "+OK\r\n", "-ERR wrong number of arguments\r\n")
	ctx := context.Background()

	err := client.OpenTransaction(ctx, func(tx *Tx) error {
		if _, err := tx.Multi(ctx); err != nil {
			return err
		}
		// The queueing error aborts the callback before EXEC.
		_, err := tx.Do(ctx, "SET")
		return err
	})

	// The callback error is reported, not the unmatched-scope sentinel,
	// and the connection is still destroyed.
	var serverErr *resp.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, uint64(1), client.PoolStats().DestroyedConns)
}

func TestOpenTransactionWatch(t *testing.T) {
	client, mock := newTestClient(t,
		"+OK\r\n", // WATCH
		"+OK\r\n", // MULTI
		"+QUEUED\r\n",
		"*1\r\n+OK\r\n", // EXEC
		"+OK\r\n",       // UNWATCH (no-op after EXEC, still legal)
	)
	ctx := context.Background()

	err := client.OpenTransaction(ctx, func(tx *Tx) error {
		if _, err := tx.Watch(ctx, "balance"); err != nil {
			return err
		}
		if _, err := tx.Multi(ctx); err != nil {
			return err
		}
		if _, err := tx.Set(ctx, "balance", 10); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx); err != nil {
			return err
		}
		_, err := tx.Unwatch(ctx)
		return err
	})
	require.NoError(t, err)

	assert.Contains(t, mock.GetWrittenRequest(), "$5\r\nWATCH\r\n$7\r\nbalance\r\n")
}

func TestOpenTransactionExecAborted(t *testing.T) {
	// A WATCH conflict makes EXEC reply nil: counts still balance.
	client, _ := newTestClient(t,
		"+OK\r\n", // MULTI
		"+QUEUED\r\n",
		"*-1\r\n", // EXEC aborted
	)
	ctx := context.Background()

	err := client.OpenTransaction(ctx, func(tx *Tx) error {
		if _, err := tx.Multi(ctx); err != nil {
			return err
		}
		if _, err := tx.Set(ctx, "a", "1"); err != nil {
			return err
		}
		execReply, err := tx.Exec(ctx)
		if err != nil {
			return err
		}
		assert.True(t, execReply.IsNil())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), client.PoolStats().DestroyedConns)
}

func TestOpenTransactionAcquireError(t *testing.T) {
	client, _ := newTestClient(t)
	client.Close()

	err := client.OpenTransaction(context.Background(), func(tx *Tx) error {
		t.Fatal("callback must not run without a connection")
		return nil
	})
	require.ErrorIs(t, err, ErrPoolClosed)
}

func TestOpenTransactionExecServerErrorClosesBlock(t *testing.T) {
	// EXECABORT is an error reply, but it still terminates the block:
	// the scope is balanced and the connection survives.
	client, _ := newTestClient(t,
		"+OK\r\n",
		"-ERR unknown command 'SETT'\r\n", // queueing rejects the command
		"-EXECABORT Transaction discarded because of previous errors.\r\n",
	)
	ctx := context.Background()

	err := client.OpenTransaction(ctx, func(tx *Tx) error {
		if _, err := tx.Multi(ctx); err != nil {
			return err
		}
		_, _ = tx.Do(ctx, "SETT", "a", "1")
		_, err := tx.Exec(ctx)
		return err
	})

	var serverErr *resp.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, uint64(0), client.PoolStats().DestroyedConns)
}

func TestTxIsSingleConnection(t *testing.T) {
	client, _ := newTestClient(t, "+OK\r\n", "+OK\r\n")
	ctx := context.Background()

	err := client.OpenTransaction(ctx, func(tx *Tx) error {
		// SELECT is safe here: both commands ride the pinned connection.
		if _, err := tx.Select(ctx, 2); err != nil {
			return err
		}
		_, err := tx.Set(ctx, "a", "1")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), client.PoolStats().TotalConns)
}
