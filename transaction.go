package redis

import (
	"context"
	"errors"
	"strings"

	"github.com/pior/redis/resp"
)

// ErrUnmatchedTransaction is returned by OpenTransaction when the scope
// ends with a MULTI that was never closed by EXEC or DISCARD.
var ErrUnmatchedTransaction = errors.New("redis: transaction left open at end of scope")

// Tx is a transaction scope pinned to a single connection. Every command
// issued through it travels on that connection, so MULTI/EXEC, WATCH and
// SELECT behave as they would on a raw connection. Only valid inside the
// OpenTransaction callback; not safe for concurrent use.
type Tx struct {
	commands

	conn       *Conn
	multiCount int
	execCount  int
}

// OpenTransaction pins a pooled connection and runs fn against it. When
// fn returns, every MULTI must have been closed by EXEC or DISCARD;
// otherwise the connection is destroyed (its server-side state is
// unknowable) and ErrUnmatchedTransaction is reported.
func (c *Client) OpenTransaction(ctx context.Context, fn func(tx *Tx) error) error {
	c.stats.recordTransaction()

	res, err := c.pool.Acquire(ctx)
	if err != nil {
		c.stats.recordError()
		return err
	}

	tx := &Tx{conn: res.Value()}
	tx.commands.rt = tx

	err = fn(tx)

	if tx.multiCount != tx.execCount {
		res.Destroy()
		c.stats.recordError()
		if err != nil {
			return err
		}
		return ErrUnmatchedTransaction
	}

	if err != nil {
		c.stats.recordError()
	}
	if shouldDestroyConn(err) {
		res.Destroy()
	} else {
		res.Release()
	}
	return err
}

// Do sends an arbitrary command on the pinned connection.
func (tx *Tx) Do(ctx context.Context, name string, args ...any) (resp.Value, error) {
	return tx.roundTrip(ctx, name, args...)
}

// Multi opens a transaction block. Commands issued until Exec or Discard
// reply +QUEUED.
func (tx *Tx) Multi(ctx context.Context) (resp.Value, error) {
	return tx.roundTrip(ctx, "MULTI")
}

// Exec runs the queued commands atomically, replying with the array of
// their results, or nil when a WATCH aborted the transaction.
func (tx *Tx) Exec(ctx context.Context) (resp.Value, error) {
	return tx.roundTrip(ctx, "EXEC")
}

// Discard flushes the queued commands and closes the transaction block.
func (tx *Tx) Discard(ctx context.Context) (resp.Value, error) {
	return tx.roundTrip(ctx, "DISCARD")
}

// Watch marks keys for optimistic locking ahead of Multi.
func (tx *Tx) Watch(ctx context.Context, keys ...string) (resp.Value, error) {
	return tx.roundTrip(ctx, "WATCH", stringArgs(keys)...)
}

// Unwatch drops every watched key.
func (tx *Tx) Unwatch(ctx context.Context) (resp.Value, error) {
	return tx.roundTrip(ctx, "UNWATCH")
}

// roundTrip implements roundTripper on the pinned connection, tracking
// the transaction block balance. MULTI counts only when it succeeds;
// EXEC and DISCARD also count on a server error, since an error reply
// still closes the block (EXECABORT, empty DISCARD). Command names are
// case-insensitive on the wire, so matching is too.
func (tx *Tx) roundTrip(ctx context.Context, name string, args ...any) (resp.Value, error) {
	value, err := tx.conn.RoundTrip(ctx, name, args...)

	switch strings.ToUpper(name) {
	case "MULTI":
		if err == nil {
			tx.multiCount++
		}
	case "EXEC", "DISCARD":
		var serverErr *resp.ServerError
		if err == nil || errors.As(err, &serverErr) {
			tx.execCount++
		}
	}
	return value, err
}
