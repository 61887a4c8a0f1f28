package redis

import (
	"context"
	"errors"
	"time"
)

// ErrPoolClosed is returned by Acquire after the pool has been shut down.
var ErrPoolClosed = errors.New("redis: pool closed")

// ConnConstructor creates one ready-to-use connection. Pool
// implementations call it lazily; the constructor must complete the
// handshake before returning.
type ConnConstructor func(ctx context.Context) (*Conn, error)

// Pool bounds the number of live connections and arbitrates acquisition.
type Pool interface {
	// Acquire returns a connection resource, blocking while the pool is
	// exhausted. It fails with ErrPoolClosed if the pool was closed
	// before or during the wait, and with ctx.Err() on cancellation.
	Acquire(ctx context.Context) (Resource, error)

	// AcquireAllIdle takes every currently idle connection, for health
	// sweeps. Each returned resource must be released or destroyed.
	AcquireAllIdle() []Resource

	// Stats returns a snapshot of pool counters.
	Stats() PoolStats

	// Close marks the pool closed and destroys all idle connections.
	// Connections still acquired are destroyed when released. Idempotent.
	Close()
}

// Resource is one acquired connection and its return path. Exactly one of
// Release, ReleaseUnused or Destroy must be called once the holder is
// done; calling Release on an already returned resource is a no-op.
type Resource interface {
	Value() *Conn

	// Release returns the connection to the idle set and wakes one
	// waiter, if any.
	Release()

	// ReleaseUnused is Release without refreshing the idle timestamp,
	// for health checks that touched the connection without real work.
	ReleaseUnused()

	// Destroy closes the connection and removes it from the pool.
	Destroy()

	CreationTime() time.Time
	IdleDuration() time.Duration
}

// PoolFactory builds a Pool from a constructor and a size bound. Config
// selects the implementation through this type.
type PoolFactory func(constructor ConnConstructor, maxSize int32) (Pool, error)

// With acquires a connection, runs body, and guarantees the resource is
// returned on every exit path. The connection is destroyed instead of
// released when body failed in a way that leaves the protocol state
// indeterminate.
func With(ctx context.Context, pool Pool, body func(conn *Conn) error) error {
	res, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}

	err = body(res.Value())
	if shouldDestroyConn(err) {
		res.Destroy()
	} else {
		res.Release()
	}
	return err
}
