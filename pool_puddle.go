package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/puddle/v2"
)

// NewPuddlePool creates a connection pool backed by jackc/puddle's generic
// resource pool. Same contract as the channel pool; useful when the
// surrounding application already standardizes on puddle semantics.
func NewPuddlePool(constructor ConnConstructor, maxSize int32) (Pool, error) {
	p := &puddlePool{}

	poolConfig := &puddle.Config[*Conn]{
		Constructor: func(ctx context.Context) (*Conn, error) {
			conn, err := constructor(ctx)
			if err == nil {
				p.createdConns.Add(1)
			}
			return conn, err
		},
		Destructor: func(c *Conn) {
			p.destroyedConns.Add(1)
			_ = c.Close()
		},
		MaxSize: maxSize,
	}

	pool, err := puddle.NewPool(poolConfig)
	if err != nil {
		return nil, err
	}
	p.pool = pool
	return p, nil
}

// puddlePool wraps puddle.Pool to implement the Pool interface.
type puddlePool struct {
	pool           *puddle.Pool[*Conn]
	closed         atomic.Bool
	createdConns   atomic.Int64
	destroyedConns atomic.Int64
}

func (p *puddlePool) Acquire(ctx context.Context) (Resource, error) {
	if p.closed.Load() {
		return nil, ErrPoolClosed
	}
	res, err := p.pool.Acquire(ctx)
	if err != nil {
		if errors.Is(err, puddle.ErrClosedPool) {
			return nil, ErrPoolClosed
		}
		return nil, err
	}
	return &puddleResource{res: res}, nil
}

func (p *puddlePool) AcquireAllIdle() []Resource {
	puddleResources := p.pool.AcquireAllIdle()
	resources := make([]Resource, len(puddleResources))
	for i, res := range puddleResources {
		resources[i] = &puddleResource{res: res}
	}
	return resources
}

// Close marks the pool closed immediately. puddle's own Close blocks
// until every acquired resource is returned, which conflicts with the
// Pool contract, so it runs in the background: waiters are woken with
// ErrClosedPool right away and stragglers are destroyed as they release.
func (p *puddlePool) Close() {
	if p.closed.Swap(true) {
		return
	}
	go p.pool.Close()
}

// Stats converts puddle's counters to PoolStats.
func (p *puddlePool) Stats() PoolStats {
	s := p.pool.Stat()

	return PoolStats{
		TotalConns:        s.TotalResources(),
		IdleConns:         s.IdleResources(),
		ActiveConns:       s.AcquiredResources(),
		AcquireCount:      uint64(s.AcquireCount()),
		AcquireWaitCount:  uint64(s.EmptyAcquireCount()),
		CreatedConns:      uint64(p.createdConns.Load()),
		DestroyedConns:    uint64(p.destroyedConns.Load()),
		AcquireErrors:     uint64(s.CanceledAcquireCount()),
		AcquireWaitTimeNs: uint64(s.EmptyAcquireWaitTime().Nanoseconds()),
	}
}

// puddleResource adds the double-return guard on top of puddle's resource:
// puddle panics on a second Release, this pool treats it as a no-op.
type puddleResource struct {
	res *puddle.Resource[*Conn]

	mu       sync.Mutex
	returned bool
}

func (r *puddleResource) enterReturned() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.returned {
		return false
	}
	r.returned = true
	return true
}

func (r *puddleResource) Value() *Conn {
	return r.res.Value()
}

func (r *puddleResource) Release() {
	if !r.enterReturned() {
		return
	}
	if r.res.Value().IsClosed() {
		r.res.Destroy()
		return
	}
	r.res.Release()
}

func (r *puddleResource) ReleaseUnused() {
	if !r.enterReturned() {
		return
	}
	if r.res.Value().IsClosed() {
		r.res.Destroy()
		return
	}
	r.res.ReleaseUnused()
}

func (r *puddleResource) Destroy() {
	if !r.enterReturned() {
		return
	}
	r.res.Destroy()
}

func (r *puddleResource) CreationTime() time.Time {
	return r.res.CreationTime()
}

func (r *puddleResource) IdleDuration() time.Duration {
	return r.res.IdleDuration()
}
