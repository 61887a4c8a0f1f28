package redis

import (
	"context"
	"sync"
	"time"
)

// NewChannelPool creates the default connection pool, built on a buffered
// channel of idle connections. The channel doubles as the wait-for-release
// condition: a release hands the connection to exactly one blocked waiter,
// and a waiter cancelled mid-wait simply stops receiving, so no wakeup is
// ever lost. Destroys free capacity rather than hand over a connection, so
// waiters are also woken when a slot opens and retry the create path.
func NewChannelPool(constructor ConnConstructor, maxSize int32) (Pool, error) {
	return &channelPool{
		constructor: constructor,
		maxSize:     maxSize,
		idle:        make(chan *channelResource, maxSize),
		freed:       make(chan struct{}, maxSize),
		done:        make(chan struct{}),
		stats:       newPoolStatsCollector(),
	}, nil
}

type channelPool struct {
	constructor ConnConstructor
	maxSize     int32
	stats       *poolStatsCollector

	mu     sync.Mutex
	idle   chan *channelResource
	freed  chan struct{} // one token per destroyed-connection slot
	size   int32         // connections owned: idle + acquired
	closed bool
	done   chan struct{}
}

func (p *channelPool) Acquire(ctx context.Context) (Resource, error) {
	p.stats.recordAcquire()

	var waitStart time.Time
	for {
		// Fast path: any idle connection, no ordering guarantee.
		select {
		case res := <-p.idle:
			if !waitStart.IsZero() {
				p.stats.recordAcquireWait(time.Since(waitStart))
			}
			res.taken()
			p.stats.recordAcquireFromIdle()
			return res, nil
		default:
		}

		// Under the bound: create one lazily, constructing outside the lock.
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			p.stats.recordAcquireError()
			return nil, ErrPoolClosed
		}
		if p.size < p.maxSize {
			p.size++
			p.mu.Unlock()

			conn, err := p.constructor(ctx)
			if err != nil {
				p.freeSlot()
				p.stats.recordAcquireError()
				return nil, err
			}

			if !waitStart.IsZero() {
				p.stats.recordAcquireWait(time.Since(waitStart))
			}
			p.stats.recordCreate()
			p.stats.recordActivate()
			now := time.Now()
			return &channelResource{
				conn:         conn,
				pool:         p,
				creationTime: now,
				lastUsedTime: now,
			}, nil
		}
		p.mu.Unlock()

		// Exhausted: block until a release hands us a connection, a
		// destroy frees a slot (retry the create path), the pool closes,
		// or the caller gives up.
		if waitStart.IsZero() {
			waitStart = time.Now()
		}
		select {
		case res := <-p.idle:
			p.stats.recordAcquireWait(time.Since(waitStart))
			res.taken()
			p.stats.recordAcquireFromIdle()
			return res, nil
		case <-p.freed:
			// Capacity opened up; loop to create. A stale token just
			// means another waiter got there first and we block again.
		case <-p.done:
			p.stats.recordAcquireError()
			return nil, ErrPoolClosed
		case <-ctx.Done():
			p.stats.recordAcquireError()
			return nil, ctx.Err()
		}
	}
}

// put returns a resource to the idle set, destroying it instead when the
// pool is closed or the connection is no longer usable.
func (p *channelPool) put(res *channelResource) {
	p.mu.Lock()
	if p.closed || res.conn.IsClosed() {
		p.size--
		p.mu.Unlock()
		_ = res.conn.Close()
		p.stats.recordDestroy()
		p.stats.recordDeactivate()
		p.signalFreed()
		return
	}

	select {
	case p.idle <- res:
		p.stats.recordRelease()
		p.mu.Unlock()
	default:
		// Cannot happen while size <= maxSize; treated as a double
		// release that slipped the resource guard.
		p.size--
		p.mu.Unlock()
		_ = res.conn.Close()
		p.stats.recordDestroy()
		p.stats.recordDeactivate()
		p.signalFreed()
	}
}

func (p *channelPool) removeResource() {
	p.freeSlot()
	p.stats.recordDestroy()
	p.stats.recordDeactivate()
}

// freeSlot returns one unit of capacity and wakes a waiter blocked on it.
func (p *channelPool) freeSlot() {
	p.mu.Lock()
	p.size--
	p.mu.Unlock()
	p.signalFreed()
}

// signalFreed wakes one waiter so it can retry the create path. The freed
// channel holds maxSize tokens, one per possible open slot, so a dropped
// send only ever happens when enough wakeups are already pending to fill
// the whole pool.
func (p *channelPool) signalFreed() {
	select {
	case p.freed <- struct{}{}:
	default:
	}
}

func (p *channelPool) AcquireAllIdle() []Resource {
	var resources []Resource
	for {
		select {
		case res := <-p.idle:
			res.taken()
			p.stats.recordAcquireFromIdle()
			resources = append(resources, res)
		default:
			return resources
		}
	}
}

func (p *channelPool) Stats() PoolStats {
	return p.stats.snapshot()
}

// Close marks the pool closed and destroys every idle connection.
// Connections still acquired are destroyed by their eventual release; the
// pool must never track more idle connections than it owns.
func (p *channelPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()

	drained := int32(0)
	for {
		select {
		case res := <-p.idle:
			_ = res.conn.Close()
			p.stats.recordDestroy()
			p.stats.recordDeidle()
			drained++
		default:
			p.mu.Lock()
			p.size -= drained
			if p.size < 0 {
				panic("redis: pool idle set held connections it does not own")
			}
			p.mu.Unlock()
			return
		}
	}
}

// channelResource implements Resource for the channel pool.
type channelResource struct {
	conn         *Conn
	pool         *channelPool
	creationTime time.Time

	mu           sync.Mutex
	lastUsedTime time.Time
	returned     bool // currently idle or destroyed
}

func (r *channelResource) Value() *Conn {
	return r.conn
}

// taken flips the resource back to acquired after it was received from
// the idle channel.
func (r *channelResource) taken() {
	r.mu.Lock()
	r.returned = false
	r.mu.Unlock()
}

// enterReturned marks the resource as returned, reporting false when it
// already was. Guards against double release.
func (r *channelResource) enterReturned() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.returned {
		return false
	}
	r.returned = true
	return true
}

func (r *channelResource) Release() {
	if !r.enterReturned() {
		return
	}
	r.mu.Lock()
	r.lastUsedTime = time.Now()
	r.mu.Unlock()
	r.pool.put(r)
}

func (r *channelResource) ReleaseUnused() {
	if !r.enterReturned() {
		return
	}
	r.pool.put(r)
}

func (r *channelResource) Destroy() {
	if !r.enterReturned() {
		return
	}
	_ = r.conn.Close()
	r.pool.removeResource()
}

func (r *channelResource) CreationTime() time.Time {
	return r.creationTime
}

func (r *channelResource) IdleDuration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Since(r.lastUsedTime)
}
