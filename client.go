package redis

import (
	"context"
	"fmt"
	"net"

	"github.com/pior/redis/resp"
)

// DefaultPoolSize bounds concurrent physical connections when Config
// leaves PoolSize zero.
const DefaultPoolSize = 20

// Config holds configuration for the client connection pool.
type Config struct {
	// PoolSize is the maximum number of connections in the pool.
	// Zero means DefaultPoolSize; minimum is 1.
	PoolSize int32

	// Hello carries the optional credentials and client name sent in the
	// per-connection handshake.
	Hello Hello

	// Dialer is the net.Dialer used to create new connections.
	// If nil, the default net.Dialer is used.
	Dialer *net.Dialer

	// Pool selects the pool implementation. If nil, the channel-based
	// pool is used.
	Pool PoolFactory

	// NewCircuitBreaker creates a circuit breaker for the server.
	// If nil, no circuit breaker is used.
	NewCircuitBreaker func(serverAddr string) CircuitBreaker

	// for testing purposes only
	constructor ConnConstructor
}

// Client is a pooled RESP client bound to a single host:port. All command
// methods dispatch through the pool: acquire a connection, one round trip,
// release. Safe for concurrent use.
type Client struct {
	commands

	addr           string
	pool           Pool
	circuitBreaker CircuitBreaker // nil if not configured
	stats          *clientStatsCollector
}

// NewClient creates a ready-to-use pooled client for addr ("host:port").
// Connections are created lazily; each one completes the HELLO handshake
// before it is handed out.
func NewClient(addr string, config Config) (*Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis: no server address provided")
	}

	poolSize := config.PoolSize
	if poolSize == 0 {
		poolSize = DefaultPoolSize
	}
	if poolSize < 1 {
		return nil, fmt.Errorf("redis: pool size must be at least 1, got %d", poolSize)
	}

	poolFactory := config.Pool
	if poolFactory == nil {
		poolFactory = NewChannelPool
	}

	constructor := config.constructor
	if constructor == nil {
		dialer := config.Dialer
		hello := config.Hello
		constructor = func(ctx context.Context) (*Conn, error) {
			conn, err := Dial(ctx, dialer, addr)
			if err != nil {
				return nil, err
			}
			if _, err := conn.Handshake(ctx, hello); err != nil {
				_ = conn.Close()
				return nil, err
			}
			return conn, nil
		}
	}

	pool, err := poolFactory(constructor, poolSize)
	if err != nil {
		return nil, err
	}

	client := &Client{
		addr:  addr,
		pool:  pool,
		stats: newClientStatsCollector(),
	}
	if config.NewCircuitBreaker != nil {
		client.circuitBreaker = config.NewCircuitBreaker(addr)
	}
	client.commands.rt = client
	return client, nil
}

// Close shuts the pool down. Idempotent; acquired connections are
// destroyed as they come back.
func (c *Client) Close() {
	c.pool.Close()
}

// Addr returns the server address the client is bound to.
func (c *Client) Addr() string {
	return c.addr
}

// Do sends an arbitrary command through the pool and returns the raw
// decoded reply. Command methods are thin wrappers over this path.
func (c *Client) Do(ctx context.Context, name string, args ...any) (resp.Value, error) {
	return c.roundTrip(ctx, name, args...)
}

// roundTrip implements roundTripper: one pool-mediated request/response
// cycle, optionally wrapped by the circuit breaker.
func (c *Client) roundTrip(ctx context.Context, name string, args ...any) (resp.Value, error) {
	if c.circuitBreaker != nil {
		return c.circuitBreaker.Execute(func() (resp.Value, error) {
			return c.roundTripDirect(ctx, name, args...)
		})
	}
	return c.roundTripDirect(ctx, name, args...)
}

func (c *Client) roundTripDirect(ctx context.Context, name string, args ...any) (resp.Value, error) {
	c.stats.recordCommand()

	res, err := c.pool.Acquire(ctx)
	if err != nil {
		c.stats.recordError()
		return resp.Value{}, err
	}

	value, err := res.Value().RoundTrip(ctx, name, args...)
	if err != nil {
		c.stats.recordError()
		if shouldDestroyConn(err) {
			res.Destroy()
		} else {
			res.Release()
		}
		return resp.Value{}, err
	}

	res.Release()
	return value, nil
}

// Stats returns a snapshot of client operation counters.
func (c *Client) Stats() ClientStats {
	return c.stats.snapshot()
}

// PoolStats returns a snapshot of the underlying pool counters.
func (c *Client) PoolStats() PoolStats {
	return c.pool.Stats()
}
