package redis

import (
	"context"

	"github.com/pior/redis/resp"
)

// roundTripper is the single capability behind the whole command surface:
// one request/response cycle. The Client implements it with a
// pool-mediated round trip, Tx with a pinned connection.
type roundTripper interface {
	roundTrip(ctx context.Context, name string, args ...any) (resp.Value, error)
}

// commands is the mechanical mapping from method calls to wire commands.
// Every method builds (opcode, args...) and returns the raw decoded reply;
// interpretation is left to the caller, which keeps the surface usable
// both for direct calls and for +QUEUED replies inside a transaction.
type commands struct {
	rt roundTripper
}

// --- connection ---

// Ping returns +PONG, or echoes the optional message.
func (c *commands) Ping(ctx context.Context) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "PING")
}

// Echo returns the message unchanged.
func (c *commands) Echo(ctx context.Context, message string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "ECHO", message)
}

// Select switches the connection to the logical database at index.
// Note: with a pool, the selected database only applies to the connection
// that served this call. Use it inside a transaction scope where the
// connection is pinned.
func (c *commands) Select(ctx context.Context, index int) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "SELECT", index)
}

// Quit asks the server to close the connection once pending replies are
// written.
func (c *commands) Quit(ctx context.Context) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "QUIT")
}

// Reset performs a full reset of the connection's server-side context.
func (c *commands) Reset(ctx context.Context) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "RESET")
}
