package redis

import (
	"context"

	"github.com/pior/redis/resp"
)

// List commands. See https://redis.io/commands#list

// LPush prepends values to the list at key, replying with the new length.
func (c *commands) LPush(ctx context.Context, key string, values ...any) (resp.Value, error) {
	args := append([]any{key}, values...)
	return c.rt.roundTrip(ctx, "LPUSH", args...)
}

// RPush appends values to the list at key, replying with the new length.
func (c *commands) RPush(ctx context.Context, key string, values ...any) (resp.Value, error) {
	args := append([]any{key}, values...)
	return c.rt.roundTrip(ctx, "RPUSH", args...)
}

// LPop removes and returns the first element, or nil on an empty key.
func (c *commands) LPop(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "LPOP", key)
}

// RPop removes and returns the last element, or nil on an empty key.
func (c *commands) RPop(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "RPOP", key)
}

// LLen returns the length of the list at key.
func (c *commands) LLen(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "LLEN", key)
}

// LRange returns the elements between start and stop inclusive.
// Negative offsets count from the tail.
func (c *commands) LRange(ctx context.Context, key string, start, stop int64) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "LRANGE", key, start, stop)
}

// LTrim trims the list so only elements between start and stop remain.
func (c *commands) LTrim(ctx context.Context, key string, start, stop int64) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "LTRIM", key, start, stop)
}

// LMove atomically moves an element between lists. whereFrom and
// whereTo are "LEFT" or "RIGHT".
func (c *commands) LMove(ctx context.Context, source, destination, whereFrom, whereTo string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "LMOVE", source, destination, whereFrom, whereTo)
}
