package redis

import (
	"context"

	"github.com/pior/redis/resp"
)

// String commands. See https://redis.io/commands#string

// Get returns the value of key, or a null reply when the key is missing.
func (c *commands) Get(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "GET", key)
}

// Set stores value at key, replying +OK.
func (c *commands) Set(ctx context.Context, key string, value any) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "SET", key, value)
}

// SetOptions carries the optional modifiers of SET. NX and XX are
// mutually exclusive, as are ExpireSeconds, ExpireMillis and KeepTTL;
// the server rejects conflicting combinations.
type SetOptions struct {
	NX            bool  // only set when the key does not exist
	XX            bool  // only set when the key already exists
	ExpireSeconds int64 // EX
	ExpireMillis  int64 // PX
	KeepTTL       bool  // retain the existing time to live
}

func (o SetOptions) args() []any {
	var args []any
	if o.NX {
		args = append(args, "NX")
	}
	if o.XX {
		args = append(args, "XX")
	}
	if o.ExpireSeconds > 0 {
		args = append(args, "EX", o.ExpireSeconds)
	}
	if o.ExpireMillis > 0 {
		args = append(args, "PX", o.ExpireMillis)
	}
	if o.KeepTTL {
		args = append(args, "KEEPTTL")
	}
	return args
}

// SetWithOptions stores value at key with the given modifiers. A nil
// reply means a NX/XX condition was not met.
func (c *commands) SetWithOptions(ctx context.Context, key string, value any, options SetOptions) (resp.Value, error) {
	args := append([]any{key, value}, options.args()...)
	return c.rt.roundTrip(ctx, "SET", args...)
}

// SetNX stores value only when key does not exist; integer 1 on success.
func (c *commands) SetNX(ctx context.Context, key string, value any) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "SET", key, value, "NX")
}

// SetEX stores value with a time-to-live in seconds.
func (c *commands) SetEX(ctx context.Context, key string, value any, seconds int64) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "SET", key, value, "EX", seconds)
}

// GetDel returns the value of key and deletes the key.
func (c *commands) GetDel(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "GETDEL", key)
}

// Incr increments the integer value at key by one.
func (c *commands) Incr(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "INCR", key)
}

// IncrBy increments the integer value at key by delta.
func (c *commands) IncrBy(ctx context.Context, key string, delta int64) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "INCRBY", key, delta)
}

// Decr decrements the integer value at key by one.
func (c *commands) Decr(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "DECR", key)
}

// DecrBy decrements the integer value at key by delta.
func (c *commands) DecrBy(ctx context.Context, key string, delta int64) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "DECRBY", key, delta)
}

// MGet returns the values of all given keys, null for each missing key.
func (c *commands) MGet(ctx context.Context, keys ...string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "MGET", stringArgs(keys)...)
}

// MSet sets the given key/value pairs atomically. pairs alternates
// key, value, key, value...
func (c *commands) MSet(ctx context.Context, pairs ...any) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "MSET", pairs...)
}

// MSetNX sets the given pairs only when none of the keys exist.
func (c *commands) MSetNX(ctx context.Context, pairs ...any) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "MSETNX", pairs...)
}
