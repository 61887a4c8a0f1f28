package redis

import (
	"context"

	"github.com/pior/redis/resp"
)

// Hash commands. See https://redis.io/commands#hash

// HSet stores field/value pairs in the hash at key, replying with the
// number of newly created fields.
func (c *commands) HSet(ctx context.Context, key string, fieldValues ...any) (resp.Value, error) {
	args := append([]any{key}, fieldValues...)
	return c.rt.roundTrip(ctx, "HSET", args...)
}

// HSetNX stores field only when it is not already present in the hash.
func (c *commands) HSetNX(ctx context.Context, key, field string, value any) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "HSETNX", key, field, value)
}

// HGet returns the value of field, or nil when absent.
func (c *commands) HGet(ctx context.Context, key, field string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "HGET", key, field)
}

// HMGet returns the values of the given fields, nil for absent ones.
func (c *commands) HMGet(ctx context.Context, key string, fields ...string) (resp.Value, error) {
	args := append([]any{key}, stringArgs(fields)...)
	return c.rt.roundTrip(ctx, "HMGET", args...)
}

// HDel removes the given fields, replying with the number removed.
func (c *commands) HDel(ctx context.Context, key string, fields ...string) (resp.Value, error) {
	args := append([]any{key}, stringArgs(fields)...)
	return c.rt.roundTrip(ctx, "HDEL", args...)
}

// HExists reports whether field exists in the hash at key.
func (c *commands) HExists(ctx context.Context, key, field string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "HEXISTS", key, field)
}

// HGetAll returns every field and value of the hash. Under RESP3 the
// reply is a map; use Value.AsMap to normalize a RESP2 flat array.
func (c *commands) HGetAll(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "HGETALL", key)
}

// HKeys returns the field names of the hash at key.
func (c *commands) HKeys(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "HKEYS", key)
}

// HVals returns the values of the hash at key.
func (c *commands) HVals(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "HVALS", key)
}

// HLen returns the number of fields in the hash at key.
func (c *commands) HLen(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "HLEN", key)
}

// HIncrBy increments the integer value of field by increment.
func (c *commands) HIncrBy(ctx context.Context, key, field string, increment int64) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "HINCRBY", key, field, increment)
}

// HScan fetches one page of the hash field cursor.
func (c *commands) HScan(ctx context.Context, key string, cursor []byte, match string, count int64) (resp.Value, error) {
	args := []any{key, cursor}
	if match != "" {
		args = append(args, "MATCH", match)
	}
	if count > 0 {
		args = append(args, "COUNT", count)
	}
	return c.rt.roundTrip(ctx, "HSCAN", args...)
}
