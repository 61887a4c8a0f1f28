package redis

import (
	"context"

	"github.com/pior/redis/resp"
)

// Set commands. See https://redis.io/commands#set

// SAdd stores members in the set at key, replying with the number added.
func (c *commands) SAdd(ctx context.Context, key string, members ...any) (resp.Value, error) {
	args := append([]any{key}, members...)
	return c.rt.roundTrip(ctx, "SADD", args...)
}

// SRem removes the given members, replying with the number removed.
func (c *commands) SRem(ctx context.Context, key string, members ...string) (resp.Value, error) {
	args := append([]any{key}, stringArgs(members)...)
	return c.rt.roundTrip(ctx, "SREM", args...)
}

// SCard returns the cardinality of the set at key.
func (c *commands) SCard(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "SCARD", key)
}

// SIsMember reports whether member belongs to the set at key.
func (c *commands) SIsMember(ctx context.Context, key string, member any) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "SISMEMBER", key, member)
}

// SMembers returns every member of the set at key.
func (c *commands) SMembers(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "SMEMBERS", key)
}

// SScan fetches one page of the set member cursor.
func (c *commands) SScan(ctx context.Context, key string, cursor []byte, match string, count int64) (resp.Value, error) {
	args := []any{key, cursor}
	if match != "" {
		args = append(args, "MATCH", match)
	}
	if count > 0 {
		args = append(args, "COUNT", count)
	}
	return c.rt.roundTrip(ctx, "SSCAN", args...)
}
