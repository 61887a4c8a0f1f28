package redis

import (
	"context"

	"github.com/pior/redis/resp"
)

// Sorted-set commands. See https://redis.io/commands#sorted-set

// ZAdd stores score/member pairs in the sorted set at key. Arguments
// alternate score then member, matching the wire order.
func (c *commands) ZAdd(ctx context.Context, key string, scoreMembers ...any) (resp.Value, error) {
	args := append([]any{key}, scoreMembers...)
	return c.rt.roundTrip(ctx, "ZADD", args...)
}

// ZCard returns the cardinality of the sorted set at key.
func (c *commands) ZCard(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "ZCARD", key)
}

// ZScore returns the score of member, or nil when absent.
func (c *commands) ZScore(ctx context.Context, key, member string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "ZSCORE", key, member)
}

// ZRank returns the 0-based rank of member ordered by ascending score.
func (c *commands) ZRank(ctx context.Context, key, member string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "ZRANK", key, member)
}

// ZRange returns the members between start and stop inclusive,
// with their scores when withScores is set.
func (c *commands) ZRange(ctx context.Context, key string, start, stop int64, withScores bool) (resp.Value, error) {
	args := []any{key, start, stop}
	if withScores {
		args = append(args, "WITHSCORES")
	}
	return c.rt.roundTrip(ctx, "ZRANGE", args...)
}

// ZRem removes the given members, replying with the number removed.
func (c *commands) ZRem(ctx context.Context, key string, members ...string) (resp.Value, error) {
	args := append([]any{key}, stringArgs(members)...)
	return c.rt.roundTrip(ctx, "ZREM", args...)
}

// ZRemRangeByRank removes the members between the given ranks.
func (c *commands) ZRemRangeByRank(ctx context.Context, key string, start, stop int64) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "ZREMRANGEBYRANK", key, start, stop)
}

// ZRemRangeByScore removes the members whose score falls in the given
// range. min and max are range specifiers ("-inf", "(1.5", "10", ...).
func (c *commands) ZRemRangeByScore(ctx context.Context, key, min, max string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "ZREMRANGEBYSCORE", key, min, max)
}

// ZPopMin removes and returns up to count members with the lowest scores.
func (c *commands) ZPopMin(ctx context.Context, key string, count int64) (resp.Value, error) {
	if count > 0 {
		return c.rt.roundTrip(ctx, "ZPOPMIN", key, count)
	}
	return c.rt.roundTrip(ctx, "ZPOPMIN", key)
}

// ZPopMax removes and returns up to count members with the highest scores.
func (c *commands) ZPopMax(ctx context.Context, key string, count int64) (resp.Value, error) {
	if count > 0 {
		return c.rt.roundTrip(ctx, "ZPOPMAX", key, count)
	}
	return c.rt.roundTrip(ctx, "ZPOPMAX", key)
}

// ZScan fetches one page of the sorted-set cursor. Each yielded item
// is a member followed by its score.
func (c *commands) ZScan(ctx context.Context, key string, cursor []byte, match string, count int64) (resp.Value, error) {
	args := []any{key, cursor}
	if match != "" {
		args = append(args, "MATCH", match)
	}
	if count > 0 {
		args = append(args, "COUNT", count)
	}
	return c.rt.roundTrip(ctx, "ZSCAN", args...)
}
