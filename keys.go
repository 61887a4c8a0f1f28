package redis

import (
	"context"

	"github.com/pior/redis/resp"
)

// Generic key commands. See https://redis.io/commands#generic

// Del removes the given keys, replying with the number deleted.
func (c *commands) Del(ctx context.Context, keys ...string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "DEL", stringArgs(keys)...)
}

// Unlink removes the given keys, reclaiming memory asynchronously.
func (c *commands) Unlink(ctx context.Context, keys ...string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "UNLINK", stringArgs(keys)...)
}

// Exists reports how many of the given keys exist (duplicates counted).
func (c *commands) Exists(ctx context.Context, keys ...string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "EXISTS", stringArgs(keys)...)
}

// Expire sets a timeout in seconds on key; integer 1 when set.
func (c *commands) Expire(ctx context.Context, key string, seconds int64) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "EXPIRE", key, seconds)
}

// ExpireAt sets an absolute Unix-timestamp expiry on key.
func (c *commands) ExpireAt(ctx context.Context, key string, timestamp int64) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "EXPIREAT", key, timestamp)
}

// TTL returns the remaining time to live in seconds, -1 without expiry,
// -2 when the key does not exist.
func (c *commands) TTL(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "TTL", key)
}

// Persist removes the timeout from key.
func (c *commands) Persist(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "PERSIST", key)
}

// Type returns the storage type of the value at key.
func (c *commands) Type(ctx context.Context, key string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "TYPE", key)
}

// Rename renames key to newkey, overwriting newkey if present.
func (c *commands) Rename(ctx context.Context, key, newkey string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "RENAME", key, newkey)
}

// RenameNX renames key to newkey only when newkey does not exist.
func (c *commands) RenameNX(ctx context.Context, key, newkey string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "RENAMENX", key, newkey)
}

// RandomKey returns a random key from the selected database.
func (c *commands) RandomKey(ctx context.Context) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "RANDOMKEY")
}

// Scan fetches one page of the keyspace cursor. Use ScanIter for the
// stateful iteration.
func (c *commands) Scan(ctx context.Context, cursor []byte, match string, count int64, keyType string) (resp.Value, error) {
	args := []any{cursor}
	if match != "" {
		args = append(args, "MATCH", match)
	}
	if count > 0 {
		args = append(args, "COUNT", count)
	}
	if keyType != "" {
		args = append(args, "TYPE", keyType)
	}
	return c.rt.roundTrip(ctx, "SCAN", args...)
}

func stringArgs(keys []string) []any {
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	return args
}
