package redis

import (
	"context"

	"github.com/pior/redis/resp"
)

// Server commands. See https://redis.io/commands#server

// DBSize returns the number of keys in the selected database.
func (c *commands) DBSize(ctx context.Context) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "DBSIZE")
}

// FlushDB removes every key from the selected database.
func (c *commands) FlushDB(ctx context.Context) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "FLUSHDB")
}

// FlushAll removes every key from every database.
func (c *commands) FlushAll(ctx context.Context) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "FLUSHALL")
}

// Info returns the server status report, optionally restricted to the
// given sections.
func (c *commands) Info(ctx context.Context, sections ...string) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "INFO", stringArgs(sections)...)
}

// LastSave returns the Unix timestamp of the last successful save.
func (c *commands) LastSave(ctx context.Context) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "LASTSAVE")
}

// Time returns the server time as [seconds, microseconds].
func (c *commands) Time(ctx context.Context) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "TIME")
}

// BgSave starts a background save of the dataset.
func (c *commands) BgSave(ctx context.Context) (resp.Value, error) {
	return c.rt.roundTrip(ctx, "BGSAVE")
}
