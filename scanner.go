package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/pior/redis/resp"
)

// ErrIllegalScanState is reported by Err when Next is called on an
// iterator that already terminated. Iterators are single-use.
var ErrIllegalScanState = errors.New("redis: scan iterator already terminated")

// scanFetch retrieves one cursor page: the next cursor and the items of
// the page. A returned cursor of "0" means the sequence is exhausted.
type scanFetch func(ctx context.Context, cursor []byte) (next []byte, items [][]byte, err error)

type scanState int

const (
	scanInit scanState = iota
	scanStarted
	scanStopped
)

// ScanIterator walks a server-side cursor one item at a time, fetching
// pages on demand. Not safe for concurrent use. The guarantee is the
// server's: every item present for the whole traversal is yielded at
// least once; items may repeat across pages.
type ScanIterator struct {
	fetch  scanFetch
	state  scanState
	cursor []byte
	stash  [][]byte
	val    []byte
	err    error
}

func newScanIterator(fetch scanFetch) *ScanIterator {
	return &ScanIterator{fetch: fetch, cursor: []byte("0")}
}

// Next advances the iterator, fetching the next page when the current one
// is drained. It returns false at the end of the sequence or on error;
// check Err to tell the two apart.
func (it *ScanIterator) Next(ctx context.Context) bool {
	if it.state == scanStopped {
		if it.err == nil {
			it.err = ErrIllegalScanState
		}
		return false
	}

	for len(it.stash) == 0 {
		if it.state == scanStarted && string(it.cursor) == "0" {
			it.state = scanStopped
			return false
		}
		next, items, err := it.fetch(ctx, it.cursor)
		if err != nil {
			it.err = err
			it.state = scanStopped
			return false
		}
		it.state = scanStarted
		it.cursor = next
		it.fill(items)
	}

	it.val = it.pop()
	return true
}

// Val returns the item the last successful Next advanced to.
func (it *ScanIterator) Val() []byte {
	return it.val
}

// Err returns the error that terminated the iteration, if any.
func (it *ScanIterator) Err() error {
	return it.err
}

// fill stores the page reversed so pop serves items in page order.
func (it *ScanIterator) fill(items [][]byte) {
	for i := len(items) - 1; i >= 0; i-- {
		it.stash = append(it.stash, items[i])
	}
}

func (it *ScanIterator) pop() []byte {
	v := it.stash[len(it.stash)-1]
	it.stash = it.stash[:len(it.stash)-1]
	return v
}

// ScanPair is one member/score entry yielded by a paired iterator.
type ScanPair struct {
	Member []byte
	Score  float64
}

// ScanPairIterator walks a sorted-set cursor whose pages interleave
// members and scores, yielding them as pairs. Not safe for concurrent use.
type ScanPairIterator struct {
	inner *ScanIterator
	val   ScanPair
}

func newScanPairIterator(fetch scanFetch) *ScanPairIterator {
	return &ScanPairIterator{inner: newScanIterator(fetch)}
}

// Next advances to the next member/score pair.
func (it *ScanPairIterator) Next(ctx context.Context) bool {
	if !it.inner.Next(ctx) {
		return false
	}
	member := it.inner.Val()
	if !it.inner.Next(ctx) {
		// A member without its score means the page stream is corrupt.
		if it.inner.err == nil {
			it.inner.err = &resp.ProtocolError{Message: "scan page holds a member without a score"}
		}
		return false
	}
	score, err := strconv.ParseFloat(string(it.inner.Val()), 64)
	if err != nil {
		it.inner.err = &resp.ProtocolError{Message: "malformed score in scan page", Err: err}
		it.inner.state = scanStopped
		return false
	}
	it.val = ScanPair{Member: member, Score: score}
	return true
}

// Val returns the pair the last successful Next advanced to.
func (it *ScanPairIterator) Val() ScanPair {
	return it.val
}

// Err returns the error that terminated the iteration, if any.
func (it *ScanPairIterator) Err() error {
	return it.inner.Err()
}

// parseScanReply splits a cursor page reply: a two-element array of the
// next cursor and the item list.
func parseScanReply(value resp.Value) (cursor []byte, items [][]byte, err error) {
	page := value.Array()
	if len(page) != 2 {
		return nil, nil, &resp.ProtocolError{Message: "scan reply is not a [cursor, items] pair"}
	}
	cursor = page[0].Bytes()
	if cursor == nil {
		return nil, nil, &resp.ProtocolError{Message: "scan cursor is not a string"}
	}
	if page[1].Kind() != resp.KindArray {
		return nil, nil, &resp.ProtocolError{Message: "scan items are not an array"}
	}
	elems := page[1].Array()
	items = make([][]byte, len(elems))
	for i, e := range elems {
		items[i] = e.Bytes()
		if items[i] == nil {
			return nil, nil, &resp.ProtocolError{Message: "scan item is not a string"}
		}
	}
	return cursor, items, nil
}

// ScanIter iterates the keyspace. match, count and keyType are optional
// (zero values omit the corresponding SCAN option).
func (c *Client) ScanIter(match string, count int64, keyType string) *ScanIterator {
	return newScanIterator(func(ctx context.Context, cursor []byte) ([]byte, [][]byte, error) {
		c.stats.recordScan()
		value, err := c.Scan(ctx, cursor, match, count, keyType)
		if err != nil {
			return nil, nil, err
		}
		return parseScanReply(value)
	})
}

// HScanIter iterates the fields and values of the hash at key,
// interleaved field-then-value.
func (c *Client) HScanIter(key, match string, count int64) *ScanIterator {
	return newScanIterator(func(ctx context.Context, cursor []byte) ([]byte, [][]byte, error) {
		c.stats.recordScan()
		value, err := c.HScan(ctx, key, cursor, match, count)
		if err != nil {
			return nil, nil, err
		}
		return parseScanReply(value)
	})
}

// SScanIter iterates the members of the set at key.
func (c *Client) SScanIter(key, match string, count int64) *ScanIterator {
	return newScanIterator(func(ctx context.Context, cursor []byte) ([]byte, [][]byte, error) {
		c.stats.recordScan()
		value, err := c.SScan(ctx, key, cursor, match, count)
		if err != nil {
			return nil, nil, err
		}
		return parseScanReply(value)
	})
}

// ZScanIter iterates the sorted set at key as raw interleaved
// member/score items. Prefer ZScanPairs for typed access.
func (c *Client) ZScanIter(key, match string, count int64) *ScanIterator {
	return newScanIterator(c.zscanFetch(key, match, count))
}

// ZScanPairs iterates the sorted set at key as member/score pairs.
func (c *Client) ZScanPairs(key, match string, count int64) *ScanPairIterator {
	return newScanPairIterator(c.zscanFetch(key, match, count))
}

func (c *Client) zscanFetch(key, match string, count int64) scanFetch {
	return func(ctx context.Context, cursor []byte) ([]byte, [][]byte, error) {
		c.stats.recordScan()
		value, err := c.ZScan(ctx, key, cursor, match, count)
		if err != nil {
			return nil, nil, err
		}
		return parseScanReply(value)
	}
}
