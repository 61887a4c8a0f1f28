package redis

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/pior/redis/resp"
)

var (
	// ErrConnClosed is returned when the remote end closed the stream
	// mid-read, or when a round trip is attempted on a closed connection.
	ErrConnClosed = errors.New("redis: connection closed")

	// ErrNotReady is returned when a round trip is attempted before the
	// handshake completed. The connection stays usable; complete the
	// handshake and retry.
	ErrNotReady = errors.New("redis: connection has not completed handshake")
)

// readChunkSize is the receive buffer for the round-trip read loop.
const readChunkSize = 4096

// protocolVersion is the protover argument of the HELLO handshake.
const protocolVersion = 3

// Hello describes the handshake sent once per connection: protocol
// version negotiation plus optional credentials and client name.
type Hello struct {
	Username   string
	Password   string
	ClientName string
}

// args expands to the HELLO argument list:
// [protover, (AUTH, username, password)?, (SETNAME, clientname)?]
func (h Hello) args() []any {
	args := []any{protocolVersion}
	if h.Username != "" {
		args = append(args, "AUTH", h.Username, h.Password)
	}
	if h.ClientName != "" {
		args = append(args, "SETNAME", h.ClientName)
	}
	return args
}

// Conn owns one socket and serializes one command at a time over it.
// A Conn starts unauthenticated; Handshake transitions it to ready, and
// only then does RoundTrip accept commands.
//
// A Conn is handed to one caller at a time by the pool; callers must not
// issue concurrent round trips on the same Conn. The pool enforces
// exclusivity by granting at most one holder, not with extra locking here.
type Conn struct {
	conn net.Conn
	dec  *resp.Decoder

	mu     sync.Mutex
	ready  bool
	broken bool // protocol/transport failure, must not be pooled again
	closed bool // socket has been torn down

	writeBuf []byte
	readBuf  []byte
}

// NewConn wraps an established network connection. The handshake has not
// been performed yet.
func NewConn(netConn net.Conn) *Conn {
	return &Conn{
		conn:    netConn,
		dec:     resp.NewDecoder(),
		readBuf: make([]byte, readChunkSize),
	}
}

// Dial connects to addr and wraps the resulting connection.
func Dial(ctx context.Context, dialer *net.Dialer, addr string) (*Conn, error) {
	if dialer == nil {
		dialer = &net.Dialer{}
	}
	netConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewConn(netConn), nil
}

// Ready reports whether the handshake completed.
func (c *Conn) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// IsClosed reports whether the connection was closed or marked broken.
func (c *Conn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed || c.broken
}

// Handshake sends the HELLO negotiation exactly once and flips the
// connection to ready. Calling it again is a no-op. The server reply is a
// mapping with at least server, version, proto, id, role and modules.
func (c *Conn) Handshake(ctx context.Context, hello Hello) (resp.Value, error) {
	if c.Ready() {
		return resp.Value{}, nil
	}

	reply, err := c.roundTrip(ctx, "HELLO", hello.args()...)
	if err != nil {
		return resp.Value{}, err
	}

	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()
	return reply, nil
}

// RoundTrip sends one command and decodes exactly one reply. It fails
// fast with ErrNotReady before the handshake. Error replies from the
// server are returned as *resp.ServerError.
func (c *Conn) RoundTrip(ctx context.Context, name string, args ...any) (resp.Value, error) {
	if !c.Ready() {
		return resp.Value{}, ErrNotReady
	}
	return c.roundTrip(ctx, name, args...)
}

// roundTrip is the handshake-exempt send/receive cycle.
func (c *Conn) roundTrip(ctx context.Context, name string, args ...any) (resp.Value, error) {
	if err := ctx.Err(); err != nil {
		return resp.Value{}, err
	}
	if c.IsClosed() {
		return resp.Value{}, ErrConnClosed
	}

	packed, err := resp.AppendCommand(c.writeBuf[:0], name, args...)
	if err != nil {
		// Rejected before any byte was written; the connection is clean.
		return resp.Value{}, err
	}
	c.writeBuf = packed

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetDeadline(deadline)
	} else {
		_ = c.conn.SetDeadline(time.Time{})
	}
	// Cancellation without a deadline also has to interrupt a blocked
	// Read/Write: expire the socket deadline the moment the context fires.
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := c.conn.Write(packed); err != nil {
		c.markBroken()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return resp.Value{}, ctxErr
		}
		return resp.Value{}, err
	}

	for {
		value, ok, err := c.dec.TryDecode()
		if err != nil {
			c.markBroken()
			return resp.Value{}, err
		}
		if ok {
			// One full reply extracted: with a single command in flight
			// the decoder must be drained, anything left is a framing bug.
			if c.dec.Buffered() != 0 {
				c.markBroken()
				return resp.Value{}, &resp.ProtocolError{Message: "decoder state not clean after reply"}
			}
			if replyErr := value.Err(); replyErr != nil {
				return resp.Value{}, replyErr
			}
			return value, nil
		}

		n, err := c.conn.Read(c.readBuf)
		if n > 0 {
			c.dec.Feed(c.readBuf[:n])
			continue
		}
		// Zero bytes means the remote closed the stream, never "no reply
		// yet".
		c.markBroken()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return resp.Value{}, ctxErr
		}
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
			return resp.Value{}, err
		}
		return resp.Value{}, ErrConnClosed
	}
}

// markBroken flags the connection as unusable without tearing down the
// socket; Close still runs exactly once later.
func (c *Conn) markBroken() {
	c.mu.Lock()
	c.broken = true
	c.mu.Unlock()
}

type closeWriter interface {
	CloseWrite() error
}

// Close tears the connection down: a best-effort graceful half-close
// (no more writes) followed by a forceful close. Idempotent.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if cw, ok := c.conn.(closeWriter); ok {
		_ = cw.CloseWrite()
	}
	return c.conn.Close()
}

// shouldDestroyConn decides release-vs-destroy after a failed round trip.
// A connection survives only errors that provably left the stream clean:
// a well-framed server error reply, a client-side encode rejection, or the
// not-ready guard. Everything else (transport failures, protocol
// violations, cancellations mid-read) leaves the framing indeterminate and
// the connection must not be pooled again.
func shouldDestroyConn(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotReady) {
		return false
	}
	return resp.ShouldCloseConnection(err)
}
