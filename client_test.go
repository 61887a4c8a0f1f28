package redis

import (
	"context"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pior/redis/internal/testutils"
	"github.com/pior/redis/resp"
)

// newTestClient builds a client whose single pooled connection reads the
// scripted replies. The injected constructor skips the handshake.
func newTestClient(t *testing.T, replies ...string) (*Client, *testutils.ConnectionMock) {
	t.Helper()

	mock := testutils.NewConnectionMock(replies...)
	client, err := NewClient("127.0.0.1:6379", Config{
		PoolSize: 1,
		constructor: func(ctx context.Context) (*Conn, error) {
			conn := NewConn(mock)
			conn.ready = true
			return conn, nil
		},
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client, mock
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", Config{})
	require.Error(t, err)

	_, err = NewClient("127.0.0.1:6379", Config{PoolSize: -1})
	require.Error(t, err)
}

func TestClientSetGet(t *testing.T) {
	client, mock := newTestClient(t, "+OK\r\n", "$5\r\nvalue\r\n")
	ctx := context.Background()

	value, err := client.Set(ctx, "greeting", "value")
	require.NoError(t, err)
	assert.Equal(t, "OK", value.Text())

	value, err = client.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value.Bytes())

	expected := "*3\r\n$3\r\nSET\r\n$8\r\ngreeting\r\n$5\r\nvalue\r\n" +
		"*2\r\n$3\r\nGET\r\n$8\r\ngreeting\r\n"
	assert.Equal(t, expected, mock.GetWrittenRequest())
}

func TestClientDo(t *testing.T) {
	client, mock := newTestClient(t, ":42\r\n")

	value, err := client.Do(context.Background(), "INCRBY", "counter", 42)
	require.NoError(t, err)

	n, err := value.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	assert.Equal(t, "*3\r\n$6\r\nINCRBY\r\n$7\r\ncounter\r\n$2\r\n42\r\n", mock.GetWrittenRequest())
}

func TestClientGetMiss(t *testing.T) {
	client, _ := newTestClient(t, "$-1\r\n")

	value, err := client.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.True(t, value.IsNil())
}

func TestClientServerErrorKeepsConnection(t *testing.T) {
	client, _ := newTestClient(t, "-ERR value is not an integer\r\n", "+PONG\r\n")
	ctx := context.Background()

	_, err := client.Incr(ctx, "greeting")
	var serverErr *resp.ServerError
	require.ErrorAs(t, err, &serverErr)

	// The connection survived the error reply and serves the next call.
	value, err := client.Ping(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PONG", value.Text())

	stats := client.PoolStats()
	assert.Equal(t, uint64(1), stats.CreatedConns)
	assert.Equal(t, uint64(0), stats.DestroyedConns)
}

func TestClientTransportErrorDestroysConnection(t *testing.T) {
	client, _ := newTestClient(t, "+PONG\r\n") // EOF after the first reply
	ctx := context.Background()

	_, err := client.Ping(ctx)
	require.NoError(t, err)

	_, err = client.Ping(ctx)
	require.ErrorIs(t, err, ErrConnClosed)

	assert.Equal(t, uint64(1), client.PoolStats().DestroyedConns)
}

func TestClientStats(t *testing.T) {
	client, _ := newTestClient(t, "+PONG\r\n", "-ERR nope\r\n")
	ctx := context.Background()

	_, err := client.Ping(ctx)
	require.NoError(t, err)
	_, err = client.Do(ctx, "NOPE")
	require.Error(t, err)

	stats := client.Stats()
	assert.Equal(t, uint64(2), stats.Commands)
	assert.Equal(t, uint64(1), stats.Errors)
}

func TestClientCircuitBreaker(t *testing.T) {
	mock := testutils.NewConnectionMock() // every round trip hits EOF
	client, err := NewClient("127.0.0.1:6379", Config{
		PoolSize:          1,
		NewCircuitBreaker: NewCircuitBreakerConfig(1, time.Minute, time.Minute),
		constructor: func(ctx context.Context) (*Conn, error) {
			conn := NewConn(mock)
			conn.ready = true
			return conn, nil
		},
	})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err = client.Ping(ctx)
		require.ErrorIs(t, err, ErrConnClosed)
	}

	// Three straight failures trip the breaker; the next call is
	// rejected without touching the pool.
	_, err = client.Ping(ctx)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestClientAddr(t *testing.T) {
	client, _ := newTestClient(t)
	assert.Equal(t, "127.0.0.1:6379", client.Addr())
}
