package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsDelVariadic(t *testing.T) {
	client, mock := newTestClient(t, ":2\r\n")

	value, err := client.Del(context.Background(), "a", "b")
	require.NoError(t, err)

	n, err := value.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, "*3\r\n$3\r\nDEL\r\n$1\r\na\r\n$1\r\nb\r\n", mock.GetWrittenRequest())
}

func TestCommandsHGetAll(t *testing.T) {
	// RESP3 servers answer HGETALL with a map reply.
	client, _ := newTestClient(t, "%2\r\n$4\r\nname\r\n$5\r\nalice\r\n$3\r\nage\r\n$2\r\n30\r\n")

	value, err := client.HGetAll(context.Background(), "user:1")
	require.NoError(t, err)

	m, err := value.AsMap()
	require.NoError(t, err)
	assert.Equal(t, "alice", m["name"].Text())
	assert.Equal(t, "30", m["age"].Text())
}

func TestCommandsZAddFloatScore(t *testing.T) {
	client, mock := newTestClient(t, ":1\r\n")

	_, err := client.ZAdd(context.Background(), "board", 1.5, "alice")
	require.NoError(t, err)

	assert.Equal(t, "*4\r\n$4\r\nZADD\r\n$5\r\nboard\r\n$3\r\n1.5\r\n$5\r\nalice\r\n", mock.GetWrittenRequest())
}

func TestCommandsZRangeWithScores(t *testing.T) {
	client, mock := newTestClient(t, "*2\r\n$5\r\nalice\r\n$3\r\n1.5\r\n")

	value, err := client.ZRange(context.Background(), "board", 0, -1, true)
	require.NoError(t, err)
	assert.Len(t, value.Array(), 2)

	assert.Equal(t,
		"*5\r\n$6\r\nZRANGE\r\n$5\r\nboard\r\n$1\r\n0\r\n$2\r\n-1\r\n$10\r\nWITHSCORES\r\n",
		mock.GetWrittenRequest())
}

func TestCommandsLRange(t *testing.T) {
	client, _ := newTestClient(t, "*2\r\n$1\r\na\r\n$1\r\nb\r\n")

	value, err := client.LRange(context.Background(), "queue", 0, -1)
	require.NoError(t, err)

	items := value.Array()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Text())
	assert.Equal(t, "b", items[1].Text())
}

func TestCommandsSetEX(t *testing.T) {
	client, mock := newTestClient(t, "+OK\r\n")

	_, err := client.SetEX(context.Background(), "session", "tok", 60)
	require.NoError(t, err)

	assert.Equal(t,
		"*5\r\n$3\r\nSET\r\n$7\r\nsession\r\n$3\r\ntok\r\n$2\r\nEX\r\n$2\r\n60\r\n",
		mock.GetWrittenRequest())
}
