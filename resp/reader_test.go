package resp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeOne feeds a full wire image and expects exactly one clean reply.
func decodeOne(t *testing.T, wire string) Value {
	t.Helper()

	d := NewDecoder()
	d.Feed([]byte(wire))

	v, ok, err := d.TryDecode()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, d.Buffered())
	return v
}

func TestDecoder_SimpleStatus(t *testing.T) {
	v := decodeOne(t, "+OK\r\n")
	assert.Equal(t, KindStatus, v.Kind())
	assert.Equal(t, "OK", v.Text())
}

func TestDecoder_ErrorReply(t *testing.T) {
	v := decodeOne(t, "-ERR unknown command\r\n")
	assert.Equal(t, KindError, v.Kind())
	require.Error(t, v.Err())
	assert.Equal(t, "ERR unknown command", v.Err().Error())
	assert.False(t, ShouldCloseConnection(v.Err()))
}

func TestDecoder_Integer(t *testing.T) {
	v := decodeOne(t, ":-42\r\n")
	n, err := v.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(-42), n)
}

func TestDecoder_BulkString(t *testing.T) {
	v := decodeOne(t, "$5\r\nhello\r\n")
	assert.Equal(t, KindBulk, v.Kind())
	assert.Equal(t, []byte("hello"), v.Bytes())
}

func TestDecoder_BulkStringBinarySafe(t *testing.T) {
	v := decodeOne(t, "$4\r\na\r\nb\r\n")
	assert.Equal(t, []byte("a\r\nb"), v.Bytes())
}

func TestDecoder_EmptyBulkString(t *testing.T) {
	v := decodeOne(t, "$0\r\n\r\n")
	assert.Equal(t, KindBulk, v.Kind())
	assert.Empty(t, v.Bytes())
	assert.False(t, v.IsNil())
}

func TestDecoder_NullBulk(t *testing.T) {
	assert.True(t, decodeOne(t, "$-1\r\n").IsNil())
}

func TestDecoder_NullArray(t *testing.T) {
	assert.True(t, decodeOne(t, "*-1\r\n").IsNil())
}

func TestDecoder_Resp3Null(t *testing.T) {
	assert.True(t, decodeOne(t, "_\r\n").IsNil())
}

func TestDecoder_Double(t *testing.T) {
	v := decodeOne(t, ",3.25\r\n")
	f, err := v.Float()
	require.NoError(t, err)
	assert.Equal(t, 3.25, f)
}

func TestDecoder_Boolean(t *testing.T) {
	b, err := decodeOne(t, "#t\r\n").Bool()
	require.NoError(t, err)
	assert.True(t, b)

	b, err = decodeOne(t, "#f\r\n").Bool()
	require.NoError(t, err)
	assert.False(t, b)
}

func TestDecoder_Array(t *testing.T) {
	v := decodeOne(t, "*3\r\n$1\r\na\r\n:2\r\n+three\r\n")
	elems := v.Array()
	require.Len(t, elems, 3)
	assert.Equal(t, []byte("a"), elems[0].Bytes())

	n, err := elems[1].Int()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, "three", elems[2].Text())
}

func TestDecoder_NestedArray(t *testing.T) {
	v := decodeOne(t, "*2\r\n*1\r\n$1\r\nx\r\n*0\r\n")
	elems := v.Array()
	require.Len(t, elems, 2)
	require.Len(t, elems[0].Array(), 1)
	assert.Empty(t, elems[1].Array())
}

func TestDecoder_Map(t *testing.T) {
	v := decodeOne(t, "%2\r\n$6\r\nserver\r\n$5\r\nredis\r\n$5\r\nproto\r\n:3\r\n")
	m := v.Map()
	require.Len(t, m, 2)
	assert.Equal(t, "redis", m["server"].Text())

	proto, err := m["proto"].Int()
	require.NoError(t, err)
	assert.Equal(t, int64(3), proto)
}

func TestDecoder_AsMapFromFlatArray(t *testing.T) {
	v := decodeOne(t, "*2\r\n$4\r\nrole\r\n$6\r\nmaster\r\n")
	m, err := v.AsMap()
	require.NoError(t, err)
	assert.Equal(t, "master", m["role"].Text())

	_, err = decodeOne(t, "*1\r\n$4\r\nrole\r\n").AsMap()
	var protoErr *ProtocolError
	assert.ErrorAs(t, err, &protoErr)
}

func TestDecoder_IncrementalFeeds(t *testing.T) {
	wire := "*2\r\n$3\r\nfoo\r\n$3\r\nbar\r\n"

	d := NewDecoder()
	for i := 0; i < len(wire); i++ {
		v, ok, err := d.TryDecode()
		require.NoError(t, err)
		require.False(t, ok, "no reply should surface before byte %d", i)
		assert.Equal(t, Value{}, v)

		d.Feed([]byte{wire[i]})
	}

	v, ok, err := d.TryDecode()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, v.Array(), 2)
	assert.Zero(t, d.Buffered())
}

func TestDecoder_LeavesFollowingBytesBuffered(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte("+OK\r\n+PONG\r\n"))

	v, ok, err := d.TryDecode()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "OK", v.Text())
	assert.Equal(t, len("+PONG\r\n"), d.Buffered())

	v, ok, err = d.TryDecode()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "PONG", v.Text())
	assert.Zero(t, d.Buffered())
}

func TestDecoder_EmptyBufferNeedsMore(t *testing.T) {
	d := NewDecoder()
	_, ok, err := d.TryDecode()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecoder_MalformedLineTerminator(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte("+OK\n"))

	_, _, err := d.TryDecode()
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.True(t, ShouldCloseConnection(err))
}

func TestDecoder_BadLengthHeader(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte("$abc\r\n"))

	_, _, err := d.TryDecode()
	var protoErr *ProtocolError
	assert.ErrorAs(t, err, &protoErr)
}

func TestDecoder_OversizedArrayHeader(t *testing.T) {
	// An element count past the protocol limit must be rejected before
	// anything is allocated for it.
	d := NewDecoder()
	d.Feed([]byte("*99999999999\r\n"))

	_, _, err := d.TryDecode()
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.True(t, ShouldCloseConnection(err))
}

func TestDecoder_OversizedBulkHeader(t *testing.T) {
	// A near-MaxInt64 length would overflow the end-of-payload offset.
	d := NewDecoder()
	d.Feed([]byte("$9223372036854775800\r\n"))

	_, _, err := d.TryDecode()
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.True(t, ShouldCloseConnection(err))
}

func TestDecoder_OversizedMapHeader(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte("%99999999999\r\n"))

	_, _, err := d.TryDecode()
	var protoErr *ProtocolError
	assert.ErrorAs(t, err, &protoErr)
}

func TestDecoder_BulkMissingTerminator(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte("$3\r\nfooXX"))

	_, _, err := d.TryDecode()
	var protoErr *ProtocolError
	assert.ErrorAs(t, err, &protoErr)
}

func TestDecoder_UnknownTag(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte("?boom\r\n"))

	_, _, err := d.TryDecode()
	var protoErr *ProtocolError
	assert.ErrorAs(t, err, &protoErr)
}
