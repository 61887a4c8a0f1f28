package testutils

import (
	"bytes"
	"io"
	"net"
	"time"
)

// ConnectionMock is a mock implementation of net.Conn for testing.
// Reads serve the pre-configured replies and then io.EOF.
type ConnectionMock struct {
	replies  [][]byte
	writeBuf *bytes.Buffer
	closed   bool
}

// NewConnectionMock creates a new mock connection with pre-configured reply data
func NewConnectionMock(replyData ...string) *ConnectionMock {
	replies := make([][]byte, 0, len(replyData))
	for _, reply := range replyData {
		replies = append(replies, []byte(reply))
	}
	return &ConnectionMock{
		replies:  replies,
		writeBuf: &bytes.Buffer{},
	}
}

// Read serves at most one pre-configured reply per call, so consecutive
// round trips each observe exactly the reply configured for them.
func (m *ConnectionMock) Read(b []byte) (n int, err error) {
	for len(m.replies) > 0 && len(m.replies[0]) == 0 {
		m.replies = m.replies[1:]
	}
	if len(m.replies) == 0 {
		return 0, io.EOF
	}
	n = copy(b, m.replies[0])
	m.replies[0] = m.replies[0][n:]
	return n, nil
}

func (m *ConnectionMock) Write(b []byte) (n int, err error) {
	return m.writeBuf.Write(b)
}

func (m *ConnectionMock) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called on the mock.
func (m *ConnectionMock) Closed() bool {
	return m.closed
}

func (m *ConnectionMock) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func (m *ConnectionMock) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 6379}
}

func (m *ConnectionMock) SetDeadline(t time.Time) error      { return nil }
func (m *ConnectionMock) SetReadDeadline(t time.Time) error  { return nil }
func (m *ConnectionMock) SetWriteDeadline(t time.Time) error { return nil }

// GetWrittenRequest returns the raw request bytes written to the mock connection
func (m *ConnectionMock) GetWrittenRequest() string {
	return m.writeBuf.String()
}
