package resp

import "errors"

// Error types for the RESP client core. Each type answers the one question
// the pooling layer needs: can the connection that produced this error be
// returned to the idle set, or is its protocol state indeterminate?

// ServerError is an error reply (`-ERR ...`) from the server. The reply was
// framed correctly, so the connection state is intact.
//
// Connection handling: connection can be REUSED.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// ShouldCloseConnection returns false - the server answered cleanly.
func (e *ServerError) ShouldCloseConnection() bool {
	return false
}

// ProtocolError indicates the decoder could not make sense of the byte
// stream, or detected an internal-consistency breach (leftover bytes after
// a complete reply, odd pairing in a paired scan). The framing position is
// lost.
//
// Connection handling: CLOSE the connection.
type ProtocolError struct {
	Message string
	Err     error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return "resp: protocol error: " + e.Message + ": " + e.Err.Error()
	}
	return "resp: protocol error: " + e.Message
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns true - the stream position is unknown.
func (e *ProtocolError) ShouldCloseConnection() bool {
	return true
}

// EncodeError is returned when a command argument has an unsupported type.
// Nothing was written to the socket.
//
// Connection handling: connection can be REUSED.
type EncodeError struct {
	Message string
}

func (e *EncodeError) Error() string {
	return "resp: encode error: " + e.Message
}

// ShouldCloseConnection returns false - the command was rejected before any
// bytes went out.
func (e *EncodeError) ShouldCloseConnection() bool {
	return false
}

// ErrorWithConnectionState is implemented by errors that state whether the
// connection that produced them remains usable.
type ErrorWithConnectionState interface {
	error
	ShouldCloseConnection() bool
}

// ShouldCloseConnection classifies err for the release-vs-destroy decision.
// Unknown error types are treated as fatal to the connection: a failed
// round trip leaves the stream in an indeterminate position unless the
// error itself proves otherwise.
func ShouldCloseConnection(err error) bool {
	if err == nil {
		return false
	}

	var e ErrorWithConnectionState
	if errors.As(err, &e) {
		return e.ShouldCloseConnection()
	}

	return true
}
