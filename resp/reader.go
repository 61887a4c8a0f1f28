package resp

import (
	"bytes"
	"errors"
	"strconv"
)

// errIncomplete is the internal "need more bytes" signal. It never escapes
// TryDecode.
var errIncomplete = errors.New("resp: incomplete reply")

// Protocol limits on length headers, matching the server's own: 512MB for
// a bulk string, 2^20 elements for an aggregate. A header past these is a
// corrupt or hostile stream, not a reply worth allocating for.
const (
	maxBulkLen  = 512 << 20
	maxArrayLen = 1 << 20
)

// Decoder is a push-fed RESP reply parser. The caller feeds it raw chunks
// as they arrive from the socket and asks for one complete reply at a
// time; a partial frame is never exposed.
//
// The buffered bytes are the only parse state: when a reply is incomplete
// the buffer is left untouched and the parse restarts from the beginning
// on the next attempt. Replies are small in this protocol, and with at
// most one command in flight the buffer never holds more than one reply.
type Decoder struct {
	buf []byte
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends raw bytes from the transport.
func (d *Decoder) Feed(p []byte) {
	d.buf = append(d.buf, p...)
}

// Buffered returns the number of unconsumed bytes. After a successful
// TryDecode it must be zero when at most one command is in flight; the
// connection layer checks this invariant.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// TryDecode attempts to extract one complete reply. It returns ok=false
// when more bytes are needed, without consuming anything. A non-nil error
// means the stream is not valid RESP and the framing position is lost.
func (d *Decoder) TryDecode() (Value, bool, error) {
	if len(d.buf) == 0 {
		return Value{}, false, nil
	}

	v, n, err := decodeValue(d.buf)
	if err == errIncomplete {
		return Value{}, false, nil
	}
	if err != nil {
		return Value{}, false, err
	}

	d.buf = d.buf[n:]
	return v, true, nil
}

// decodeValue parses one reply from the front of b, returning the value
// and the number of bytes consumed.
func decodeValue(b []byte) (Value, int, error) {
	line, pos, err := readLine(b, 0)
	if err != nil {
		return Value{}, 0, err
	}
	if len(line) == 0 {
		return Value{}, 0, &ProtocolError{Message: "empty reply line"}
	}

	tag, rest := line[0], line[1:]

	switch tag {
	case TagStatus:
		return StatusValue(string(rest)), pos, nil

	case TagError:
		return ErrorValue(string(rest)), pos, nil

	case TagInteger:
		n, err := strconv.ParseInt(string(rest), 10, 64)
		if err != nil {
			return Value{}, 0, &ProtocolError{Message: "bad integer reply", Err: err}
		}
		return IntegerValue(n), pos, nil

	case TagDouble:
		f, err := strconv.ParseFloat(string(rest), 64)
		if err != nil {
			return Value{}, 0, &ProtocolError{Message: "bad double reply", Err: err}
		}
		return DoubleValue(f), pos, nil

	case TagBoolean:
		switch string(rest) {
		case "t":
			return BooleanValue(true), pos, nil
		case "f":
			return BooleanValue(false), pos, nil
		}
		return Value{}, 0, &ProtocolError{Message: "bad boolean reply: " + string(rest)}

	case TagNull:
		if len(rest) != 0 {
			return Value{}, 0, &ProtocolError{Message: "bad null reply"}
		}
		return NullValue(), pos, nil

	case TagBulk:
		return decodeBulk(b, rest, pos)

	case TagArray:
		return decodeArray(b, rest, pos)

	case TagMap:
		return decodeMap(b, rest, pos)
	}

	return Value{}, 0, &ProtocolError{Message: "unknown reply tag " + strconv.QuoteRune(rune(tag))}
}

func decodeBulk(b, header []byte, pos int) (Value, int, error) {
	size, err := parseSize(header, maxBulkLen)
	if err != nil {
		return Value{}, 0, err
	}
	if size == -1 {
		return NullValue(), pos, nil
	}

	end := pos + size + len(CRLF)
	if end > len(b) {
		return Value{}, 0, errIncomplete
	}
	if string(b[pos+size:end]) != CRLF {
		return Value{}, 0, &ProtocolError{Message: "bulk string not terminated by CRLF"}
	}

	// Copy out of the decode buffer: the buffer is resliced after extraction.
	payload := make([]byte, size)
	copy(payload, b[pos:pos+size])
	return BulkValue(payload), end, nil
}

func decodeArray(b, header []byte, pos int) (Value, int, error) {
	count, err := parseSize(header, maxArrayLen)
	if err != nil {
		return Value{}, 0, err
	}
	if count == -1 {
		return NullValue(), pos, nil
	}

	// Preallocation trusts the header only up to a point: a large count
	// still has to be backed by actual buffered elements to grow further.
	elems := make([]Value, 0, min(count, 1024))
	for i := 0; i < count; i++ {
		v, n, err := decodeValue(b[pos:])
		if err != nil {
			return Value{}, 0, err
		}
		pos += n
		elems = append(elems, v)
	}
	return Value{kind: KindArray, array: elems}, pos, nil
}

func decodeMap(b, header []byte, pos int) (Value, int, error) {
	count, err := parseSize(header, maxArrayLen)
	if err != nil {
		return Value{}, 0, err
	}
	if count < 0 {
		return Value{}, 0, &ProtocolError{Message: "negative map length"}
	}

	m := make(map[string]Value, min(count, 1024))
	for i := 0; i < count; i++ {
		key, n, err := decodeValue(b[pos:])
		if err != nil {
			return Value{}, 0, err
		}
		pos += n

		val, n, err := decodeValue(b[pos:])
		if err != nil {
			return Value{}, 0, err
		}
		pos += n

		m[key.Text()] = val
	}
	return MapValue(m), pos, nil
}

// parseSize parses the decimal length of a bulk, array or map header.
// -1 is the null marker; anything below is malformed, anything above max
// is rejected before any allocation or offset arithmetic can use it.
func parseSize(header []byte, max int64) (int, error) {
	n, err := strconv.ParseInt(string(header), 10, 64)
	if err != nil {
		return 0, &ProtocolError{Message: "bad length header", Err: err}
	}
	if n < -1 {
		return 0, &ProtocolError{Message: "negative length header"}
	}
	if n > max {
		return 0, &ProtocolError{Message: "length header exceeds protocol limit"}
	}
	return int(n), nil
}

// readLine returns the next CRLF-terminated line starting at pos, without
// its terminator, and the offset just past it.
func readLine(b []byte, pos int) ([]byte, int, error) {
	idx := bytes.IndexByte(b[pos:], '\n')
	if idx == -1 {
		return nil, 0, errIncomplete
	}
	end := pos + idx
	if end == pos || b[end-1] != '\r' {
		return nil, 0, &ProtocolError{Message: "line not terminated by CRLF"}
	}
	return b[pos : end-1], end + 1, nil
}
