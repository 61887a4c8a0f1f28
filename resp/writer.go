package resp

import (
	"fmt"
	"strconv"
)

// AppendCommand encodes one command as a RESP array of bulk strings and
// appends it to dst:
//
//	*<argc+1>\r\n$<len>\r\n<name>\r\n$<len>\r\n<arg>\r\n...
//
// Integer and float arguments are serialized in their canonical decimal
// text form, strings as UTF-8 bytes, byte slices unchanged. Any other
// argument type is a caller bug and returns an EncodeError with dst
// untouched.
//
// Every argument length is known before a byte is written; there is no
// streaming encode.
func AppendCommand(dst []byte, name string, args ...any) ([]byte, error) {
	// Validate before appending so a rejected command leaves dst intact.
	for _, arg := range args {
		switch arg.(type) {
		case string, []byte, int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64, float32, float64:
		default:
			return dst, &EncodeError{Message: fmt.Sprintf("unsupported argument type %T", arg)}
		}
	}

	dst = appendArrayHeader(dst, len(args)+1)
	dst = appendBulkString(dst, []byte(name))

	for _, arg := range args {
		switch a := arg.(type) {
		case string:
			dst = appendBulkString(dst, []byte(a))
		case []byte:
			dst = appendBulkString(dst, a)
		case int:
			dst = appendBulkInt(dst, int64(a))
		case int8:
			dst = appendBulkInt(dst, int64(a))
		case int16:
			dst = appendBulkInt(dst, int64(a))
		case int32:
			dst = appendBulkInt(dst, int64(a))
		case int64:
			dst = appendBulkInt(dst, a)
		case uint:
			dst = appendBulkUint(dst, uint64(a))
		case uint8:
			dst = appendBulkUint(dst, uint64(a))
		case uint16:
			dst = appendBulkUint(dst, uint64(a))
		case uint32:
			dst = appendBulkUint(dst, uint64(a))
		case uint64:
			dst = appendBulkUint(dst, a)
		case float32:
			dst = appendBulkFloat(dst, float64(a))
		case float64:
			dst = appendBulkFloat(dst, a)
		}
	}

	return dst, nil
}

func appendArrayHeader(dst []byte, n int) []byte {
	dst = append(dst, TagArray)
	dst = strconv.AppendInt(dst, int64(n), 10)
	return append(dst, CRLF...)
}

func appendBulkString(dst, b []byte) []byte {
	dst = append(dst, TagBulk)
	dst = strconv.AppendInt(dst, int64(len(b)), 10)
	dst = append(dst, CRLF...)
	dst = append(dst, b...)
	return append(dst, CRLF...)
}

// scratch is large enough for any int64 or shortest-form float64.
const numScratch = 32

func appendBulkInt(dst []byte, n int64) []byte {
	var scratch [numScratch]byte
	return appendBulkString(dst, strconv.AppendInt(scratch[:0], n, 10))
}

func appendBulkUint(dst []byte, n uint64) []byte {
	var scratch [numScratch]byte
	return appendBulkString(dst, strconv.AppendUint(scratch[:0], n, 10))
}

func appendBulkFloat(dst []byte, f float64) []byte {
	var scratch [numScratch]byte
	return appendBulkString(dst, strconv.AppendFloat(scratch[:0], f, 'g', -1, 64))
}
