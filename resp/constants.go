package resp

// CRLF terminates every line of the wire format.
const CRLF = "\r\n"

// Reply type tags. The first byte of every reply selects the decoder path.
// RESP2 defines the first five, RESP3 (negotiated via HELLO 3) adds the rest.
const (
	TagStatus  = '+' // simple status line
	TagError   = '-' // error line
	TagInteger = ':' // signed decimal integer
	TagBulk    = '$' // length-prefixed bulk string, -1 means null
	TagArray   = '*' // array of replies, -1 means null
	TagMap     = '%' // map of reply pairs (RESP3)
	TagNull    = '_' // null (RESP3)
	TagDouble  = ',' // floating point (RESP3)
	TagBoolean = '#' // #t or #f (RESP3)
)
