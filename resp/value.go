package resp

import (
	"fmt"
	"strconv"
)

// Kind identifies which member of the reply union a Value holds.
type Kind int

const (
	KindInvalid Kind = iota
	KindStatus       // simple status line, e.g. OK, PONG, QUEUED
	KindError        // error reply from the server
	KindInteger
	KindDouble
	KindBoolean
	KindBulk // binary-safe byte string
	KindNull // $-1, *-1 or RESP3 _
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindError:
		return "error"
	case KindInteger:
		return "integer"
	case KindDouble:
		return "double"
	case KindBoolean:
		return "boolean"
	case KindBulk:
		return "bulk"
	case KindNull:
		return "null"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	}
	return "invalid"
}

// Value is one decoded reply. It is a tagged union: exactly one member is
// meaningful, selected by Kind. Values are immutable once decoded.
type Value struct {
	kind    Kind
	bytes   []byte // status, error and bulk payloads
	integer int64
	double  float64
	boolean bool
	array   []Value
	mapping map[string]Value
}

// Constructors, used by the decoder and by tests building canned replies.

func StatusValue(s string) Value   { return Value{kind: KindStatus, bytes: []byte(s)} }
func ErrorValue(msg string) Value  { return Value{kind: KindError, bytes: []byte(msg)} }
func IntegerValue(n int64) Value   { return Value{kind: KindInteger, integer: n} }
func DoubleValue(f float64) Value  { return Value{kind: KindDouble, double: f} }
func BooleanValue(b bool) Value    { return Value{kind: KindBoolean, boolean: b} }
func BulkValue(b []byte) Value     { return Value{kind: KindBulk, bytes: b} }
func NullValue() Value             { return Value{kind: KindNull} }
func ArrayValue(vs ...Value) Value { return Value{kind: KindArray, array: vs} }

func MapValue(m map[string]Value) Value {
	return Value{kind: KindMap, mapping: m}
}

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsNil() bool   { return v.kind == KindNull }
func (v Value) IsError() bool { return v.kind == KindError }

// Err returns the server error carried by an error reply, nil otherwise.
func (v Value) Err() error {
	if v.kind != KindError {
		return nil
	}
	return &ServerError{Message: string(v.bytes)}
}

// Bytes returns the raw payload of a bulk, status or error reply.
// Null replies return nil.
func (v Value) Bytes() []byte {
	switch v.kind {
	case KindBulk, KindStatus, KindError:
		return v.bytes
	}
	return nil
}

// Text returns the payload as a string. Integer and double replies are
// formatted in their canonical decimal form.
func (v Value) Text() string {
	switch v.kind {
	case KindBulk, KindStatus, KindError:
		return string(v.bytes)
	case KindInteger:
		return strconv.FormatInt(v.integer, 10)
	case KindDouble:
		return strconv.FormatFloat(v.double, 'g', -1, 64)
	case KindBoolean:
		if v.boolean {
			return "true"
		}
		return "false"
	}
	return ""
}

// Int returns the reply as an int64. Bulk and status payloads are parsed
// as decimal text, matching how servers encode numbers in RESP2 replies.
func (v Value) Int() (int64, error) {
	switch v.kind {
	case KindInteger:
		return v.integer, nil
	case KindBulk, KindStatus:
		return strconv.ParseInt(string(v.bytes), 10, 64)
	}
	return 0, fmt.Errorf("resp: cannot interpret %s reply as integer", v.kind)
}

// Float returns the reply as a float64, parsing bulk text when needed.
func (v Value) Float() (float64, error) {
	switch v.kind {
	case KindDouble:
		return v.double, nil
	case KindInteger:
		return float64(v.integer), nil
	case KindBulk, KindStatus:
		return strconv.ParseFloat(string(v.bytes), 64)
	}
	return 0, fmt.Errorf("resp: cannot interpret %s reply as double", v.kind)
}

// Bool reports RESP3 booleans and the usual integer 0/1 convention.
func (v Value) Bool() (bool, error) {
	switch v.kind {
	case KindBoolean:
		return v.boolean, nil
	case KindInteger:
		return v.integer != 0, nil
	}
	return false, fmt.Errorf("resp: cannot interpret %s reply as boolean", v.kind)
}

// Array returns the elements of an array reply, nil for anything else.
func (v Value) Array() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.array
}

// Map returns the entries of a map reply, nil for anything else.
// RESP2 servers answer map-shaped commands with flat arrays; AsMap covers
// that case.
func (v Value) Map() map[string]Value {
	if v.kind != KindMap {
		return nil
	}
	return v.mapping
}

// AsMap converts either a RESP3 map or a flat RESP2 array of alternating
// key/value elements into a map.
func (v Value) AsMap() (map[string]Value, error) {
	switch v.kind {
	case KindMap:
		return v.mapping, nil
	case KindArray:
		if len(v.array)%2 != 0 {
			return nil, &ProtocolError{Message: "odd element count in map-shaped array"}
		}
		m := make(map[string]Value, len(v.array)/2)
		for i := 0; i < len(v.array); i += 2 {
			m[v.array[i].Text()] = v.array[i+1]
		}
		return m, nil
	}
	return nil, fmt.Errorf("resp: cannot interpret %s reply as map", v.kind)
}

// String renders the value for logs and the CLI.
func (v Value) String() string {
	switch v.kind {
	case KindStatus:
		return "+" + string(v.bytes)
	case KindError:
		return "-" + string(v.bytes)
	case KindInteger:
		return strconv.FormatInt(v.integer, 10)
	case KindDouble:
		return strconv.FormatFloat(v.double, 'g', -1, 64)
	case KindBoolean:
		if v.boolean {
			return "#t"
		}
		return "#f"
	case KindBulk:
		return strconv.Quote(string(v.bytes))
	case KindNull:
		return "(nil)"
	case KindArray:
		s := "["
		for i, e := range v.array {
			if i > 0 {
				s += " "
			}
			s += e.String()
		}
		return s + "]"
	case KindMap:
		s := "{"
		first := true
		for k, e := range v.mapping {
			if !first {
				s += " "
			}
			first = false
			s += strconv.Quote(k) + "=>" + e.String()
		}
		return s + "}"
	}
	return "(invalid)"
}
