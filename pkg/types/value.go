package types

import (
	"bytes"
	"fmt"
	"strconv"
)

// Kind is the variant of a Value.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindInteger
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindInteger:
		return "Integer"
	case KindBytes:
		return "Bytes"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Value is one cell of a row: a string, a signed 64-bit integer, or raw
// bytes. Bytes carry every type that is not String or Integer, in their
// textual wire form after unescaping.
//
// The zero Value is the empty string.
type Value struct {
	kind Kind
	str  string
	num  int64
	raw  []byte
}

// StringValue returns a String value.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// IntegerValue returns an Integer value.
func IntegerValue(i int64) Value {
	return Value{kind: KindInteger, num: i}
}

// BytesValue returns a Bytes value holding a copy of b.
func BytesValue(b []byte) Value {
	return Value{kind: KindBytes, raw: append([]byte{}, b...)}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind {
	if v.kind == 0 {
		return KindString
	}
	return v.kind
}

// AsString returns the text of a String value.
func (v Value) AsString() (string, bool) {
	return v.str, v.Kind() == KindString
}

// AsInteger returns the number of an Integer value.
func (v Value) AsInteger() (int64, bool) {
	return v.num, v.kind == KindInteger
}

// AsBytes returns the content of a Bytes value. The slice is shared with v.
func (v Value) AsBytes() ([]byte, bool) {
	return v.raw, v.kind == KindBytes
}

// Text returns the unescaped wire text of v.
func (v Value) Text() []byte {
	switch v.Kind() {
	case KindInteger:
		return strconv.AppendInt(nil, v.num, 10)
	case KindBytes:
		return v.raw
	default:
		return []byte(v.str)
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	return string(v.Text())
}

// Equal reports whether v and other are the same variant with the same content.
func (v Value) Equal(other Value) bool {
	if v.Kind() != other.Kind() {
		return false
	}
	switch v.Kind() {
	case KindInteger:
		return v.num == other.num
	case KindBytes:
		return bytes.Equal(v.raw, other.raw)
	default:
		return v.str == other.str
	}
}

// CompatibleWith reports whether v's variant is the one dt is carried in.
func (v Value) CompatibleWith(dt DataType) bool {
	return dt.Valid() && v.Kind() == dt.Kind()
}

// Row is an ordered sequence of values, one per column.
type Row struct {
	Values []Value
}

// NewRow returns a row of the given values.
func NewRow(values ...Value) Row {
	return Row{Values: values}
}

// Len returns the number of values.
func (r Row) Len() int {
	return len(r.Values)
}

// Get returns the value at index i.
func (r Row) Get(i int) (Value, bool) {
	if i < 0 || i >= len(r.Values) {
		return Value{}, false
	}
	return r.Values[i], true
}

// Equal reports whether both rows hold equal values in the same order.
func (r Row) Equal(other Row) bool {
	if len(r.Values) != len(other.Values) {
		return false
	}
	for i := range r.Values {
		if !r.Values[i].Equal(other.Values[i]) {
			return false
		}
	}
	return true
}
