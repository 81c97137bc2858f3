// Package escape implements the QVS20 escape transform.
//
// Six bytes are reserved inside field content and always travel as two-byte
// sequences:
//
//	\\  backslash
//	\[  left square bracket
//	\]  right square bracket
//	\n  line feed
//	\r  carriage return
//	\t  tab
//
// Both directions work on bytes, not runes. All reserved bytes are ASCII, so
// multi-byte UTF-8 sequences pass through untouched.
package escape

import (
	"bytes"
	"errors"
	"fmt"
)

// Unknown is substituted by Unescape for an unrecognized escape sequence.
const Unknown = '?'

var (
	// ErrUnknownEscape reports a backslash followed by a byte that is not one
	// of the six escapable characters.
	ErrUnknownEscape = errors.New("unknown escape sequence")
	// ErrTrailingBackslash reports a backslash as the final byte of a field.
	ErrTrailingBackslash = errors.New("backslash at end of field")
)

// SequenceError locates an invalid escape sequence inside a field.
type SequenceError struct {
	// Offset is the position of the backslash within the field.
	Offset int
	// Byte is the byte that followed the backslash (0 for a trailing backslash).
	Byte byte
	Err  error
}

func (e *SequenceError) Error() string {
	if e.Err == ErrTrailingBackslash {
		return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
	}
	return fmt.Sprintf("%v \\%c at offset %d", e.Err, e.Byte, e.Offset)
}

func (e *SequenceError) Unwrap() error {
	return e.Err
}

// escaped maps a raw byte to the second byte of its escape sequence.
var escaped = [256]byte{
	'\\': '\\',
	'[':  '[',
	']':  ']',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
}

// unescaped maps the second byte of an escape sequence back to the raw byte.
var unescaped = [256]byte{
	'\\': '\\',
	'[':  '[',
	']':  ']',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

// NeedsEscape reports whether raw contains any reserved byte.
func NeedsEscape(raw []byte) bool {
	for _, b := range raw {
		if escaped[b] != 0 {
			return true
		}
	}
	return false
}

// Escape returns raw with every reserved byte replaced by its two-byte
// sequence. When raw contains no reserved byte it is returned as is, without
// allocating.
func Escape(raw []byte) []byte {
	if !NeedsEscape(raw) {
		return raw
	}
	return AppendEscaped(make([]byte, 0, len(raw)+8), raw)
}

// AppendEscaped appends the escaped form of raw to dst and returns the
// extended buffer.
func AppendEscaped(dst, raw []byte) []byte {
	start := 0
	for i, b := range raw {
		if e := escaped[b]; e != 0 {
			dst = append(dst, raw[start:i]...)
			dst = append(dst, '\\', e)
			start = i + 1
		}
	}
	return append(dst, raw[start:]...)
}

// EscapeString is Escape for text.
func EscapeString(s string) string {
	return string(Escape([]byte(s)))
}

// Unescape resolves escape sequences in a raw field. An unrecognized sequence
// becomes Unknown and a trailing lone backslash is dropped; it never fails.
// When field contains no backslash it is returned as is, without allocating.
func Unescape(field []byte) []byte {
	out, _ := unescape(field, false)
	return out
}

// UnescapeStrict is Unescape that rejects unrecognized sequences and a
// trailing backslash with a *SequenceError.
func UnescapeStrict(field []byte) ([]byte, error) {
	return unescape(field, true)
}

func unescape(field []byte, strict bool) ([]byte, error) {
	next := bytes.IndexByte(field, '\\')
	if next < 0 {
		return field, nil
	}
	out := make([]byte, 0, len(field))
	start := 0
	for next >= 0 {
		pos := start + next
		out = append(out, field[start:pos]...)
		if pos+1 >= len(field) {
			if strict {
				return nil, &SequenceError{Offset: pos, Err: ErrTrailingBackslash}
			}
			return out, nil
		}
		follow := field[pos+1]
		raw := unescaped[follow]
		if raw == 0 {
			if strict {
				return nil, &SequenceError{Offset: pos, Byte: follow, Err: ErrUnknownEscape}
			}
			raw = Unknown
		}
		out = append(out, raw)
		start = pos + 2
		next = bytes.IndexByte(field[start:], '\\')
	}
	return append(out, field[start:]...), nil
}
