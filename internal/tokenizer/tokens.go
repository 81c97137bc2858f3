// Package tokenizer scans QVS20 input into field and row-delimiter tokens.
//
// The tokenizer only locates delimiters. Field content is returned raw, with
// escape sequences untouched; callers resolve them with package escape.
package tokenizer

import "fmt"

// Kind identifies the variant of a Token.
type Kind uint8

const (
	// KindField is a bracketed field. Value holds the raw content between
	// the brackets.
	KindField Kind = iota + 1
	// KindRowDelimiter is the single byte that ends a row.
	KindRowDelimiter
)

// String returns the name of the token kind.
func (k Kind) String() string {
	switch k {
	case KindField:
		return "Field"
	case KindRowDelimiter:
		return "RowDelimiter"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Token is one lexical unit of QVS20 input.
//
// Value is a sub-slice of the input buffer and must not be modified.
type Token struct {
	Kind Kind
	// Value is the raw field content (KindField only).
	Value []byte
	// Delimiter is the row delimiter byte (KindRowDelimiter only).
	Delimiter byte
	// Pos is the byte offset of the field content, or of the delimiter byte.
	Pos int
}

// Field returns a field token.
func Field(value []byte, pos int) Token {
	return Token{Kind: KindField, Value: value, Pos: pos}
}

// RowDelimiter returns a row delimiter token.
func RowDelimiter(b byte, pos int) Token {
	return Token{Kind: KindRowDelimiter, Delimiter: b, Pos: pos}
}

// String renders the token for diagnostics.
func (t Token) String() string {
	if t.Kind == KindRowDelimiter {
		return fmt.Sprintf("RowDelimiter(%q)", t.Delimiter)
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Value)
}

// CursorState is the tokenizer's position in the grammar.
type CursorState uint8

const (
	StartOfField CursorState = iota
	InsideOfField
	OutsideOfField
	InsideRowDelimiter
	EndOfFile
)

func (s CursorState) String() string {
	switch s {
	case StartOfField:
		return "StartOfField"
	case InsideOfField:
		return "InsideOfField"
	case OutsideOfField:
		return "OutsideOfField"
	case InsideRowDelimiter:
		return "InsideRowDelimiter"
	case EndOfFile:
		return "EndOfFile"
	default:
		return fmt.Sprintf("CursorState(%d)", s)
	}
}

// Reserved bytes of the wire format.
const (
	FieldStart = '['
	FieldEnd   = ']'
	EscapeByte = '\\'
)
