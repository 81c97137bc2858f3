package tokenizer

import (
	"errors"
	"fmt"
)

// Lexical errors. A returned *Error wraps exactly one of these.
var (
	ErrNoFieldStart              = errors.New("the field must start with [")
	ErrNoFieldEnd                = errors.New("last bracket is missing")
	ErrNoLastRowDelimiter        = errors.New("last row delimiter is missing")
	ErrRowDelimiterMoreThan1Byte = errors.New("the row delimiter has more than 1 byte")
	ErrPrematureEndOfFile        = errors.New("premature end of file")
)

// Error is a lexical error with the byte offset where it was detected.
type Error struct {
	// Pos is the byte offset in the input.
	Pos int
	// Err is one of the Err* sentinels of this package.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("lexical error at byte %d: %v", e.Pos, e.Err)
}

// Unwrap returns the sentinel.
func (e *Error) Unwrap() error {
	return e.Err
}

func errAt(pos int, err error) *Error {
	return &Error{Pos: pos, Err: err}
}
