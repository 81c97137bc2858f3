package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Sections of a table. Every structural error matches exactly one of them
// with errors.Is.
var (
	ErrInTableName            = errors.New("error in table name")
	ErrInRowDelimiter         = errors.New("error in row delimiter")
	ErrInDataTypes            = errors.New("error in data types")
	ErrInAdditionalProperties = errors.New("error in additional properties")
	ErrInColumnNames          = errors.New("error in column names")
	ErrInDataRow              = errors.New("error in data row")
)

// Causes that do not come from another package.
var (
	ErrMissingRow          = errors.New("row is missing")
	ErrDelimiterMismatch   = errors.New("row delimiter differs from the declared one")
	ErrFieldCount          = errors.New("wrong number of fields")
	ErrDuplicateColumn     = errors.New("duplicate column name")
	ErrInvalidUTF8         = errors.New("invalid UTF-8 text")
	ErrReservedDelimiter   = errors.New("row delimiter is reserved")
	ErrUnexpectedDelimiter = errors.New("unexpected row delimiter")
)

// Error is a structural error. It names the section of the table that
// failed and wraps the underlying cause, which may be a *tokenizer.Error, a
// *escape.SequenceError, a conversion error or one of the causes above.
type Error struct {
	// Section is one of the ErrIn* sentinels.
	Section error
	// DataRow is the 1-based data row number, 0 outside the data section.
	DataRow int
	// Column is the 1-based column number, 0 when not tied to a column.
	Column int
	// Offset is the byte offset where the problem was detected.
	Offset int
	// Msg adds context to Err.
	Msg string
	// Err is the cause.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Section.Error())
	if e.DataRow > 0 {
		fmt.Fprintf(&b, " %d", e.DataRow)
	}
	if e.Column > 0 {
		fmt.Fprintf(&b, ", column %d", e.Column)
	}
	fmt.Fprintf(&b, " at byte %d", e.Offset)
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the section of e.
func (e *Error) Is(target error) bool {
	return target == e.Section
}
