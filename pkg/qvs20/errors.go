package qvs20

import (
	"errors"

	"github.com/shapestone/shape-qvs20/internal/escape"
	"github.com/shapestone/shape-qvs20/internal/parser"
	"github.com/shapestone/shape-qvs20/internal/tokenizer"
	"github.com/shapestone/shape-qvs20/pkg/types"
)

// ParseError is a structural error. Its Section is one of the ErrIn*
// sentinels and it matches that sentinel with errors.Is.
type ParseError = parser.Error

// LexicalError is a tokenizer error with the byte offset it was detected at.
// A ParseError wraps it when the input is not well-formed.
type LexicalError = tokenizer.Error

// EscapeError locates an unknown escape sequence in strict mode.
type EscapeError = escape.SequenceError

// Structural sections
var (
	ErrInTableName            = parser.ErrInTableName
	ErrInRowDelimiter         = parser.ErrInRowDelimiter
	ErrInDataTypes            = parser.ErrInDataTypes
	ErrInAdditionalProperties = parser.ErrInAdditionalProperties
	ErrInColumnNames          = parser.ErrInColumnNames
	ErrInDataRow              = parser.ErrInDataRow
)

// Lexical causes
var (
	ErrNoFieldStart              = tokenizer.ErrNoFieldStart
	ErrNoFieldEnd                = tokenizer.ErrNoFieldEnd
	ErrNoLastRowDelimiter        = tokenizer.ErrNoLastRowDelimiter
	ErrRowDelimiterMoreThan1Byte = tokenizer.ErrRowDelimiterMoreThan1Byte
	ErrPrematureEndOfFile        = tokenizer.ErrPrematureEndOfFile
)

// Structural causes
var (
	ErrMissingRow        = parser.ErrMissingRow
	ErrDelimiterMismatch = parser.ErrDelimiterMismatch
	ErrFieldCount        = parser.ErrFieldCount
	ErrDuplicateColumn   = parser.ErrDuplicateColumn
	ErrUnknownEscape     = escape.ErrUnknownEscape
	ErrInvalidTable      = types.ErrInvalidTable
)

// Writer errors
var (
	// ErrTypeMismatch is returned when a value does not fit its column.
	ErrTypeMismatch = errors.New("value does not match the column data type")

	// ErrIncompleteRow is returned by Close when a row is partially written.
	ErrIncompleteRow = errors.New("row is incomplete")

	// ErrTooManyValues is returned by WriteRow for a row longer than the schema.
	ErrTooManyValues = errors.New("more values than columns")

	// ErrWriterClosed is returned by writes after Close.
	ErrWriterClosed = errors.New("writer is closed")
)
