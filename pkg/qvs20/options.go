package qvs20

import (
	"fmt"

	"github.com/shapestone/shape-qvs20/internal/parser"
	"github.com/shapestone/shape-qvs20/pkg/types"
)

// ReaderOptions configures parsing.
type ReaderOptions struct {
	// StrictEscapes makes an unknown escape sequence such as \q an error.
	// When false it decodes to '?'.
	// Default: false
	StrictEscapes bool

	// RowDelimiter, if not 0, is the row delimiter the input must declare.
	// Default: 0 (any valid delimiter)
	RowDelimiter byte
}

// DefaultReaderOptions returns the default reader configuration.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		StrictEscapes: false,
		RowDelimiter:  0,
	}
}

// Validate checks if the reader options are valid.
func (o ReaderOptions) Validate() error {
	if o.RowDelimiter != 0 && !types.ValidRowDelimiter(o.RowDelimiter) {
		return &OptionsError{Field: "RowDelimiter", Message: fmt.Sprintf("reserved byte %q", o.RowDelimiter)}
	}
	return nil
}

func (o ReaderOptions) parserOptions() parser.Options {
	return parser.Options{
		StrictEscapes: o.StrictEscapes,
		RowDelimiter:  o.RowDelimiter,
	}
}

// WriterOptions configures writing.
type WriterOptions struct {
	// RowDelimiter, if not 0, replaces the delimiter declared by the table.
	// Default: 0 (use Table.RowDelimiter)
	RowDelimiter byte
}

// DefaultWriterOptions returns the default writer configuration.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{RowDelimiter: 0}
}

// Validate checks if the writer options are valid.
func (o WriterOptions) Validate() error {
	if o.RowDelimiter != 0 && !types.ValidRowDelimiter(o.RowDelimiter) {
		return &OptionsError{Field: "RowDelimiter", Message: fmt.Sprintf("reserved byte %q", o.RowDelimiter)}
	}
	return nil
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "qvs20: invalid " + e.Field + ": " + e.Message
}
