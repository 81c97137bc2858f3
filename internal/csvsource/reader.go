package csvsource

import (
	"errors"
	"fmt"
	"io"
	"strings"

	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
)

var (
	ErrBareQuote         = errors.New(`bare " in non-quoted field`)
	ErrQuote             = errors.New(`extraneous or missing " in quoted field`)
	ErrUnterminatedQuote = errors.New("unterminated quoted field")
	ErrFieldCount        = errors.New("wrong number of fields")
	ErrMissingColumn     = errors.New("missing column")
)

// ParseError reports the line and column of a malformed record.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("csv: line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Options configures a Reader.
type Options struct {
	// Comma is the field separator. Default: ','
	Comma rune
	// LazyQuotes keeps quotes that appear inside unquoted fields.
	LazyQuotes bool
	// FieldsPerRecord: 0 means the first record sets the count, negative
	// disables the check.
	FieldsPerRecord int
}

// DefaultOptions returns comma separated records with a fixed field count.
func DefaultOptions() Options {
	return Options{Comma: ','}
}

// Reader reads records one at a time with a single token of lookahead.
type Reader struct {
	tokenizer      shapetokenizer.Tokenizer
	current        *shapetokenizer.Token
	hasToken       bool
	opts           Options
	expectedFields int
	line           int
	err            error
}

// NewReader returns a Reader with default options.
func NewReader(r io.Reader) *Reader {
	return NewReaderWithOptions(r, DefaultOptions())
}

// NewReaderWithOptions returns a Reader configured by opts.
func NewReaderWithOptions(r io.Reader, opts Options) *Reader {
	if opts.Comma == 0 {
		opts.Comma = ','
	}
	rd := &Reader{
		tokenizer:      newTokenizer(shapetokenizer.NewStreamFromReader(r), opts.Comma),
		opts:           opts,
		expectedFields: opts.FieldsPerRecord,
	}
	rd.advance()
	return rd
}

// Line returns the line on which the last record returned by Read started.
func (r *Reader) Line() int {
	return r.line
}

// Read returns the next record. Blank lines are skipped. It returns io.EOF
// when the input is exhausted; other errors are sticky.
//
// Grammar:
//
//	Record = Field { Comma Field } ( Newline | EOF ) ;
func (r *Reader) Read() ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	for r.hasToken && r.current.Kind() == TokenNewline {
		r.advance()
	}
	if !r.hasToken {
		r.err = io.EOF
		return nil, r.err
	}
	r.line = r.current.Row()

	record := make([]string, 0, max(r.expectedFields, 8))
	for {
		field, err := r.parseField()
		if err != nil {
			r.err = err
			return nil, err
		}
		record = append(record, field)

		if !r.hasToken {
			break
		}
		switch r.current.Kind() {
		case TokenComma:
			r.advance()
			continue
		case TokenNewline:
			r.advance()
		default:
			r.err = r.errorf(ErrQuote)
			return nil, r.err
		}
		break
	}

	switch {
	case r.expectedFields == 0:
		r.expectedFields = len(record)
	case r.expectedFields > 0 && len(record) != r.expectedFields:
		// The record was consumed, so later records stay readable.
		return record, &ParseError{
			Line: r.line,
			Err:  fmt.Errorf("%w: got %d, expected %d", ErrFieldCount, len(record), r.expectedFields),
		}
	}
	return record, nil
}

// ReadAll reads the header and every remaining record.
func (r *Reader) ReadAll() (header []string, records [][]string, err error) {
	header, err = r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	for {
		record, err := r.Read()
		if err == io.EOF {
			return header, records, nil
		}
		if err != nil {
			return header, records, err
		}
		records = append(records, record)
	}
}

// Columns returns the index of each name in header.
func Columns(header []string, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = -1
		for j, h := range header {
			if h == name {
				idx[i] = j
				break
			}
		}
		if idx[i] < 0 {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, name)
		}
	}
	return idx, nil
}

// parseField parses a quoted or unquoted field.
//
// Grammar:
//
//	Field = QuotedField | UnquotedField ;
func (r *Reader) parseField() (string, error) {
	if r.hasToken && r.current.Kind() == TokenDQuote {
		return r.parseQuotedField()
	}
	return r.parseUnquotedField()
}

// parseQuotedField handles doubled quotes and keeps separators and line
// breaks inside the quotes.
//
// Grammar:
//
//	QuotedField = '"' { QuotedChar | '""' } '"' ;
func (r *Reader) parseQuotedField() (string, error) {
	row, col := r.current.Row(), r.current.Column()
	r.advance()

	var value strings.Builder
	for {
		if !r.hasToken {
			return "", &ParseError{Line: row, Column: col, Err: ErrUnterminatedQuote}
		}
		switch r.current.Kind() {
		case TokenDQuote:
			r.advance()
			if !r.hasToken || r.current.Kind() != TokenDQuote {
				return value.String(), nil
			}
			value.WriteByte('"')
		case TokenComma:
			value.WriteRune(r.opts.Comma)
		default:
			value.WriteString(r.current.ValueString())
		}
		r.advance()
	}
}

// parseUnquotedField reads field content up to the next separator or line
// break. An empty field is valid.
//
// Grammar:
//
//	UnquotedField = { UnquotedChar } ;
func (r *Reader) parseUnquotedField() (string, error) {
	var value strings.Builder
	for r.hasToken {
		switch r.current.Kind() {
		case TokenComma, TokenNewline:
			return value.String(), nil
		case TokenDQuote:
			if !r.opts.LazyQuotes {
				return "", r.errorf(ErrBareQuote)
			}
			value.WriteByte('"')
		default:
			value.WriteString(r.current.ValueString())
		}
		r.advance()
	}
	return value.String(), nil
}

func (r *Reader) advance() {
	token, ok := r.tokenizer.NextToken()
	r.current, r.hasToken = token, ok
	if !ok {
		r.current = nil
	}
}

func (r *Reader) errorf(err error) *ParseError {
	if r.hasToken {
		return &ParseError{Line: r.current.Row(), Column: r.current.Column(), Err: err}
	}
	return &ParseError{Line: r.line, Err: err}
}
