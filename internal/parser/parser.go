// Package parser assembles QVS20 tables from the token stream of
// internal/tokenizer.
//
// Grammar:
//
//	Table     = NameRow TypeRow PropRow ColumnRow { DataRow } ;
//	NameRow   = Field Delim ;
//	TypeRow   = Field { Field } Delim ;
//	PropRow   = Field { Field } Delim ;
//	ColumnRow = Field { Field } Delim ;
//	DataRow   = Field { Field } Delim ;
//
// The byte of the first Delim is the row delimiter of the table; every later
// Delim must repeat it. Each production has a parse function and the parser
// keeps a single token of lookahead.
package parser

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/op/go-logging"

	"github.com/shapestone/shape-qvs20/internal/escape"
	"github.com/shapestone/shape-qvs20/internal/tokenizer"
	"github.com/shapestone/shape-qvs20/pkg/types"
)

var log = logging.MustGetLogger("parser")

// Options configures the parser behavior.
type Options struct {
	// StrictEscapes rejects unknown escape sequences instead of replacing
	// them with '?'.
	StrictEscapes bool
	// RowDelimiter, when not zero, is the delimiter the table must declare.
	// Nested tables use it to enforce the delimiter of their level.
	RowDelimiter byte
}

// DefaultOptions returns default parser options: lenient escapes and any
// row delimiter.
func DefaultOptions() Options {
	return Options{}
}

// Parser assembles a table from a byte buffer. It reads the four schema
// rows first and then one data row per NextRow call. The first error is
// terminal.
type Parser struct {
	tokenizer *tokenizer.Tokenizer
	current   tokenizer.Token
	hasToken  bool
	lexErr    error
	opts      Options

	schema   *types.Table
	dataRows int
	err      error
}

// NewParser creates a parser over input with default options. The caller
// must not modify input while the parser is in use.
func NewParser(input []byte) *Parser {
	return NewParserWithOptions(input, DefaultOptions())
}

// NewParserWithOptions creates a parser over input with custom options.
func NewParserWithOptions(input []byte, opts Options) *Parser {
	p := &Parser{
		tokenizer: tokenizer.New(input),
		opts:      opts,
	}
	p.advance() // Load first token
	return p
}

// Parse reads the whole input and returns the assembled table.
func (p *Parser) Parse() (*types.Table, error) {
	schema, err := p.ReadSchema()
	if err != nil {
		return nil, err
	}
	table := schema.Schema()
	for {
		row, err := p.NextRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, row)
	}
	log.Debugf("assembled table %q: %d columns, %d rows", table.Name, table.ColumnCount(), len(table.Rows))
	return table, nil
}

// Schema returns the schema read so far, or nil before ReadSchema succeeds.
func (p *Parser) Schema() *types.Table {
	return p.schema
}

// DataRows returns the number of data rows read.
func (p *Parser) DataRows() int {
	return p.dataRows
}

// ReadSchema reads the four schema rows. Calling it again returns the same
// schema. The returned table has no rows and must not be modified.
func (p *Parser) ReadSchema() (*types.Table, error) {
	if p.schema != nil {
		return p.schema, nil
	}
	if p.err != nil {
		return nil, p.err
	}
	schema, err := p.parseSchema()
	if err != nil {
		p.err = err
		return nil, err
	}
	p.schema = schema
	log.Debugf("read schema of table %q: %d columns, delimiter %q", schema.Name, schema.ColumnCount(), schema.RowDelimiter)
	return schema, nil
}

// NextRow returns the next data row, or io.EOF once the input ends after a
// complete row.
func (p *Parser) NextRow() (types.Row, error) {
	if _, err := p.ReadSchema(); err != nil {
		return types.Row{}, err
	}
	if p.err != nil {
		return types.Row{}, p.err
	}
	if !p.hasToken {
		if p.lexErr != nil {
			p.err = p.lexicalError(ErrInDataRow, p.dataRows+1)
			return types.Row{}, p.err
		}
		return types.Row{}, io.EOF
	}
	row, err := p.parseDataRow()
	if err != nil {
		p.err = err
		return types.Row{}, err
	}
	p.dataRows++
	return row, nil
}

// parseSchema parses the four schema rows.
//
// Grammar:
//
//	NameRow TypeRow PropRow ColumnRow
func (p *Parser) parseSchema() (*types.Table, error) {
	name, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	delim, err := p.parseDeclaredDelimiter()
	if err != nil {
		return nil, err
	}
	t := &types.Table{Name: name, RowDelimiter: delim}

	if t.DataTypes, err = p.parseDataTypes(delim); err != nil {
		return nil, err
	}
	if t.AdditionalProperties, err = p.parseProperties(delim, len(t.DataTypes)); err != nil {
		return nil, err
	}
	if t.ColumnNames, err = p.parseColumnNames(delim, len(t.DataTypes)); err != nil {
		return nil, err
	}
	return t, nil
}

// parseTableName parses the single field of the first row.
func (p *Parser) parseTableName() (string, error) {
	if !p.hasToken {
		return "", p.endOfInput(ErrInTableName, 0)
	}
	if p.current.Kind != tokenizer.KindField {
		return "", p.errorf(ErrInTableName, 0, 0, ErrUnexpectedDelimiter, "")
	}
	raw, err := p.text(ErrInTableName, 0, 0)
	if err != nil {
		return "", err
	}
	p.advance()
	return string(raw), nil
}

// parseDeclaredDelimiter parses the delimiter that ends the first row.
func (p *Parser) parseDeclaredDelimiter() (byte, error) {
	if !p.hasToken {
		return 0, p.endOfInput(ErrInRowDelimiter, 0)
	}
	if p.current.Kind != tokenizer.KindRowDelimiter {
		return 0, p.errorf(ErrInRowDelimiter, 0, 0, ErrFieldCount, "the table name must be the only field of the first row")
	}
	b := p.current.Delimiter
	if !types.ValidRowDelimiter(b) {
		return 0, p.errorf(ErrInRowDelimiter, 0, 0, ErrReservedDelimiter, fmt.Sprintf("%q", b))
	}
	if p.opts.RowDelimiter != 0 && b != p.opts.RowDelimiter {
		return 0, p.errorf(ErrInRowDelimiter, 0, 0, ErrDelimiterMismatch,
			fmt.Sprintf("got %q, want %q", b, p.opts.RowDelimiter))
	}
	p.advance()
	return b, nil
}

// parseDataTypes parses the second row.
func (p *Parser) parseDataTypes(delim byte) ([]types.DataType, error) {
	var dts []types.DataType
	err := p.parseSchemaRow(ErrInDataTypes, delim, -1, func(col int, raw []byte) error {
		dt, err := types.ParseDataType(string(raw))
		if err != nil {
			return p.errorf(ErrInDataTypes, 0, col, err, "")
		}
		dts = append(dts, dt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dts, nil
}

// parseProperties parses the third row.
func (p *Parser) parseProperties(delim byte, want int) ([]string, error) {
	props := make([]string, 0, want)
	err := p.parseSchemaRow(ErrInAdditionalProperties, delim, want, func(_ int, raw []byte) error {
		props = append(props, string(raw))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return props, nil
}

// parseColumnNames parses the fourth row. A repeated name fails as soon as
// it is read.
func (p *Parser) parseColumnNames(delim byte, want int) ([]string, error) {
	names := make([]string, 0, want)
	seen := make(map[string]int, want)
	err := p.parseSchemaRow(ErrInColumnNames, delim, want, func(col int, raw []byte) error {
		name := string(raw)
		if first, dup := seen[name]; dup {
			return p.errorf(ErrInColumnNames, 0, col, ErrDuplicateColumn,
				fmt.Sprintf("%q already names column %d", name, first))
		}
		seen[name] = col
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// parseSchemaRow parses one schema row of text fields.
//
// Grammar:
//
//	Field { Field } Delim
//
// A negative want accepts any number of fields. Otherwise a row with more
// fields fails on the first extra field and a shorter row fails at its
// delimiter. field receives the 1-based column and the unescaped text.
func (p *Parser) parseSchemaRow(section error, delim byte, want int, field func(col int, raw []byte) error) error {
	n := 0
	for {
		if !p.hasToken {
			return p.endOfInput(section, 0)
		}
		if p.current.Kind == tokenizer.KindRowDelimiter {
			if err := p.checkDelimiter(section, 0, delim); err != nil {
				return err
			}
			if want >= 0 && n != want {
				return p.errorf(section, 0, 0, ErrFieldCount, fmt.Sprintf("got %d fields, want %d", n, want))
			}
			if n == 0 {
				return p.errorf(section, 0, 0, ErrFieldCount, "at least one field is required")
			}
			p.advance()
			return nil
		}
		n++
		if want >= 0 && n > want {
			return p.errorf(section, 0, n, ErrFieldCount, fmt.Sprintf("more than %d fields", want))
		}
		raw, err := p.text(section, 0, n)
		if err != nil {
			return err
		}
		if err := field(n, raw); err != nil {
			return err
		}
		p.advance()
	}
}

// parseDataRow parses one data row, converting each field per its column.
//
// Grammar:
//
//	Field { Field } Delim
func (p *Parser) parseDataRow() (types.Row, error) {
	rowNum := p.dataRows + 1
	dts := p.schema.DataTypes
	values := make([]types.Value, 0, len(dts))

	for col := 1; ; col++ {
		if !p.hasToken {
			return types.Row{}, p.endOfInput(ErrInDataRow, rowNum)
		}
		if p.current.Kind == tokenizer.KindRowDelimiter {
			if err := p.checkDelimiter(ErrInDataRow, rowNum, p.schema.RowDelimiter); err != nil {
				return types.Row{}, err
			}
			if len(values) != len(dts) {
				return types.Row{}, p.errorf(ErrInDataRow, rowNum, 0, ErrFieldCount,
					fmt.Sprintf("got %d values, want %d", len(values), len(dts)))
			}
			p.advance()
			return types.NewRow(values...), nil
		}
		if col > len(dts) {
			return types.Row{}, p.errorf(ErrInDataRow, rowNum, col, ErrFieldCount,
				fmt.Sprintf("more than %d values", len(dts)))
		}
		raw, err := p.unescape(ErrInDataRow, rowNum, col)
		if err != nil {
			return types.Row{}, err
		}
		v, err := types.ParseText(dts[col-1], raw)
		if err != nil {
			return types.Row{}, p.errorf(ErrInDataRow, rowNum, col, err, "")
		}
		values = append(values, v)
		p.advance()
	}
}

// Helper methods

// advance moves to the next token, remembering a lexical error for the
// production that consumes the position it occurred at.
func (p *Parser) advance() {
	tok, err := p.tokenizer.Next()
	switch {
	case err == nil:
		p.current = tok
		p.hasToken = true
	case err == io.EOF:
		p.current = tokenizer.Token{}
		p.hasToken = false
	default:
		p.current = tokenizer.Token{}
		p.hasToken = false
		p.lexErr = err
	}
}

// checkDelimiter verifies that the current delimiter token is delim.
func (p *Parser) checkDelimiter(section error, rowNum int, delim byte) error {
	if got := p.current.Delimiter; got != delim {
		return p.errorf(section, rowNum, 0, ErrDelimiterMismatch, fmt.Sprintf("got %q, want %q", got, delim))
	}
	return nil
}

// unescape resolves the escapes of the current field.
func (p *Parser) unescape(section error, rowNum, col int) ([]byte, error) {
	if !p.opts.StrictEscapes {
		return escape.Unescape(p.current.Value), nil
	}
	raw, err := escape.UnescapeStrict(p.current.Value)
	if err != nil {
		e := p.errorf(section, rowNum, col, err, "")
		var seq *escape.SequenceError
		if errors.As(err, &seq) {
			e.Offset += seq.Offset
		}
		return nil, e
	}
	return raw, nil
}

// text is unescape for schema fields, which must be UTF-8.
func (p *Parser) text(section error, rowNum, col int) ([]byte, error) {
	raw, err := p.unescape(section, rowNum, col)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return nil, p.errorf(section, rowNum, col, ErrInvalidUTF8, "")
	}
	return raw, nil
}

// endOfInput reports that section could not be completed: either the
// tokenizer failed or the input ended.
func (p *Parser) endOfInput(section error, rowNum int) *Error {
	if p.lexErr != nil {
		return p.lexicalError(section, rowNum)
	}
	return &Error{Section: section, DataRow: rowNum, Offset: len(p.tokenizer.Input()), Err: ErrMissingRow}
}

// lexicalError wraps the pending lexical error.
func (p *Parser) lexicalError(section error, rowNum int) *Error {
	e := &Error{Section: section, DataRow: rowNum, Offset: len(p.tokenizer.Input()), Err: p.lexErr}
	var lex *tokenizer.Error
	if errors.As(p.lexErr, &lex) {
		e.Offset = lex.Pos
	}
	return e
}

// errorf builds a structural error at the current token.
func (p *Parser) errorf(section error, rowNum, col int, cause error, msg string) *Error {
	offset := len(p.tokenizer.Input())
	if p.hasToken {
		offset = p.current.Pos
	}
	return &Error{Section: section, DataRow: rowNum, Column: col, Offset: offset, Msg: msg, Err: cause}
}
