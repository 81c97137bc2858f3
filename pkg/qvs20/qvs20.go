// Package qvs20 reads and writes QVS20, a self-describing bracketed text
// format for tables.
//
// A QVS20 document starts with four schema rows followed by data rows:
//
//	[table_name]<delim>
//	[Type1][Type2]...<delim>
//	[prop1][prop2]...<delim>
//	[name1][name2]...<delim>
//	[value1][value2]...<delim>
//
// Every field is wrapped in brackets. Inside a field the bytes \ [ ] and
// newline, carriage return and tab are written as \\ \[ \] \n \r \t. The row
// delimiter is a single byte chosen by the first row and repeated after every
// row, including the last one. Data types are String, Integer, Decimal, Float,
// Bool, Date, Time, DateTime and Table; a Table value is itself a QVS20
// document using a different row delimiter (see NestedDelimiter).
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple
// goroutines. Each call creates its own parser or writer. A Scanner or Writer
// must not be shared between goroutines.
//
// # Parsing APIs
//
//   - Parse([]byte) and ParseString(string) parse a document held in memory
//   - ParseReader(io.Reader) reads the whole reader first and then parses it
//   - NewScanner(io.Reader) yields data rows one at a time
//
// # Example usage with Parse:
//
//	table, err := qvs20.ParseString("[t]\n[String][Integer]\n[][]\n[name][age]\n[Alice][30]\n")
//	if err != nil {
//	    // handle error
//	}
//	name, _ := table.Rows[0].Values[0].AsString()
//
// # Errors
//
// Malformed input yields a *ParseError naming the schema row or data row
// that failed. It wraps the cause, often a *LexicalError:
//
//	if errors.Is(err, qvs20.ErrInColumnNames) && errors.Is(err, qvs20.ErrDuplicateColumn) {
//	    // two columns share a name
//	}
package qvs20

import (
	"io"

	"github.com/shapestone/shape-qvs20/internal/parser"
	"github.com/shapestone/shape-qvs20/pkg/types"
)

// Aliases of the data model, so that callers rarely import pkg/types.
type (
	Table    = types.Table
	Row      = types.Row
	Value    = types.Value
	DataType = types.DataType
	Column   = types.Column
)

// Parse parses a QVS20 document. The table does not share memory with data.
//
// Example:
//
//	table, err := qvs20.Parse(data)
func Parse(data []byte) (*types.Table, error) {
	return ParseWithOptions(data, DefaultReaderOptions())
}

// ParseString parses a QVS20 document held in a string.
func ParseString(input string) (*types.Table, error) {
	return Parse([]byte(input))
}

// ParseWithOptions parses a QVS20 document with custom options.
//
// Example:
//
//	opts := qvs20.DefaultReaderOptions()
//	opts.StrictEscapes = true
//	table, err := qvs20.ParseWithOptions(data, opts)
func ParseWithOptions(data []byte, opts ReaderOptions) (*types.Table, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return parser.NewParserWithOptions(data, opts.parserOptions()).Parse()
}

// ParseReader reads reader to the end and parses the result.
//
// Example:
//
//	file, err := os.Open("crates.qvs20")
//	if err != nil {
//	    // handle error
//	}
//	defer file.Close()
//	table, err := qvs20.ParseReader(file)
func ParseReader(reader io.Reader) (*types.Table, error) {
	return ParseReaderWithOptions(reader, DefaultReaderOptions())
}

// ParseReaderWithOptions is ParseReader with custom options.
func ParseReaderWithOptions(reader io.Reader, opts ReaderOptions) (*types.Table, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return ParseWithOptions(data, opts)
}

// Format returns the format identifier for this package.
func Format() string {
	return "QVS20"
}

// Validate checks if data is a well-formed QVS20 document.
//
//	if err := qvs20.Validate(data); err != nil {
//	    fmt.Println("Invalid QVS20:", err)
//	}
func Validate(data []byte) error {
	return ValidateWithOptions(data, DefaultReaderOptions())
}

// ValidateWithOptions checks data with custom options. Rows are checked one
// at a time and discarded.
func ValidateWithOptions(data []byte, opts ReaderOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	p := parser.NewParserWithOptions(data, opts.parserOptions())
	for {
		_, err := p.NextRow()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// ValidateReader reads reader to the end and validates the result.
func ValidateReader(reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	return Validate(data)
}
