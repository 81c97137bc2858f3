package qvs20

import (
	"io"

	"github.com/shapestone/shape-qvs20/internal/parser"
	"github.com/shapestone/shape-qvs20/pkg/types"
)

// Scanner reads the data rows of a QVS20 document one at a time. The input
// is read into memory on the first call, then the schema is assembled and
// each Scan converts one more row.
//
// Example usage:
//
//	file, _ := os.Open("crates.qvs20")
//	defer file.Close()
//
//	scanner := qvs20.NewScanner(file)
//	for scanner.Scan() {
//	    row := scanner.Row()
//	    name, _ := row.Values[0].AsString()
//	    fmt.Println(name)
//	}
//	if err := scanner.Err(); err != nil {
//	    // handle error
//	}
type Scanner struct {
	reader  io.Reader
	opts    ReaderOptions
	parser  *parser.Parser
	row     types.Row
	err     error
	started bool
	done    bool
}

// NewScanner creates a Scanner with default options.
func NewScanner(reader io.Reader) *Scanner {
	return NewScannerWithOptions(reader, DefaultReaderOptions())
}

// NewScannerWithOptions creates a Scanner with custom options.
func NewScannerWithOptions(reader io.Reader, opts ReaderOptions) *Scanner {
	return &Scanner{reader: reader, opts: opts}
}

// Scan advances to the next data row. It returns false at the end of the
// input or on the first error, which Err then reports.
func (s *Scanner) Scan() bool {
	if s.done || !s.start() {
		return false
	}
	row, err := s.parser.NextRow()
	if err != nil {
		s.done = true
		s.row = types.Row{}
		if err != io.EOF {
			s.err = err
		}
		return false
	}
	s.row = row
	return true
}

// Row returns the current row. Rows are never modified after Scan returns
// them, so they may be retained.
func (s *Scanner) Row() types.Row {
	return s.row
}

// Schema returns the schema of the document, reading it if needed. It
// returns nil when the schema is malformed; Err explains why.
func (s *Scanner) Schema() *types.Table {
	s.start()
	if s.parser == nil {
		return nil
	}
	return s.parser.Schema()
}

// RowNumber returns the 1-based number of the current data row.
func (s *Scanner) RowNumber() int {
	if s.parser == nil {
		return 0
	}
	return s.parser.DataRows()
}

// Err returns the first error encountered. Reaching the end of the input is
// not an error.
func (s *Scanner) Err() error {
	return s.err
}

// start reads the input and the schema once.
func (s *Scanner) start() bool {
	if s.started {
		return s.err == nil
	}
	s.started = true
	if err := s.opts.Validate(); err != nil {
		s.fail(err)
		return false
	}
	data, err := io.ReadAll(s.reader)
	if err != nil {
		s.fail(err)
		return false
	}
	s.parser = parser.NewParserWithOptions(data, s.opts.parserOptions())
	if _, err := s.parser.ReadSchema(); err != nil {
		s.fail(err)
		return false
	}
	return true
}

func (s *Scanner) fail(err error) {
	s.err = err
	s.done = true
}
