package qvs20

import (
	"bufio"
	"fmt"
	"io"

	"github.com/shapestone/shape-qvs20/internal/escape"
	"github.com/shapestone/shape-qvs20/pkg/types"
)

// Writer emits a QVS20 document value by value against a schema. The schema
// rows are written before the first value, and the row delimiter after the
// last column of every row.
//
// Writes are buffered. Call Close once all rows are written; it writes the
// schema of a table without rows and flushes.
//
// Example:
//
//	w, err := qvs20.NewWriter(os.Stdout, types.NewTable("people", '\n',
//	    types.Column{Name: "name", Type: types.TypeString},
//	    types.Column{Name: "age", Type: types.TypeInteger},
//	))
//	if err != nil {
//	    // handle error
//	}
//	w.WriteString("Alice")
//	w.WriteInteger(30)
//	if err := w.Close(); err != nil {
//	    // handle error
//	}
type Writer struct {
	w       *bufio.Writer
	schema  *types.Table
	delim   byte
	col     int
	rows    int
	started bool
	closed  bool
	err     error
	scratch []byte
}

// NewWriter returns a Writer for tables of the given schema. Rows of schema
// are ignored.
func NewWriter(w io.Writer, schema *types.Table) (*Writer, error) {
	return NewWriterWithOptions(w, schema, DefaultWriterOptions())
}

// NewWriterWithOptions returns a Writer with custom options.
func NewWriterWithOptions(w io.Writer, schema *types.Table, opts WriterOptions) (*Writer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, fmt.Errorf("qvs20: %w: nil schema", types.ErrInvalidTable)
	}
	s := schema.Schema()
	if opts.RowDelimiter != 0 {
		s.RowDelimiter = opts.RowDelimiter
	}
	if err := s.ValidateSchema(); err != nil {
		return nil, fmt.Errorf("qvs20: %w", err)
	}
	return &Writer{
		w:      bufio.NewWriter(w),
		schema: s,
		delim:  s.RowDelimiter,
	}, nil
}

// Schema returns the schema the writer emits.
func (w *Writer) Schema() *types.Table {
	return w.schema
}

// Rows returns the number of complete data rows written.
func (w *Writer) Rows() int {
	return w.rows
}

// WriteHeader writes the four schema rows. It is called implicitly by the
// first write and does nothing after that.
func (w *Writer) WriteHeader() error {
	if err := w.check(); err != nil {
		return err
	}
	if w.started {
		return nil
	}
	w.started = true

	w.writeField([]byte(w.schema.Name))
	w.w.WriteByte(w.delim)
	for _, dt := range w.schema.DataTypes {
		w.writeField([]byte(dt.String()))
	}
	w.w.WriteByte(w.delim)
	for _, prop := range w.schema.AdditionalProperties {
		w.writeField([]byte(prop))
	}
	w.w.WriteByte(w.delim)
	for _, name := range w.schema.ColumnNames {
		w.writeField([]byte(name))
	}
	return w.setErr(w.w.WriteByte(w.delim))
}

// WriteValue writes the value of the next column. The value must fit the
// column's data type, otherwise ErrTypeMismatch is returned and nothing is
// written.
func (w *Writer) WriteValue(v types.Value) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.checkValue(w.col, v); err != nil {
		return err
	}
	w.writeValue(v)
	return w.err
}

// WriteString writes a String value.
func (w *Writer) WriteString(s string) error {
	return w.WriteValue(types.StringValue(s))
}

// WriteInteger writes an Integer value.
func (w *Writer) WriteInteger(i int64) error {
	return w.WriteValue(types.IntegerValue(i))
}

// WriteRow writes a complete row. It fails without writing anything when a
// row is in progress, when the row has the wrong length or when any value
// does not fit its column.
func (w *Writer) WriteRow(row types.Row) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	n := w.schema.ColumnCount()
	switch {
	case w.col != 0:
		return fmt.Errorf("qvs20: %w: %d of %d values written", ErrIncompleteRow, w.col, n)
	case len(row.Values) > n:
		return fmt.Errorf("qvs20: %w: got %d, want %d", ErrTooManyValues, len(row.Values), n)
	case len(row.Values) < n:
		return fmt.Errorf("qvs20: %w: got %d values, want %d", ErrIncompleteRow, len(row.Values), n)
	}
	for i, v := range row.Values {
		if err := w.checkValue(i, v); err != nil {
			return err
		}
	}
	for _, v := range row.Values {
		w.writeValue(v)
	}
	return w.err
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.setErr(w.w.Flush())
}

// Close writes the schema if nothing was written yet and flushes. It fails
// with ErrIncompleteRow when a row is partially written. The underlying
// writer is not closed.
func (w *Writer) Close() error {
	if w.closed {
		return w.err
	}
	if w.col != 0 {
		return fmt.Errorf("qvs20: %w: %d of %d values written", ErrIncompleteRow, w.col, w.schema.ColumnCount())
	}
	if err := w.WriteHeader(); err != nil {
		return err
	}
	err := w.Flush()
	w.closed = true
	return err
}

func (w *Writer) check() error {
	if w.err != nil {
		return w.err
	}
	if w.closed {
		return ErrWriterClosed
	}
	return nil
}

func (w *Writer) checkValue(col int, v types.Value) error {
	dt := w.schema.DataTypes[col]
	if err := types.CheckValue(dt, v); err != nil {
		return fmt.Errorf("qvs20: %w: column %q: %w", ErrTypeMismatch, w.schema.ColumnNames[col], err)
	}
	return nil
}

// writeValue writes a checked value and the row delimiter after the last
// column.
func (w *Writer) writeValue(v types.Value) {
	w.writeField(v.Text())
	w.col++
	if w.col == w.schema.ColumnCount() {
		w.setErr(w.w.WriteByte(w.delim))
		w.col = 0
		w.rows++
	}
}

func (w *Writer) writeField(raw []byte) {
	w.scratch = append(w.scratch[:0], '[')
	w.scratch = escape.AppendEscaped(w.scratch, raw)
	w.scratch = append(w.scratch, ']')
	_, err := w.w.Write(w.scratch)
	w.setErr(err)
}

func (w *Writer) setErr(err error) error {
	if err != nil && w.err == nil {
		w.err = err
	}
	return w.err
}
