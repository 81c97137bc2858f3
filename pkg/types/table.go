package types

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidTable is wrapped by every invariant violation Validate reports.
var ErrInvalidTable = errors.New("invalid table")

// DefaultRowDelimiter is the conventional delimiter of a top-level table.
const DefaultRowDelimiter = '\n'

// Table is a schema plus the rows that follow it.
type Table struct {
	// Name is the table name from the first schema row.
	Name string
	// RowDelimiter is the single byte that ends every row.
	RowDelimiter byte
	// DataTypes holds one declared type per column.
	DataTypes []DataType
	// AdditionalProperties holds free-form metadata, one entry per column.
	AdditionalProperties []string
	// ColumnNames holds the pairwise-distinct column names.
	ColumnNames []string
	// Rows holds the data rows in order.
	Rows []Row
}

// Column describes one column of a schema.
type Column struct {
	Name     string
	Type     DataType
	Property string
}

// NewTable returns an empty table with the given columns.
func NewTable(name string, delimiter byte, columns ...Column) *Table {
	t := &Table{
		Name:                 name,
		RowDelimiter:         delimiter,
		DataTypes:            make([]DataType, 0, len(columns)),
		AdditionalProperties: make([]string, 0, len(columns)),
		ColumnNames:          make([]string, 0, len(columns)),
	}
	for _, c := range columns {
		t.DataTypes = append(t.DataTypes, c.Type)
		t.AdditionalProperties = append(t.AdditionalProperties, c.Property)
		t.ColumnNames = append(t.ColumnNames, c.Name)
	}
	return t
}

// ColumnCount returns the number of declared columns.
func (t *Table) ColumnCount() int {
	return len(t.DataTypes)
}

// Columns returns the schema as a slice of Column.
func (t *Table) Columns() []Column {
	cols := make([]Column, len(t.DataTypes))
	for i := range cols {
		cols[i].Type = t.DataTypes[i]
		if i < len(t.ColumnNames) {
			cols[i].Name = t.ColumnNames[i]
		}
		if i < len(t.AdditionalProperties) {
			cols[i].Property = t.AdditionalProperties[i]
		}
	}
	return cols
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, n := range t.ColumnNames {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

// Schema returns a copy of t without rows.
func (t *Table) Schema() *Table {
	return &Table{
		Name:                 t.Name,
		RowDelimiter:         t.RowDelimiter,
		DataTypes:            append([]DataType(nil), t.DataTypes...),
		AdditionalProperties: append([]string(nil), t.AdditionalProperties...),
		ColumnNames:          append([]string(nil), t.ColumnNames...),
	}
}

// ValidRowDelimiter reports whether b may delimit rows. NUL and the three
// bracket and escape bytes are reserved.
func ValidRowDelimiter(b byte) bool {
	return b != 0 && b != '[' && b != ']' && b != '\\'
}

// ValidateSchema checks the schema invariants: at least one column, equal
// lengths of the three schema rows, known types, distinct names and a usable
// row delimiter.
func (t *Table) ValidateSchema() error {
	if !ValidRowDelimiter(t.RowDelimiter) {
		return invalid("row delimiter %q is reserved", t.RowDelimiter)
	}
	if !utf8.ValidString(t.Name) {
		return invalid("table name is not valid UTF-8")
	}
	n := len(t.DataTypes)
	if n == 0 {
		return invalid("at least one column is required")
	}
	if len(t.AdditionalProperties) != n {
		return invalid("%d additional properties for %d columns", len(t.AdditionalProperties), n)
	}
	if len(t.ColumnNames) != n {
		return invalid("%d column names for %d columns", len(t.ColumnNames), n)
	}
	for i, dt := range t.DataTypes {
		if !dt.Valid() {
			return invalid("column %d has invalid data type %d", i, dt)
		}
		if !utf8.ValidString(t.AdditionalProperties[i]) {
			return invalid("column %d property is not valid UTF-8", i)
		}
		if !utf8.ValidString(t.ColumnNames[i]) {
			return invalid("column %d name is not valid UTF-8", i)
		}
	}
	seen := make(map[string]int, n)
	for i, name := range t.ColumnNames {
		if j, dup := seen[name]; dup {
			return invalid("column %d repeats the name %q of column %d", i, name, j)
		}
		seen[name] = i
	}
	return nil
}

// Validate checks the schema invariants and that every row has one
// well-formed value per column.
func (t *Table) Validate() error {
	if err := t.ValidateSchema(); err != nil {
		return err
	}
	for r, row := range t.Rows {
		if err := t.ValidateRow(row); err != nil {
			return fmt.Errorf("row %d: %w", r, err)
		}
	}
	return nil
}

// ValidateRow checks a single row against the schema.
func (t *Table) ValidateRow(row Row) error {
	if len(row.Values) != len(t.DataTypes) {
		return invalid("%d values for %d columns", len(row.Values), len(t.DataTypes))
	}
	for i, v := range row.Values {
		if err := CheckValue(t.DataTypes[i], v); err != nil {
			return fmt.Errorf("%w: column %q: %w", ErrInvalidTable, t.ColumnNames[i], err)
		}
	}
	return nil
}

// Equal reports whether both tables have the same schema and rows.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Name != other.Name || t.RowDelimiter != other.RowDelimiter {
		return false
	}
	if !equalSlices(t.DataTypes, other.DataTypes) ||
		!equalSlices(t.AdditionalProperties, other.AdditionalProperties) ||
		!equalSlices(t.ColumnNames, other.ColumnNames) {
		return false
	}
	if len(t.Rows) != len(other.Rows) {
		return false
	}
	for i := range t.Rows {
		if !t.Rows[i].Equal(other.Rows[i]) {
			return false
		}
	}
	return true
}

func equalSlices[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidTable, fmt.Sprintf(format, args...))
}
