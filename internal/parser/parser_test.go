package parser

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/shape-qvs20/internal/escape"
	"github.com/shapestone/shape-qvs20/internal/tokenizer"
	"github.com/shapestone/shape-qvs20/pkg/types"
)

func parse(t *testing.T, input string) *types.Table {
	t.Helper()
	table, err := NewParser([]byte(input)).Parse()
	require.NoError(t, err)
	return table
}

func TestParse_FullTable(t *testing.T) {
	table := parse(t, "[t]\n[String][String]\n[][]\n[name][description]\n[a][b]\n")

	assert.Equal(t, "t", table.Name)
	assert.Equal(t, byte('\n'), table.RowDelimiter)
	assert.Equal(t, []types.DataType{types.TypeString, types.TypeString}, table.DataTypes)
	assert.Equal(t, []string{"", ""}, table.AdditionalProperties)
	assert.Equal(t, []string{"name", "description"}, table.ColumnNames)
	require.Len(t, table.Rows, 1)
	assert.True(t, table.Rows[0].Equal(types.NewRow(types.StringValue("a"), types.StringValue("b"))))
	assert.NoError(t, table.Validate())
}

func TestParse_TypedRows(t *testing.T) {
	input := "[people]1" +
		"[String][Integer][Date][Bool][Decimal]1" +
		"[][pk][][][money]1" +
		"[name][id][born][active][balance]1" +
		"[Ann \\[A\\]][-7][1990-12-31][true][12.50]1" +
		"[line\\nbreak][42][][][]1"

	table := parse(t, input)
	assert.Equal(t, byte('1'), table.RowDelimiter)
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	assert.Equal(t, "Ann [A]", first.Values[0].String())
	id, ok := first.Values[1].AsInteger()
	assert.True(t, ok)
	assert.Equal(t, int64(-7), id)
	assert.Equal(t, types.KindBytes, first.Values[2].Kind())
	assert.Equal(t, "1990-12-31", first.Values[2].String())
	assert.Equal(t, "12.50", first.Values[4].String())

	second := table.Rows[1]
	assert.Equal(t, "line\nbreak", second.Values[0].String())
	assert.True(t, second.Values[2].Equal(types.NullValue()))
}

// TestParse_SchemaOnly pins a deliberate relaxation: the format calls for
// one or more data rows, but a table that ends after its four schema rows
// is accepted so that empty tables written by the Writer parse back.
// Rejecting it would break that round trip.
func TestParse_SchemaOnly(t *testing.T) {
	table := parse(t, "[empty]\n[Integer]\n[]\n[n]\n")
	assert.Empty(t, table.Rows)
	assert.Equal(t, []string{"n"}, table.ColumnNames)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		section error
		cause   error
		offset  int
	}{
		{"empty input", "", ErrInTableName, ErrMissingRow, 0},
		{"no field start", "t\n", ErrInTableName, tokenizer.ErrNoFieldStart, 0},
		{"unterminated name", "[t", ErrInTableName, tokenizer.ErrNoFieldEnd, 1},
		{"name without delimiter", "[t]", ErrInRowDelimiter, tokenizer.ErrNoLastRowDelimiter, 3},
		{"two fields in first row", "[t][u]\n", ErrInRowDelimiter, ErrFieldCount, 4},
		{"long delimiter", "[t]\r\n[String]\r\n", ErrInRowDelimiter, tokenizer.ErrRowDelimiterMoreThan1Byte, 3},
		{"reserved delimiter", "[t]][String]]", ErrInRowDelimiter, ErrReservedDelimiter, 3},
		{"missing types", "[t]\n", ErrInDataTypes, ErrMissingRow, 4},
		{"unknown type", "[t]\n[String][Money]\n", ErrInDataTypes, nil, 13},
		{"types delimiter mismatch", "[t]\n[String];[]\n[a]\n", ErrInDataTypes, ErrDelimiterMismatch, 12},
		{"missing properties", "[t]\n[String]\n", ErrInAdditionalProperties, ErrMissingRow, 13},
		{"too many properties", "[t]\n[String]\n[][]\n[a]\n", ErrInAdditionalProperties, ErrFieldCount, 16},
		{"too few properties", "[t]\n[String][String]\n[]\n[a][b]\n", ErrInAdditionalProperties, ErrFieldCount, 23},
		{"too few names", "[t]\n[String][String]\n[][]\n[a]\n", ErrInColumnNames, ErrFieldCount, 29},
		{"duplicate names", "[t]\n[String][String]\n[][]\n[x][x]\n", ErrInColumnNames, ErrDuplicateColumn, 30},
		{"short data row", "[t]\n[String][String]\n[][]\n[a][b]\n[1]\n", ErrInDataRow, ErrFieldCount, 36},
		{"long data row", "[t]\n[String]\n[]\n[a]\n[1][2]\n", ErrInDataRow, ErrFieldCount, 24},
		{"bad integer", "[t]\n[Integer]\n[]\n[a]\n[x1]\n", ErrInDataRow, nil, 22},
		{"bad date", "[t]\n[Date]\n[]\n[a]\n[2020-13-01]\n", ErrInDataRow, nil, 19},
		{"data delimiter mismatch", "[t]\n[String]\n[]\n[a]\n[v];[w]\n", ErrInDataRow, ErrDelimiterMismatch, 23},
		{"data without last delimiter", "[t]\n[String]\n[]\n[a]\n[v]", ErrInDataRow, tokenizer.ErrNoLastRowDelimiter, 23},
		{"premature end", "[t]\n[String]\n[]\n[a]\n[", ErrInDataRow, tokenizer.ErrPrematureEndOfFile, 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser([]byte(tt.input)).Parse()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.section), "want %v, got %v", tt.section, err)
			if tt.cause != nil {
				assert.True(t, errors.Is(err, tt.cause), "want cause %v, got %v", tt.cause, err)
			}
			var perr *Error
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.offset, perr.Offset, "error: %v", err)
		})
	}
}

func TestParse_DataRowNumbers(t *testing.T) {
	input := "[t]\n[Integer]\n[]\n[n]\n[1]\n[2]\n[three]\n"
	_, err := NewParser([]byte(input)).Parse()
	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.DataRow)
	assert.Equal(t, 1, perr.Column)
	assert.Equal(t, `error in data row 3, column 1 at byte 30: cannot convert "three" to Integer: strconv.ParseInt: parsing "three": invalid syntax`, err.Error())
}

func TestParse_StrictEscapes(t *testing.T) {
	input := "[t]\n[String]\n[]\n[a]\n[x\\qy]\n"

	table := parse(t, input)
	assert.Equal(t, "x?y", table.Rows[0].Values[0].String())

	_, err := NewParserWithOptions([]byte(input), Options{StrictEscapes: true}).Parse()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInDataRow))
	assert.True(t, errors.Is(err, escape.ErrUnknownEscape))
	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 22, perr.Offset)
}

func TestParse_InvalidUTF8Name(t *testing.T) {
	_, err := NewParser([]byte("[t]\n[String]\n[]\n[\xff]\n")).Parse()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInColumnNames))
	assert.True(t, errors.Is(err, ErrInvalidUTF8))
}

func TestParse_ExpectedDelimiter(t *testing.T) {
	input := "[t]1[String]1[]1[a]1[v]1"

	_, err := NewParserWithOptions([]byte(input), Options{RowDelimiter: '1'}).Parse()
	assert.NoError(t, err)

	_, err = NewParserWithOptions([]byte(input), Options{RowDelimiter: '\n'}).Parse()
	assert.True(t, errors.Is(err, ErrInRowDelimiter))
	assert.True(t, errors.Is(err, ErrDelimiterMismatch))
}

func TestNextRow(t *testing.T) {
	p := NewParser([]byte("[t]\n[Integer]\n[]\n[n]\n[1]\n[2]\n"))

	schema, err := p.ReadSchema()
	require.NoError(t, err)
	assert.Equal(t, []string{"n"}, schema.ColumnNames)
	assert.Same(t, schema, p.Schema())

	for want := int64(1); want <= 2; want++ {
		row, err := p.NextRow()
		require.NoError(t, err)
		n, _ := row.Values[0].AsInteger()
		assert.Equal(t, want, n)
	}
	_, err = p.NextRow()
	assert.Equal(t, io.EOF, err)
	_, err = p.NextRow()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 2, p.DataRows())
}

func TestNextRow_ErrorIsSticky(t *testing.T) {
	p := NewParser([]byte("[t]\n[Integer]\n[]\n[n]\n[x]\n[1]\n"))
	_, err := p.NextRow()
	require.Error(t, err)
	_, again := p.NextRow()
	assert.Same(t, err, again)
}

func TestReadSchema_ErrorIsSticky(t *testing.T) {
	p := NewParser([]byte("[t]\n[Nope]\n"))
	_, err := p.ReadSchema()
	require.Error(t, err)
	_, again := p.NextRow()
	assert.Same(t, err, again)
	assert.Nil(t, p.Schema())
}

func TestError_Message(t *testing.T) {
	err := &Error{Section: ErrInColumnNames, Column: 2, Offset: 30, Msg: `"x" already names column 1`, Err: ErrDuplicateColumn}
	assert.Equal(t, `error in column names, column 2 at byte 30: "x" already names column 1: duplicate column name`, err.Error())
	assert.False(t, errors.Is(err, ErrInDataRow))
}
