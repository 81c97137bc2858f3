package qvs20

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/shape-qvs20/pkg/types"
)

func TestNestedDelimiter(t *testing.T) {
	assert.Equal(t, byte('\n'), NestedDelimiter(0))
	assert.Equal(t, byte('1'), NestedDelimiter(1))
	assert.Equal(t, byte('9'), NestedDelimiter(9))
	assert.Equal(t, byte('a'), NestedDelimiter(10))
	assert.Equal(t, byte('z'), NestedDelimiter(35))
	assert.Equal(t, byte(0), NestedDelimiter(36))
}

func TestNestedTables(t *testing.T) {
	tags := types.NewTable("tags", NestedDelimiter(1),
		types.Column{Name: "tag", Type: types.TypeString},
	)
	tags.Rows = []types.Row{
		types.NewRow(types.StringValue("parser")),
		types.NewRow(types.StringValue("no[std]")),
	}

	v, err := TableValue(tags, NestedDelimiter(0))
	require.NoError(t, err)

	outer := types.NewTable("crates", NestedDelimiter(0),
		types.Column{Name: "name", Type: types.TypeString},
		types.Column{Name: "tags", Type: types.TypeTable},
	)
	outer.Rows = []types.Row{types.NewRow(types.StringValue("serde"), v)}

	data, err := Marshal(outer)
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	require.True(t, outer.Equal(back))

	opts := DefaultReaderOptions()
	opts.RowDelimiter = NestedDelimiter(1)
	inner, err := DecodeNested(back.Rows[0].Values[1], opts)
	require.NoError(t, err)
	assert.True(t, tags.Equal(inner))

	opts.RowDelimiter = NestedDelimiter(2)
	_, err = DecodeNested(back.Rows[0].Values[1], opts)
	assert.True(t, errors.Is(err, ErrDelimiterMismatch))
}

func TestTableValue_SameDelimiter(t *testing.T) {
	inner := types.NewTable("x", '\n', types.Column{Name: "a", Type: types.TypeString})
	_, err := TableValue(inner, '\n')
	assert.Error(t, err)

	_, err = TableValue(nil, '\n')
	assert.Error(t, err)
}

func TestDecodeNested_WrongValue(t *testing.T) {
	_, err := DecodeNested(types.StringValue("[t]1"), DefaultReaderOptions())
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}
