package qvs20

import (
	"fmt"

	"github.com/shapestone/shape-qvs20/pkg/types"
)

// NestedDelimiter returns the conventional row delimiter of a table at the
// given nesting depth: '\n' for the top level, then '1' through '9' and 'a'
// through 'z'. Deeper levels return 0, which no table accepts.
func NestedDelimiter(depth int) byte {
	switch {
	case depth <= 0:
		return types.DefaultRowDelimiter
	case depth <= 9:
		return '0' + byte(depth)
	case depth <= 35:
		return 'a' + byte(depth-10)
	default:
		return 0
	}
}

// TableValue encodes table as the value of a Table column in a parent
// table whose row delimiter is parentDelimiter. The nested table must use a
// different delimiter.
//
// Example:
//
//	inner := types.NewTable("tags", qvs20.NestedDelimiter(1), types.Column{Name: "tag", Type: types.TypeString})
//	v, err := qvs20.TableValue(inner, '\n')
func TableValue(table *types.Table, parentDelimiter byte) (types.Value, error) {
	if table == nil {
		return types.Value{}, fmt.Errorf("qvs20: TableValue(nil)")
	}
	if table.RowDelimiter == parentDelimiter {
		return types.Value{}, fmt.Errorf("qvs20: nested table %q uses the parent row delimiter %q", table.Name, parentDelimiter)
	}
	data, err := Marshal(table)
	if err != nil {
		return types.Value{}, err
	}
	return types.BytesValue(data), nil
}

// DecodeNested parses the value of a Table column. Set opts.RowDelimiter to
// require the delimiter of the expected nesting level.
//
// Example:
//
//	opts := qvs20.DefaultReaderOptions()
//	opts.RowDelimiter = qvs20.NestedDelimiter(1)
//	inner, err := qvs20.DecodeNested(row.Values[2], opts)
func DecodeNested(v types.Value, opts ReaderOptions) (*types.Table, error) {
	raw, ok := v.AsBytes()
	if !ok {
		return nil, fmt.Errorf("qvs20: %w: %s value is not a nested table", ErrTypeMismatch, v.Kind())
	}
	return ParseWithOptions(raw, opts)
}
