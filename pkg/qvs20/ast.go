package qvs20

import (
	"fmt"
	"strconv"

	"github.com/shapestone/shape-core/pkg/ast"

	"github.com/shapestone/shape-qvs20/pkg/types"
)

// ToAST converts a table into Shape's unified AST. The result has the same
// shape as the CSV parser's: an array of records whose first record holds
// the column names. String values become string literals, Integer values
// int64 literals and every other value its text.
func ToAST(table *types.Table) *ast.ArrayDataNode {
	records := make([]ast.SchemaNode, 0, len(table.Rows)+1)

	header := make([]ast.SchemaNode, len(table.ColumnNames))
	for i, name := range table.ColumnNames {
		header[i] = ast.NewLiteralNode(name, ast.ZeroPosition())
	}
	records = append(records, ast.NewArrayDataNode(header, ast.ZeroPosition()))

	for _, row := range table.Rows {
		fields := make([]ast.SchemaNode, len(row.Values))
		for i, v := range row.Values {
			fields[i] = ast.NewLiteralNode(literal(v), ast.ZeroPosition())
		}
		records = append(records, ast.NewArrayDataNode(fields, ast.ZeroPosition()))
	}

	return ast.NewArrayDataNode(records, ast.ZeroPosition())
}

func literal(v types.Value) interface{} {
	if n, ok := v.AsInteger(); ok {
		return n
	}
	return v.String()
}

// FromAST builds a table of the given schema from an AST produced by ToAST
// or by the CSV parser. The first record must repeat the schema's column
// names; every other record becomes a row.
func FromAST(node ast.SchemaNode, schema *types.Table) (*types.Table, error) {
	arrayNode, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("expected *ast.ArrayDataNode, got %T", node)
	}
	if arrayNode.Len() == 0 {
		return nil, fmt.Errorf("expected a header record")
	}

	table := schema.Schema()
	for i, elem := range arrayNode.Elements() {
		recordNode, ok := elem.(*ast.ArrayDataNode)
		if !ok {
			return nil, fmt.Errorf("expected record to be *ast.ArrayDataNode, got %T", elem)
		}
		if recordNode.Len() != table.ColumnCount() {
			return nil, fmt.Errorf("record %d: %w: got %d fields, want %d", i, ErrFieldCount, recordNode.Len(), table.ColumnCount())
		}

		if i == 0 {
			for col, fieldNode := range recordNode.Elements() {
				name, err := literalText(fieldNode)
				if err != nil {
					return nil, fmt.Errorf("header: %w", err)
				}
				if name != table.ColumnNames[col] {
					return nil, fmt.Errorf("header: column %d is %q, want %q", col+1, name, table.ColumnNames[col])
				}
			}
			continue
		}

		values := make([]types.Value, 0, recordNode.Len())
		for col, fieldNode := range recordNode.Elements() {
			v, err := astValue(fieldNode, table.DataTypes[col])
			if err != nil {
				return nil, fmt.Errorf("record %d, column %q: %w", i, table.ColumnNames[col], err)
			}
			values = append(values, v)
		}
		table.Rows = append(table.Rows, types.NewRow(values...))
	}
	return table, nil
}

func literalText(node ast.SchemaNode) (string, error) {
	literalNode, ok := node.(*ast.LiteralNode)
	if !ok {
		return "", fmt.Errorf("expected field to be *ast.LiteralNode, got %T", node)
	}
	switch v := literalNode.Value().(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("unsupported literal type %T", v)
	}
}

func astValue(node ast.SchemaNode, dt types.DataType) (types.Value, error) {
	if literalNode, ok := node.(*ast.LiteralNode); ok && dt == types.TypeInteger {
		switch n := literalNode.Value().(type) {
		case int64:
			return types.IntegerValue(n), nil
		case int:
			return types.IntegerValue(int64(n)), nil
		}
	}
	text, err := literalText(node)
	if err != nil {
		return types.Value{}, err
	}
	return types.ParseText(dt, []byte(text))
}
