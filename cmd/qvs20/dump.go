package main

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shapestone/shape-qvs20/pkg/types"
)

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump [FILE]",
		Short: "Print a table as YAML",
		Long: `Dump prints the schema and the rows of a table as a YAML document.
Rows are mappings in column order. Integer, Float and Bool values are
typed scalars, empty values of other non-string types are null.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := readTable(cmd, a, inputArg(args))
			if err != nil {
				return err
			}
			return dumpYAML(cmd.OutOrStdout(), table)
		},
	}
}

func dumpYAML(w io.Writer, table *types.Table) error {
	columns := &yaml.Node{Kind: yaml.SequenceNode}
	for _, c := range table.Columns() {
		columns.Content = append(columns.Content, mapping(
			"name", str(c.Name),
			"type", str(c.Type.String()),
			"property", str(c.Property),
		))
	}

	rows := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range table.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, v := range row.Values {
			m.Content = append(m.Content, str(table.ColumnNames[i]), scalar(v, table.DataTypes[i]))
		}
		rows.Content = append(rows.Content, m)
	}

	doc := mapping(
		"table", str(table.Name),
		"row_delimiter", str(string(table.RowDelimiter)),
		"columns", columns,
		"rows", rows,
	)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{doc}}); err != nil {
		return err
	}
	return enc.Close()
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// mapping builds a mapping node from alternating keys and values.
func mapping(pairs ...interface{}) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i < len(pairs); i += 2 {
		m.Content = append(m.Content, str(pairs[i].(string)), pairs[i+1].(*yaml.Node))
	}
	return m
}

func scalar(v types.Value, dt types.DataType) *yaml.Node {
	if n, ok := v.AsInteger(); ok {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(n, 10)}
	}
	raw, ok := v.AsBytes()
	if !ok {
		return str(v.String())
	}
	if len(raw) == 0 {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	switch dt {
	case types.TypeFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: string(raw)}
	case types.TypeBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: string(raw)}
	case types.TypeTable:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(raw), Style: yaml.LiteralStyle}
	}
	return str(string(raw))
}
