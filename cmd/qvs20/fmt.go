package main

import (
	"github.com/spf13/cobra"

	"github.com/shapestone/shape-qvs20/internal/fileio"
	"github.com/shapestone/shape-qvs20/pkg/qvs20"
)

func newFmtCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "fmt [FILE]",
		Short: "Rewrite a table in canonical form",
		Long: `Fmt parses a table and writes it back with minimal escaping and the
configured row delimiter. It reads standard input when FILE is omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := readTable(cmd, a, inputArg(args))
			if err != nil {
				return err
			}
			wopts, err := a.writerOptions()
			if err != nil {
				return err
			}
			data, err := qvs20.MarshalWithOptions(table, wopts)
			if err != nil {
				return err
			}
			return fileio.WriteFile(output, data, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", fileio.Stdio, "output file, .zst compresses")
	return cmd
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return fileio.Stdio
	}
	return args[0]
}

func readTable(cmd *cobra.Command, a *app, path string) (*qvs20.Table, error) {
	data, err := fileio.ReadFile(path, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	table, err := qvs20.ParseWithOptions(data, a.readerOptions())
	if err != nil {
		return nil, err
	}
	log.Debugf("read table %q from %s: %d columns, %d rows", table.Name, path, table.ColumnCount(), len(table.Rows))
	return table, nil
}
