package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-qvs20/internal/fileio"
	"github.com/shapestone/shape-qvs20/internal/sqlstore"
	"github.com/shapestone/shape-qvs20/pkg/qvs20"
)

func newSQLiteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sqlite",
		Short: "Store tables in a SQLite database",
		Long: `The sqlite commands copy tables between QVS20 files and the SQLite
database at sqlite_path (flag --db). Stored tables keep their types,
properties and row delimiter.`,
	}
	cmd.PersistentFlags().String("db", defaultSQLitePath, "SQLite database path")
	if err := a.v.BindPFlag(cfgKeySQLitePath, cmd.PersistentFlags().Lookup("db")); err != nil {
		panic(err)
	}
	cmd.AddCommand(newSQLiteExportCmd(a), newSQLiteImportCmd(a), newSQLiteListCmd(a))
	return cmd
}

func (a *app) openStore(ctx context.Context) (*sqlstore.Store, error) {
	path, err := a.sqlitePath()
	if err != nil {
		return nil, err
	}
	log.Debugf("opening %s", path)
	return sqlstore.Open(ctx, path)
}

func newSQLiteExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE...",
		Short: "Save tables into the database, replacing tables of the same name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			for _, path := range args {
				table, err := readTable(cmd, a, path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if err := store.Save(cmd.Context(), table); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d rows)\n", table.Name, len(table.Rows))
			}
			return nil
		},
	}
}

func newSQLiteImportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "import NAME",
		Short: "Write a stored table as QVS20",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			table, err := store.Load(cmd.Context(), args[0])
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

func newSQLiteListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			names, err := store.Tables(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
