package main

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-qvs20/internal/crates"
	"github.com/shapestone/shape-qvs20/internal/fileio"
)

func newCratesCmd(a *app) *cobra.Command {
	var cratesPath, versionsPath, output string
	cmd := &cobra.Command{
		Use:   "crates",
		Short: "Build the crates table from a crates.io database dump",
		Long: `Crates reads crates.csv and versions.csv from a crates.io database dump
and writes a table with the name, description, repository, id and the
greatest version that was not yanked of every crate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vf, err := os.Open(versionsPath)
			if err != nil {
				return err
			}
			versions, err := crates.LatestVersions(vf)
			vf.Close()
			if err != nil {
				return err
			}
			log.Infof("found versions for %d crates", len(versions))

			cf, err := os.Open(cratesPath)
			if err != nil {
				return err
			}
			defer cf.Close()

			var out bytes.Buffer
			if _, err := crates.Convert(cmd.Context(), cf, versions, &out); err != nil {
				return err
			}
			return fileio.WriteFile(output, out.Bytes(), cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVar(&cratesPath, "crates", "database/data/crates.csv", "path of crates.csv")
	f.StringVar(&versionsPath, "versions", "database/data/versions.csv", "path of versions.csv")
	f.StringVarP(&output, "output", "o", "crates.qvs20", "output file, .zst compresses")
	return cmd
}
