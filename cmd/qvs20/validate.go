package main

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/shapestone/shape-qvs20/internal/fileio"
	"github.com/shapestone/shape-qvs20/pkg/qvs20"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check that files are well-formed QVS20 tables",
		Long: `Validate parses every file and reports all failures, not only the
first. Use - to read standard input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.readerOptions()
			result := newMultiError()
			for _, path := range args {
				data, err := fileio.ReadFile(path, cmd.InOrStdin())
				if err == nil {
					err = qvs20.ValidateWithOptions(data, opts)
				}
				if err != nil {
					log.Infof("%s: %v", path, err)
					result = multierror.Append(result, fmt.Errorf("%s: %w", path, err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", path)
			}
			return result.ErrorOrNil()
		},
	}
}
