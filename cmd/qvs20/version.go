package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-qvs20/pkg/qvs20"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "qvs20 %s (%s format, %s)\n", version, qvs20.Format(), runtime.Version())
		},
	}
}
