package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const (
	colorRed   = "\x1b[31m"
	colorReset = "\x1b[0m"
)

// printError writes err to w, in red when w is a terminal.
func printError(w io.Writer, err error) {
	msg := "Error: " + err.Error()
	if isTerminal(w) {
		msg = colorRed + msg + colorReset
	}
	fmt.Fprintln(w, msg)
}

// listFormat renders the errors of a multierror one per line.
func listFormat(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = "  " + err.Error()
	}
	return fmt.Sprintf("%d file(s) failed:\n%s", len(errs), strings.Join(lines, "\n"))
}

func newMultiError() *multierror.Error {
	return &multierror.Error{ErrorFormat: listFormat}
}
