// Command bloomstat is a benchmark and sizing harness for bloomkit
// filters. It is an external collaborator of the core engine (§1): the
// core never imports it, and none of its flags or output formats are
// part of the persistence contract in §6.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "bloomstat",
		Short:         "Size, build, and benchmark bloomkit filters",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newInspectCommand())
	root.AddCommand(newBuildCommand())
	root.AddCommand(newBenchCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bloomstat: %v\n", err)
		os.Exit(1)
	}
}
