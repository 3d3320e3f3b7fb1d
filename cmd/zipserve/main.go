/*
zipserve indexes large collections of ZIP archives and exposes them as a
benchmarkable, splittable, and servable virtual filesystem.
*/
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zipserve/zipserve/internal/logging"
)

// Version is the program version (filled in from the build system).
var Version string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           helpTextUse,
		Short:         helpTextShort,
		Long:          helpTextLong,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newBenchCmd())
	root.AddCommand(newSplitCmd())
	root.AddCommand(newServeCmd())

	return root
}
