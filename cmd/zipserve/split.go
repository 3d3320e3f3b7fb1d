package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zipserve/zipserve/internal/config"
	"github.com/zipserve/zipserve/internal/splitpipe"
)

type splitOptions struct {
	input       string
	output      string
	jobs        int
	channelSize int
	threadDelay int
	sortBy      string
	quiet       bool
	verbose     bool
}

func newSplitCmd() *cobra.Command {
	opts := &splitOptions{}

	cmd := &cobra.Command{
		Use:   splitHelpTextUse,
		Short: splitHelpTextShort,
		Long:  splitHelpTextLong,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runSplit(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "archive to split")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "destination directory for output archives")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 4, "number of writer workers")
	cmd.Flags().IntVar(&opts.channelSize, "channel-size", 512, "bounded channel capacity between producer and workers")
	cmd.Flags().IntVar(&opts.threadDelay, "thread-delay", 0, "artificial per-worker startup delay, in milliseconds")
	cmd.Flags().StringVar(&opts.sortBy, "sort-by", "name", `entry ordering policy: "name", "size", or "time"`)
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "overwrite an existing destination without prompting")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every entry as it is sent and received")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runSplit(opts *splitOptions) error {
	sortField, err := config.ParseSortField(opts.sortBy)
	if err != nil {
		return err
	}

	elapsed, err := splitpipe.Run(splitpipe.Options{
		Input:       opts.input,
		Output:      opts.output,
		Workers:     opts.jobs,
		ChannelSize: opts.channelSize,
		ThreadDelay: time.Duration(opts.threadDelay) * time.Millisecond,
		Quiet:       opts.quiet,
		Verbose:     opts.verbose,
		SortBy:      sortField,
		Confirm:     confirmOverwrite,
		Log: func(format string, args ...any) {
			fmt.Printf("[INFO] "+format+"\n", args...)
		},
	})
	if err != nil {
		return err
	}

	fmt.Printf("[INFO] Split done in %s.\n", elapsed)

	return nil
}

// confirmOverwrite reads a y/yes answer from stdin, defaulting to abort
// on anything else, matching the original's interactive prompt.
func confirmOverwrite(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))

	return answer == "y" || answer == "yes"
}
