package main

import (
	"fmt"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/zipserve/zipserve/internal/archidx"
	"github.com/zipserve/zipserve/internal/config"
)

type benchOptions struct {
	file  string
	dir   string
	depth int
	jobs  int
}

func newBenchCmd() *cobra.Command {
	opts := &benchOptions{}

	cmd := &cobra.Command{
		Use:   benchHelpTextUse,
		Short: benchHelpTextShort,
		Long:  benchHelpTextLong,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBench(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "archive to benchmark")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "directory of archives to benchmark")
	cmd.Flags().IntVar(&opts.depth, "depth", -1, "directory recursion depth (-1 for unbounded)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 4, "number of worker goroutines")

	cmd.MarkFlagsMutuallyExclusive("file", "dir")
	cmd.MarkFlagsOneRequired("file", "dir")

	return cmd
}

func runBench(opts *benchOptions) error {
	if opts.file != "" {
		return runBenchFile(opts.file, opts.jobs)
	}

	return runBenchDir(opts.dir, opts.depth, opts.jobs)
}

// runBenchFile matches the original's read_file: a single-thread pass
// and a parallel pass are both timed and reported for one archive.
func runBenchFile(path string, jobs int) error {
	r, err := archidx.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidInput, err)
	}
	defer r.Close()

	var stCount, stSize atomic.Int64

	stCb := archidx.NewCallback(func(entry archidx.Entry, _ int, _ string) {
		stCount.Add(1)
		stSize.Add(int64(entry.Size))
	})

	stElapsed, err := archidx.IndexSingle(r, stCb)
	if err != nil {
		return err
	}

	fmt.Printf("[INFO] ST iteration done.\n Time: %s\n File count: %d\n File size: %s\n",
		stElapsed, stCount.Load(), humanize.IBytes(uint64(stSize.Load())))

	var mtCount, mtSize atomic.Int64

	mtCb := archidx.NewCallback(func(entry archidx.Entry, _ int, _ string) {
		mtCount.Add(1)
		mtSize.Add(int64(entry.Size))
	})

	workers := config.ClampWorkers(jobs, r.Len())

	mtElapsed, err := archidx.IndexParallel(r, mtCb, workers)
	if err != nil {
		return err
	}

	fmt.Printf("[INFO] MT (%d workers) iteration done.\n Time: %s\n File count: %d\n File size: %s\n",
		workers, mtElapsed, mtCount.Load(), humanize.IBytes(uint64(mtSize.Load())))

	return nil
}

// runBenchDir matches the original's read_dir: only the parallel
// multi-archive pass is timed.
func runBenchDir(dir string, depth, jobs int) error {
	var count, size atomic.Int64

	cb := archidx.NewCallback(func(entry archidx.Entry, _ int, _ string) {
		count.Add(1)
		size.Add(int64(entry.Size))
	})

	elapsed, err := archidx.IndexMulti(dir, depth, cb, jobs)
	if err != nil {
		return err
	}

	fmt.Printf("[INFO] DIR iteration done.\n Time: %s\n File count: %d\n File size: %s\n",
		elapsed, count.Load(), humanize.IBytes(uint64(size.Load())))

	return nil
}
