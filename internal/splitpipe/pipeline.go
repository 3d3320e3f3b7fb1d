package splitpipe

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/zipserve/zipserve/internal/archidx"
	"github.com/zipserve/zipserve/internal/config"
)

// Options configures one run of the split pipeline.
type Options struct {
	Input       string
	Output      string
	Workers     int
	ChannelSize int
	ThreadDelay time.Duration
	Quiet       bool
	Verbose     bool
	SortBy      config.SortField

	// Confirm is called when Output already exists and Quiet is false; it
	// must return true to proceed with removal. Left nil, the pipeline
	// refuses to touch an existing non-quiet destination.
	Confirm func(prompt string) bool

	// Log receives progress lines; nil discards them.
	Log func(format string, args ...any)
}

type controlCommand struct {
	shutdown bool
	name     string
	content  []byte
}

// Run executes the three-stage split pipeline and returns the elapsed
// time of the whole operation (including the index & sort pass).
func Run(opts Options) (time.Duration, error) {
	start := time.Now()

	if err := prepareOutputDir(opts); err != nil {
		return time.Since(start), err
	}

	opts.logf("Indexing...")

	order, err := indexAndSort(opts.Input, opts.SortBy)
	if err != nil {
		return time.Since(start), err
	}

	ch := make(chan controlCommand, opts.ChannelSize)

	opts.logf("Splitting...")

	var wg sync.WaitGroup

	errs := make(chan error, opts.Workers+1)

	for i := range opts.Workers {
		wg.Go(func() {
			if err := runConsumer(opts, i, ch); err != nil {
				errs <- fmt.Errorf("consumer %d: %w", i, err)
			}
		})
	}

	if err := runProducer(opts, order, ch); err != nil {
		errs <- fmt.Errorf("producer: %w", err)
	}

	wg.Wait()
	close(errs)

	for e := range errs {
		if e != nil {
			return time.Since(start), e
		}
	}

	return time.Since(start), nil
}

func (o Options) logf(format string, args ...any) {
	if o.Log != nil {
		o.Log(format, args...)
	}
}

// prepareOutputDir removes a pre-existing destination (silently under
// Quiet, otherwise via Confirm) and (re)creates it.
func prepareOutputDir(opts Options) error {
	if _, err := os.Stat(opts.Output); err == nil {
		if !opts.Quiet {
			if opts.Confirm == nil || !opts.Confirm("Target already exists. Overwrite?") {
				return fmt.Errorf("%w: destination %q exists and was not confirmed for removal", config.ErrInvalidInput, opts.Output)
			}
		}

		if err := os.RemoveAll(opts.Output); err != nil {
			return fmt.Errorf("failed to remove existing destination %q: %w", opts.Output, err)
		}
	}

	if err := os.MkdirAll(opts.Output, 0o755); err != nil {
		return fmt.Errorf("failed to create destination %q: %w", opts.Output, err)
	}

	return nil
}

// indexAndSort runs the single-archive indexer over the input with a
// callback that records each entry's SortKey, then returns the entry
// indexes in SortKey order.
func indexAndSort(input string, sortBy config.SortField) ([]int, error) {
	r, err := archidx.Open(input)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var mu sync.Mutex

	keyed := make(map[string]int)

	var sortErr error

	cb := archidx.NewCallback(func(entry archidx.Entry, index int, _ string) {
		key, err := SortKey(sortBy, entry)

		mu.Lock()
		defer mu.Unlock()

		if err != nil {
			if sortErr == nil {
				sortErr = err
			}

			return
		}

		keyed[key] = index
	})

	if _, err := archidx.IndexSingle(r, cb); err != nil {
		return nil, err
	}
	if sortErr != nil {
		return nil, sortErr
	}

	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	order := make([]int, 0, len(keys))
	for _, k := range keys {
		order = append(order, keyed[k])
	}

	return order, nil
}

// runProducer streams each entry's bytes (in SortKey order) onto ch, then
// emits one shutdown signal per consumer. The shutdown signals are sent
// even on error, so a failing producer never strands the consumers
// blocked on an empty, never-closed channel.
func runProducer(opts Options, order []int, ch chan<- controlCommand) error {
	defer func() {
		for range opts.Workers {
			ch <- controlCommand{shutdown: true}
		}
	}()

	r, err := archidx.Open(opts.Input)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, idx := range order {
		entry, err := r.ByIndex(idx)
		if err != nil {
			return err
		}

		data, err := r.EntryBytes(idx)
		if err != nil {
			return err
		}

		if opts.Verbose {
			opts.logf("Sending file %s...", entry.Name)
		}

		ch <- controlCommand{name: entry.Name, content: data}
	}

	return nil
}

// runConsumer owns output archive index, and loops receiving entries
// from ch until it sees a shutdown signal, finalizing its archive after.
func runConsumer(opts Options, index int, ch <-chan controlCommand) error {
	if opts.Verbose {
		opts.logf("[RECV %d] Thread initializing...", index)
	}

	if opts.ThreadDelay > 0 {
		time.Sleep(opts.ThreadDelay)
	}

	if opts.Verbose {
		opts.logf("[RECV %d] Thread initialized.", index)
	}

	outPath := filepath.Join(opts.Output, outputArchiveName(opts.Input, index))

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output archive %q: %w", outPath, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	for cmd := range ch {
		if cmd.shutdown {
			break
		}

		if opts.Verbose {
			opts.logf("[RECV %d] File %s received.", index, cmd.name)
		}

		w, err := zw.Create(cmd.name)
		if err != nil {
			return fmt.Errorf("failed to start entry %q in %q: %w", cmd.name, outPath, err)
		}

		if _, err := io.Copy(w, bytes.NewReader(cmd.content)); err != nil {
			return fmt.Errorf("failed to write entry %q in %q: %w", cmd.name, outPath, err)
		}
	}

	if opts.Verbose {
		opts.logf("[RECV %d] Thread done.", index)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize output archive %q: %w", outPath, err)
	}

	return nil
}

// outputArchiveName builds "<stem>-<NNN>.zip" from the input's filename.
func outputArchiveName(input string, index int) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if stem == "" {
		return fmt.Sprintf("%03d.zip", index)
	}

	return fmt.Sprintf("%s-%03d.zip", stem, index)
}
