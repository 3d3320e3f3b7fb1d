package archidx

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zipserve/zipserve/internal/walker"
)

// IndexMulti discovers archives under root (synchronously, via the
// directory walker) and then distributes them across W worker goroutines,
// each of which opens one archive at a time, runs [IndexSingle] against
// it with the shared callback, and closes it before popping the next.
//
// Paths are popped from a shared stack, so consumption order is
// LIFO and deliberately unspecified across archives: callers must not
// depend on any particular cross-archive ordering. Returns the elapsed
// time of the parallel phase only, not the discovery walk.
func IndexMulti(root string, depth int, cb *Callback, workers int) (time.Duration, error) {
	zips, err := walker.CollectZips(root, depth)
	if err != nil {
		return 0, err
	}

	if len(zips) == 0 {
		return 0, nil
	}

	w := workers
	if w <= 0 {
		w = 1
	}
	if w > len(zips) {
		w = len(zips)
	}
	w = ClampToFDLimit(w)

	pool := &zipStack{items: zips}

	start := time.Now()

	var eg errgroup.Group

	for range w {
		eg.Go(func() error {
			var workerErr error

			for {
				path, ok := pool.pop()
				if !ok {
					return workerErr
				}

				if err := indexOneArchive(path, cb); err != nil && workerErr == nil {
					workerErr = err
				}
			}
		})
	}

	err = eg.Wait()

	return time.Since(start), err
}

func indexOneArchive(path string, cb *Callback) error {
	r, err := Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	_, err = IndexSingle(r, cb)

	return err
}

// zipStack is a mutex-guarded LIFO of pending archive paths shared by the
// multi-archive indexer's worker pool.
type zipStack struct {
	mu    sync.Mutex
	items []string
}

func (s *zipStack) pop() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return "", false
	}

	last := len(s.items) - 1
	path := s.items[last]
	s.items = s.items[:last]

	return path, true
}
