package archidx

import (
	"time"

	"golang.org/x/sync/errgroup"
)

// IndexParallel partitions an archive's central directory into k
// contiguous, roughly equal slices (k = min(workers, entry count)) and
// indexes each slice on its own goroutine against a shared [Reader] and
// [Callback]. The [Reader]'s internal lock serializes metadata decoding
// across slices, so the win over [IndexSingle] is callback work
// overlapping with decode work, not concurrent decoding itself.
//
// If any slice's walk returns an error, all slices are still awaited to
// completion before the first error encountered is returned.
func IndexParallel(r *Reader, cb *Callback, workers int) (time.Duration, error) {
	start := time.Now()

	n := r.Len()
	if n == 0 {
		return time.Since(start), nil
	}

	k := workers
	if k <= 0 {
		k = 1
	}
	if k > n {
		k = n
	}

	var eg errgroup.Group

	base := n / k
	rem := n % k
	lo := 0

	for w := range k {
		size := base
		if w < rem {
			size++
		}
		hi := lo + size

		lo, hi := lo, hi
		eg.Go(func() error {
			for i := lo; i < hi; i++ {
				entry, err := r.ByIndex(i)
				if err != nil {
					return err
				}

				cb.Invoke(entry, i, r.Path())
			}

			return nil
		})

		lo = hi
	}

	err := eg.Wait()

	return time.Since(start), err
}
