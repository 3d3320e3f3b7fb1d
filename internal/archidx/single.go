package archidx

import "time"

// IndexSingle walks an already-open archive's central directory in index
// order, invoking cb for every entry, and returns the elapsed wall-clock
// time spent doing so. It fails fast: the first error from the reader
// aborts the walk and is returned immediately, with no partial results
// beyond the callback invocations already made.
func IndexSingle(r *Reader, cb *Callback) (time.Duration, error) {
	start := time.Now()

	n := r.Len()
	for i := range n {
		entry, err := r.ByIndex(i)
		if err != nil {
			return time.Since(start), err
		}

		cb.Invoke(entry, i, r.Path())
	}

	return time.Since(start), nil
}
