// Package archidx implements the archive-indexing engine: the entry
// callback protocol, the archive reader, and the single-thread,
// intra-archive-parallel, and multi-archive indexers built on top of it.
package archidx

import "sync"

// Entry is the transient, read-only view of one archive entry handed to
// a [Sink] during indexing. It is valid only for the duration of the
// callback invocation it is passed to and must not be retained.
type Entry struct {
	Name         string // archive-internal path; directories keep a trailing '/'.
	Size         uint64 // uncompressed byte count.
	IsDir        bool
	LastModified int64 // Unix nanoseconds.
}

// Sink receives one call per indexed archive entry: the entry view, its
// zero-based index within the archive's central directory, and the host
// path of the containing archive.
type Sink func(entry Entry, index int, archivePath string)

// Callback wraps a [Sink] so that it can be shared by reference across
// worker goroutines while still observing one-at-a-time invocation
// semantics, even when multiple workers index the same archive in
// parallel (§4.1 / §5).
type Callback struct {
	mu   sync.Mutex
	sink Sink
}

// NewCallback returns a [Callback] wrapping sink.
func NewCallback(sink Sink) *Callback {
	return &Callback{sink: sink}
}

// Invoke calls the wrapped sink, serialized against concurrent callers.
func (c *Callback) Invoke(entry Entry, index int, archivePath string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sink(entry, index, archivePath)
}
