package vfs

import (
	"sync"

	"github.com/zipserve/zipserve/internal/archidx"
)

// ZipHandleMap retains one open, seekable [archidx.Reader] per archive
// host path for the life of the serving process, so request handling can
// pull entry bytes without reopening archives on every request. Safe for
// concurrent Put calls, since multiple archives are opened by different
// workers of the multi-archive indexer.
type ZipHandleMap struct {
	mu      sync.RWMutex
	handles map[string]*archidx.Reader
}

// NewZipHandleMap returns an empty [ZipHandleMap].
func NewZipHandleMap() *ZipHandleMap {
	return &ZipHandleMap{handles: make(map[string]*archidx.Reader)}
}

// Put registers r under its own path, overwriting nothing: a path is
// inserted into the map at most once across the indexing pass that
// discovered it, so a second Put for the same path is a caller bug and
// leaks the new reader rather than silently closing the old one.
func (m *ZipHandleMap) Put(r *archidx.Reader) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.handles[r.Path()]; exists {
		return
	}

	m.handles[r.Path()] = r
}

// Get returns the retained reader for path, if any.
func (m *ZipHandleMap) Get(path string) (*archidx.Reader, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.handles[path]

	return r, ok
}

// Len returns the number of retained archive handles.
func (m *ZipHandleMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.handles)
}

// CloseAll closes every retained archive handle, returning the last
// error encountered (if any). Intended for server shutdown.
func (m *ZipHandleMap) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error

	for _, r := range m.handles {
		if err := r.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
