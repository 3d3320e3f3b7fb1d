package archidx

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/klauspost/compress/zip"
)

// Reader owns an open file handle, a buffered seek reader, and the
// parsed central directory of one archive (C2). The underlying zip reader
// is not safe for concurrent use, so Len, ByIndex, EntryBytes and Close
// all take an internal lock; one Reader can therefore be shared across
// goroutines (as the parallel indexer does), with access serialized.
type Reader struct {
	mu   sync.Mutex
	rc   *zip.ReadCloser
	path string
}

// Open opens the archive at path and parses its central directory.
func Open(path string) (*Reader, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %q: %w", path, err)
	}

	return &Reader{rc: rc, path: path}, nil
}

// Len returns the number of entries in the archive's central directory.
func (r *Reader) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.rc.File)
}

// Path returns the host path the archive was opened from.
func (r *Reader) Path() string {
	return r.path
}

// ByIndex returns the [Entry] view at the given zero-based index.
//
// Access is serialized by an internal lock: the "parallelism" of the
// intra-archive parallel indexer is therefore metadata decoding
// overlapped with callback work, not truly concurrent decoding of the
// same central directory (§4.2).
func (r *Reader) ByIndex(index int) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.byIndexLocked(index)
}

func (r *Reader) byIndexLocked(index int) (Entry, error) {
	if index < 0 || index >= len(r.rc.File) {
		return Entry{}, fmt.Errorf("archive %q: index %d out of range", r.path, index)
	}

	f := r.rc.File[index]

	return Entry{
		Name:         f.Name,
		Size:         f.UncompressedSize64,
		IsDir:        f.FileInfo().IsDir(),
		LastModified: f.Modified.UnixNano(),
	}, nil
}

// EntryBytes reads the full, uncompressed contents of the entry at index,
// pre-sizing the buffer to its uncompressed size (§4.7's producer does
// the same for the split pipeline, and §4.9's resolver for archive blobs).
func (r *Reader) EntryBytes(index int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.rc.File) {
		return nil, fmt.Errorf("archive %q: index %d out of range", r.path, index)
	}

	f := r.rc.File[index]

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open entry %q in %q: %w", f.Name, r.path, err)
	}
	defer rc.Close()

	buf := bytes.NewBuffer(make([]byte, 0, f.UncompressedSize64))

	if _, err := io.Copy(buf, rc); err != nil {
		return nil, fmt.Errorf("failed to read entry %q in %q: %w", f.Name, r.path, err)
	}

	return buf.Bytes(), nil
}

// Close closes the underlying archive. Callers must ensure no other
// goroutine is using the [Reader] concurrently.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.rc.Close() //nolint:wrapcheck
}

// ModTime returns the archive's own modification time on the host
// filesystem, stamped onto every ArchiveFile/ArchiveDir entry mounted from
// it so the server can set a Last-Modified header; stat failures fall
// back to the zero time.
func ModTime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}

	return fi.ModTime()
}
