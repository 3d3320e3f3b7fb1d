package vfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zipserve/zipserve/internal/archidx"
	"github.com/zipserve/zipserve/internal/walker"
)

// BuildDatabase runs the multi-archive indexer and a host-walking pass
// concurrently over root, fusing their results into one [Database] under
// the first-writer-wins rule. It returns the populated database, the
// archive handles retained for serving, and the first error observed by
// either pass (the other pass still runs to completion).
func BuildDatabase(root string, depth, workers int) (*Database, *ZipHandleMap, error) {
	db := NewDatabase()
	handles := NewZipHandleMap()

	var eg errgroup.Group

	eg.Go(func() error {
		return indexArchivesInto(root, depth, workers, db, handles)
	})

	eg.Go(func() error {
		return walkHostInto(root, depth, db)
	})

	err := eg.Wait()

	return db, handles, err
}

// indexArchivesInto discovers and indexes every archive under root,
// inserting one ArchiveFile/ArchiveDir entry per archive entry and
// retaining each archive's reader in handles.
//
// Archive opening here is intentionally separate from [archidx.IndexMulti]:
// BuildDatabase needs to retain the open [archidx.Reader] for serving, so
// it drives its own worker pool over the discovered paths rather than
// reusing IndexMulti's open-index-close cycle.
func indexArchivesInto(root string, depth, workers int, db *Database, handles *ZipHandleMap) error {
	zips, err := walker.CollectZips(root, depth)
	if err != nil {
		return err
	}

	if len(zips) == 0 {
		return nil
	}

	w := workers
	if w <= 0 {
		w = 1
	}
	if w > len(zips) {
		w = len(zips)
	}
	w = archidx.ClampToFDLimit(w)

	jobs := make(chan string, len(zips))
	for _, z := range zips {
		jobs <- z
	}
	close(jobs)

	var eg errgroup.Group

	for range w {
		eg.Go(func() error {
			var workerErr error

			for path := range jobs {
				if err := indexOneArchiveInto(root, path, db, handles); err != nil && workerErr == nil {
					workerErr = err
				}
			}

			return workerErr
		})
	}

	return eg.Wait()
}

func indexOneArchiveInto(root, path string, db *Database, handles *ZipHandleMap) error {
	r, err := archidx.Open(path)
	if err != nil {
		return err
	}

	handles.Put(r)

	base := archiveVirtualBase(root, path)
	mtime := archidx.ModTime(path)

	cb := archidx.NewCallback(func(entry archidx.Entry, index int, archivePath string) {
		key := NormalizeKey(joinVirtual(base, entry.Name))

		kind := ArchiveFile
		if entry.IsDir {
			kind = ArchiveDir
		}

		db.Insert(key, FileIndex{
			Kind:              kind,
			ArchivePath:       archivePath,
			ArchiveEntryIndex: index,
			ModTime:           mtime,
		})
	})

	_, err = archidx.IndexSingle(r, cb)

	return err
}

// archiveVirtualBase computes the virtual directory an archive's entries
// are mounted under: its host path relative to root, with the archive's
// own filename dropped.
func archiveVirtualBase(root, archivePath string) string {
	rel, err := filepath.Rel(root, archivePath)
	if err != nil {
		rel = archivePath
	}

	rel = filepath.ToSlash(rel)

	idx := strings.LastIndex(rel, "/")
	if idx < 0 {
		return ""
	}

	return rel[:idx]
}

func joinVirtual(base, entryName string) string {
	if base == "" {
		return entryName
	}

	return base + "/" + entryName
}

func walkHostInto(root string, depth int, db *Database) error {
	return walker.Walk(root, depth, func(_ string, entryPath string, d os.DirEntry) error {
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".zip") {
			return nil
		}

		rel, err := filepath.Rel(root, entryPath)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %q: %w", entryPath, err)
		}

		key := NormalizeKey(filepath.ToSlash(rel))

		kind := HostFile
		if d.IsDir() {
			kind = HostDir
		}

		var mtime time.Time
		if info, err := d.Info(); err == nil {
			mtime = info.ModTime()
		}

		db.Insert(key, FileIndex{
			Kind:     kind,
			HostPath: entryPath,
			ModTime:  mtime,
		})

		return nil
	})
}
