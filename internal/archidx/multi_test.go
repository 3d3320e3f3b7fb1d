package archidx

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func buildMultiArchiveTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))

	createTestZip(t, root, "one.zip", []testZipEntry{
		{Name: "a.txt", ModTime: time.Now(), Content: []byte("a")},
	})
	createTestZip(t, filepath.Join(root, "sub"), "two.zip", []testZipEntry{
		{Name: "b.txt", ModTime: time.Now(), Content: []byte("bb")},
		{Name: "c.txt", ModTime: time.Now(), Content: []byte("ccc")},
	})

	return root
}

// Expectation: IndexMulti should index every entry across every discovered
// archive exactly once, regardless of worker count.
func Test_IndexMulti_Success(t *testing.T) {
	t.Parallel()
	root := buildMultiArchiveTree(t)

	for _, workers := range []int{1, 4, 16} {
		var mu sync.Mutex

		var names []string
		cb := NewCallback(func(entry Entry, _ int, _ string) {
			mu.Lock()
			defer mu.Unlock()
			names = append(names, entry.Name)
		})

		_, err := IndexMulti(root, -1, cb, workers)
		require.NoError(t, err)

		sort.Strings(names)
		require.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, names)
	}
}

// Expectation: a root with no archives returns immediately with no error.
func Test_IndexMulti_NoArchives_Success(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	calls := 0
	cb := NewCallback(func(Entry, int, string) {
		calls++
	})

	elapsed, err := IndexMulti(root, -1, cb, 4)
	require.NoError(t, err)
	require.Zero(t, calls)
	require.Zero(t, elapsed)
}

// Expectation: depth=0 should only index archives at the top level.
func Test_IndexMulti_DepthZero_Success(t *testing.T) {
	t.Parallel()
	root := buildMultiArchiveTree(t)

	var mu sync.Mutex

	var names []string
	cb := NewCallback(func(entry Entry, _ int, _ string) {
		mu.Lock()
		defer mu.Unlock()
		names = append(names, entry.Name)
	})

	_, err := IndexMulti(root, 0, cb, 4)
	require.NoError(t, err)
	require.Equal(t, []string{"a.txt"}, names)
}

// Expectation: a non-existent root propagates the walker's error.
func Test_IndexMulti_MissingRoot_Error(t *testing.T) {
	t.Parallel()

	cb := NewCallback(func(Entry, int, string) {})

	_, err := IndexMulti(filepath.Join(t.TempDir(), "missing"), -1, cb, 2)
	require.Error(t, err)
}
