package archidx

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Expectation: IndexSingle should invoke the callback once per entry, in order.
func Test_IndexSingle_Success(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()

	path := createTestZip(t, tmp, "test.zip", []testZipEntry{
		{Name: "a.txt", ModTime: time.Now(), Content: []byte("a")},
		{Name: "b.txt", ModTime: time.Now(), Content: []byte("b")},
		{Name: "c.txt", ModTime: time.Now(), Content: []byte("c")},
	})

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	var mu sync.Mutex

	var names []string
	cb := NewCallback(func(entry Entry, index int, archivePath string) {
		mu.Lock()
		defer mu.Unlock()
		names = append(names, entry.Name)
		require.Equal(t, path, archivePath)
		require.Equal(t, len(names)-1, index)
	})

	elapsed, err := IndexSingle(r, cb)
	require.NoError(t, err)
	require.GreaterOrEqual(t, elapsed, time.Duration(0))
	require.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, names)
}

// Expectation: IndexSingle on an empty archive invokes the callback zero times.
func Test_IndexSingle_Empty_Success(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()

	path := createTestZip(t, tmp, "empty.zip", nil)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	calls := 0
	cb := NewCallback(func(Entry, int, string) {
		calls++
	})

	_, err = IndexSingle(r, cb)
	require.NoError(t, err)
	require.Zero(t, calls)
}
