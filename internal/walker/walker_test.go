package walker

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "top.zip"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "mid.zip"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", "deep.zip"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "notzip.txt"), []byte("x"), 0o644))

	return root
}

// Expectation: depth=0 only lists immediate children, no recursion.
func Test_CollectZips_DepthZero_Success(t *testing.T) {
	t.Parallel()
	root := buildTree(t)

	zips, err := CollectZips(root, 0)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "top.zip")}, zips)
}

// Expectation: depth=-1 walks unbounded.
func Test_CollectZips_DepthUnbounded_Success(t *testing.T) {
	t.Parallel()
	root := buildTree(t)

	zips, err := CollectZips(root, -1)
	require.NoError(t, err)
	sort.Strings(zips)

	require.Equal(t, []string{
		filepath.Join(root, "a", "b", "deep.zip"),
		filepath.Join(root, "a", "mid.zip"),
		filepath.Join(root, "top.zip"),
	}, zips)
}

// Expectation: depth=3 on a tree of depth 2 behaves identically to depth=-1.
func Test_CollectZips_DepthExceedsTree_Success(t *testing.T) {
	t.Parallel()
	root := buildTree(t)

	deep, err := CollectZips(root, 3)
	require.NoError(t, err)
	unbounded, err := CollectZips(root, -1)
	require.NoError(t, err)

	sort.Strings(deep)
	sort.Strings(unbounded)
	require.Equal(t, unbounded, deep)
}

// Expectation: Walk visits every directory entry, non-zip included.
func Test_Walk_VisitsAllEntries_Success(t *testing.T) {
	t.Parallel()
	root := buildTree(t)

	var visited []string
	err := Walk(root, -1, func(_ string, entry string, _ os.DirEntry) error {
		visited = append(visited, entry)

		return nil
	})
	require.NoError(t, err)
	require.Len(t, visited, 6) // top.zip, a/, a/mid.zip, a/notzip.txt, a/b/, a/b/deep.zip
}

// Expectation: a non-existent root returns an error.
func Test_Walk_NonExistentRoot_Error(t *testing.T) {
	t.Parallel()

	err := Walk(filepath.Join(t.TempDir(), "missing"), -1, func(string, string, os.DirEntry) error {
		return nil
	})
	require.Error(t, err)
}
