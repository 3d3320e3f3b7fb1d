package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

func createBenchTestZip(t *testing.T, dir, name string, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)

	for entryName, content := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: entryName, Modified: time.Now()})
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())

	return path
}

// Expectation: benching a single file runs both the single-thread and
// parallel passes without error.
func Test_RunBenchFile_Success(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()

	archive := createBenchTestZip(t, tmp, "sample.zip", map[string]string{
		"a.txt": "A", "b.txt": "BB",
	})

	require.NoError(t, runBenchFile(archive, 2))
}

// Expectation: benching a directory runs the multi-archive pass without error.
func Test_RunBenchDir_Success(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()

	createBenchTestZip(t, tmp, "one.zip", map[string]string{"a.txt": "A"})

	require.NoError(t, runBenchDir(tmp, -1, 2))
}

// Expectation: a missing archive path fails.
func Test_RunBenchFile_Missing_Error(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()

	err := runBenchFile(filepath.Join(tmp, "missing.zip"), 2)
	require.Error(t, err)
}

// Expectation: bench requires exactly one of -f/-d.
func Test_NewBenchCmd_MutuallyExclusive_Error(t *testing.T) {
	t.Parallel()

	cmd := newBenchCmd()
	cmd.SetArgs([]string{"-f", "a.zip", "-d", "somedir"})
	cmd.SetOut(new(discardWriter))
	cmd.SetErr(new(discardWriter))

	require.Error(t, cmd.Execute())
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
