package cli

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// withStdin temporarily replaces os.Stdin with a pipe fed by input, for
// exercising code that reads a password from a non-terminal stdin.
func withStdin(t *testing.T, input string, fn func()) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	original := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = original }()

	go func() {
		_, _ = io.Copy(w, bytes.NewBufferString(input))
		w.Close()
	}()

	fn()
}

func resetFlags() {
	initFolder, initName, initAES, initGenerate = ".", "", false, false
	reposFolder = "."
	filesFolder, filesRepo = ".", ""
	putFolder, putRepo, putHeader, putPath = ".", "", "", ""
	rmFolder, rmRepo, rmFile = ".", "", ""
	passwordStdin = false
}

func TestInitCreatesRepositoryBlob(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	initFolder = dir
	initName = "Inventory"

	withStdin(t, "password\npassword\n", func() {
		require.NoError(t, runInit(initCmd, nil))
	})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestInitRequiresName(t *testing.T) {
	resetFlags()
	initFolder = t.TempDir()
	err := runInit(initCmd, nil)
	require.Error(t, err)
}

func TestReposListsScannedRepository(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	initFolder = dir
	initName = "Inventory"
	withStdin(t, "password\npassword\n", func() {
		require.NoError(t, runInit(initCmd, nil))
	})

	reposFolder = dir
	require.NoError(t, runRepos(reposCmd, nil))
}

func TestInitGeneratesPasswordWithoutPrompting(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	initFolder = dir
	initName = "Inventory"
	initGenerate = true

	require.NoError(t, runInit(initCmd, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestInitReadsPasswordFromStdinFlag(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	initFolder = dir
	initName = "Inventory"
	passwordStdin = true

	withStdin(t, "password\n", func() {
		require.NoError(t, runInit(initCmd, nil))
	})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestFullLifecycleViaSubcommands(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	initFolder = dir
	initName = "Inventory"
	withStdin(t, "password\npassword\n", func() {
		require.NoError(t, runInit(initCmd, nil))
	})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	repoID := entries[0].Name()
	repoID = repoID[:len(repoID)-len(".repo")]

	contentFile := dir + "/content.txt"
	require.NoError(t, os.WriteFile(contentFile, []byte("hallo content"), 0o600))

	filesRepo = repoID
	filesFolder = dir
	putFolder = dir
	putRepo = repoID
	putHeader = "test header"
	putPath = contentFile

	withStdin(t, "password\n", func() {
		require.NoError(t, runPut(putCmd, nil))
	})

	withStdin(t, "password\n", func() {
		require.NoError(t, runFiles(filesCmd, nil))
	})
}
