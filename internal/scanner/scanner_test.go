package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRepo(t *testing.T, path string) codec.Repository {
	t.Helper()
	repo := codec.Repository{
		Header: codec.RepoHeader{
			Main:             codec.MainHeader{Kind: codec.FileKindRepository, ID: uuid.New(), Version: 0},
			EncryptionKind:   codec.EncryptionChaCha20Poly1305,
			PasswordHashKind: codec.PasswordHashScrypt,
			Scrypt:           codec.ScryptParams{Iterations: 1, MemoryCost: 1, Parallelism: 1},
			Salt:             []byte("salt"),
		},
		Verifier: []byte("verifier"),
		Name:     "Inventory",
	}
	require.NoError(t, os.WriteFile(path, repo.Encode(), 0o600))
	return repo
}

func writeFile(t *testing.T, path string, repoID uuid.UUID) codec.FileHeader {
	t.Helper()
	header := codec.FileHeader{
		Main:           codec.MainHeader{Kind: codec.FileKindFile, ID: uuid.New(), Version: 0},
		RepositoryID:   repoID,
		EncryptionKind: codec.EncryptionNone,
		NonceHeader:    []byte("123456789012"),
		NonceContent:   []byte("123456789012"),
	}
	sealed := []byte("plaintext-header")
	header.HeaderLength = uint32(len(sealed))
	ef := codec.EncryptedFile{Header: header, SealedHeader: sealed, SealedContent: []byte("content")}
	require.NoError(t, os.WriteFile(path, ef.Encode(), 0o600))
	return header
}

func TestScanFoldersClassifiesRepositoriesAndFiles(t *testing.T) {
	dir := t.TempDir()
	repo := writeRepo(t, filepath.Join(dir, "repo.bin"))
	writeFile(t, filepath.Join(dir, "somefile.bin"), repo.Header.Main.ID)

	result := ScanFolders([]string{dir})

	require.Len(t, result.Repositories, 1)
	assert.Equal(t, "Inventory", result.Repositories[0].Repo.Name)
	require.Len(t, result.Files, 1)
	assert.Empty(t, result.Invalid)
}

func TestScanFoldersIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hello, not ours"), 0o600))

	result := ScanFolders([]string{dir})

	assert.Empty(t, result.Repositories)
	assert.Empty(t, result.Files)
	assert.Empty(t, result.Invalid)
}

func TestScanFoldersRecordsCorruptOwnArtifactsAsInvalid(t *testing.T) {
	dir := t.TempDir()
	repo := writeRepo(t, filepath.Join(dir, "repo.bin"))
	data, err := os.ReadFile(filepath.Join(dir, "repo.bin"))
	require.NoError(t, err)
	// Flip the password-hash-kind byte to an unknown value so the repo
	// blob still matches the magic prefix but fails to decode further.
	data[24] = 0xEE
	require.NoError(t, os.WriteFile(filepath.Join(dir, "repo.bin"), data, 0o600))
	_ = repo

	result := ScanFolders([]string{dir})

	assert.Empty(t, result.Repositories)
	require.Len(t, result.Invalid, 1)
	assert.Error(t, result.Invalid[0].Err)
}

func TestScanFoldersDoesNotRecurse(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o700))
	writeRepo(t, filepath.Join(sub, "repo.bin"))

	result := ScanFolders([]string{dir})

	assert.Empty(t, result.Repositories)
}

func TestClassifyPathUnreadableFileIsSkipped(t *testing.T) {
	_, ok := ClassifyPath(filepath.Join(t.TempDir(), "missing.bin"))
	assert.False(t, ok)
}
