package actor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/codec"
	"github.com/krampenschiesser/cryptochest/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "password"

var testScrypt = crypto.ScryptParams{Iterations: 1, MemoryCost: 1, Parallelism: 1}

func writeTestRepo(t *testing.T, dir, filename string) uuid.UUID {
	t.Helper()
	pw := crypto.NewPlainPw([]byte(testPassword))
	hashed, err := crypto.DeriveHashedPw(pw, testScrypt, crypto.KeySize)
	require.NoError(t, err)
	double, err := crypto.DeriveDoubleHashedPw(hashed, testScrypt, crypto.KeySize)
	require.NoError(t, err)

	id := uuid.New()
	repo := codec.Repository{
		Header: codec.RepoHeader{
			Main:             codec.MainHeader{Kind: codec.FileKindRepository, ID: id, Version: 0},
			EncryptionKind:   codec.EncryptionChaCha20Poly1305,
			PasswordHashKind: codec.PasswordHashScrypt,
			Scrypt:           codec.ScryptParams{Iterations: testScrypt.Iterations, MemoryCost: testScrypt.MemoryCost, Parallelism: testScrypt.Parallelism},
			Salt:             []byte("0123456789abcdef"),
		},
		Verifier: double.Bytes(),
		Name:     "Repo",
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), repo.Encode(), 0o600))
	return id
}

// writeScaffoldRepo writes a Repository blob using the "None" encryption
// and password-hash kinds — the codec-round-trip-only scaffolding variant
// that must never succeed through OpenRepository.
func writeScaffoldRepo(t *testing.T, dir, filename string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	repo := codec.Repository{
		Header: codec.RepoHeader{
			Main:             codec.MainHeader{Kind: codec.FileKindRepository, ID: id, Version: 0},
			EncryptionKind:   codec.EncryptionNone,
			PasswordHashKind: codec.PasswordHashNone,
		},
		Verifier: []byte{},
		Name:     "Scaffold",
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), repo.Encode(), 0o600))
	return id
}

func startTestActor(t *testing.T, dir string) (*Control, uuid.UUID) {
	t.Helper()
	repoID := writeTestRepo(t, dir, "repo.bin")
	control, err := Start([]string{dir})
	require.NoError(t, err)
	t.Cleanup(control.Stop)
	return control, repoID
}

func TestWalkthroughCreateUpdateList(t *testing.T) {
	dir := t.TempDir()
	control, repoID := startTestActor(t, dir)

	resp, err := control.Send(OpenRepository{RepositoryID: repoID, Password: []byte(testPassword)})
	require.NoError(t, err)
	opened, ok := resp.(RepositoryOpened)
	require.True(t, ok, "expected RepositoryOpened, got %#v", resp)

	resp, err = control.Send(CreateFile{RepositoryID: repoID, Token: opened.Token, Header: "test header", Content: []byte("hallo content")})
	require.NoError(t, err)
	created, ok := resp.(FileCreated)
	require.True(t, ok, "expected FileCreated, got %#v", resp)
	assert.Equal(t, "test header", created.Descriptor.Header)
	assert.Equal(t, uint32(0), created.Descriptor.Version)

	resp, err = control.Send(ListFiles{RepositoryID: repoID, Token: opened.Token})
	require.NoError(t, err)
	files, ok := resp.(Files)
	require.True(t, ok)
	require.Len(t, files.Files, 1)
	assert.Equal(t, "test header", files.Files[0].Header)

	resp, err = control.Send(UpdateHeader{Token: opened.Token, Descriptor: created.Descriptor, Header: "bla"})
	require.NoError(t, err)
	updated, ok := resp.(FileResponse)
	require.True(t, ok, "expected FileResponse, got %#v", resp)
	assert.Equal(t, uint32(1), updated.Descriptor.Version)
	assert.Equal(t, "bla", updated.Descriptor.Header)

	resp, err = control.Send(UpdateHeader{Token: opened.Token, Descriptor: created.Descriptor, Header: "stale"})
	require.NoError(t, err)
	lockFailed, ok := resp.(OptimisticLockFailed)
	require.True(t, ok, "expected OptimisticLockFailed, got %#v", resp)
	assert.Equal(t, 1, lockFailed.ObservedVersion)
}

func TestOpenRepositoryWrongPassword(t *testing.T) {
	dir := t.TempDir()
	control, repoID := startTestActor(t, dir)

	resp, err := control.Send(OpenRepository{RepositoryID: repoID, Password: []byte("hello")})
	require.NoError(t, err)
	_, ok := resp.(RepositoryOpenFailed)
	assert.True(t, ok, "expected RepositoryOpenFailed, got %#v", resp)

	resp, err = control.Send(ListRepositories{})
	require.NoError(t, err)
	repos, ok := resp.(Repositories)
	require.True(t, ok)
	assert.Len(t, repos.Repositories, 1, "scanned repository remains listed after a failed open")
}

func TestCloseRepositoryEvictsOnlyWhenLastTokenReleased(t *testing.T) {
	dir := t.TempDir()
	control, repoID := startTestActor(t, dir)

	resp1, err := control.Send(OpenRepository{RepositoryID: repoID, Password: []byte(testPassword)})
	require.NoError(t, err)
	token1 := resp1.(RepositoryOpened).Token

	resp2, err := control.Send(OpenRepository{RepositoryID: repoID, Password: []byte(testPassword)})
	require.NoError(t, err)
	token2 := resp2.(RepositoryOpened).Token

	resp, err := control.Send(CloseRepository{RepositoryID: repoID, Token: token1})
	require.NoError(t, err)
	_, ok := resp.(RepositoryIsClosed)
	require.True(t, ok)

	resp, err = control.Send(ListFiles{RepositoryID: repoID, Token: token2})
	require.NoError(t, err)
	_, ok = resp.(Files)
	assert.True(t, ok, "repository must still be open for the second token")

	resp, err = control.Send(CloseRepository{RepositoryID: repoID, Token: token2})
	require.NoError(t, err)
	_, ok = resp.(RepositoryIsClosed)
	require.True(t, ok)

	resp, err = control.Send(ListFiles{RepositoryID: repoID, Token: token2})
	require.NoError(t, err)
	_, ok = resp.(InvalidToken)
	assert.True(t, ok, "token must be invalid once the repository has been evicted")
}

func TestInvalidTokenOnUnknownRepository(t *testing.T) {
	dir := t.TempDir()
	control, _ := startTestActor(t, dir)

	resp, err := control.Send(ListFiles{RepositoryID: uuid.New(), Token: uuid.New()})
	require.NoError(t, err)
	_, ok := resp.(InvalidToken)
	assert.True(t, ok)
}

func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()
	control, repoID := startTestActor(t, dir)

	resp, err := control.Send(OpenRepository{RepositoryID: repoID, Password: []byte(testPassword)})
	require.NoError(t, err)
	token := resp.(RepositoryOpened).Token

	resp, err = control.Send(CreateFile{RepositoryID: repoID, Token: token, Header: "h", Content: []byte("c")})
	require.NoError(t, err)
	created := resp.(FileCreated)

	resp, err = control.Send(DeleteFile{Token: token, Descriptor: created.Descriptor})
	require.NoError(t, err)
	_, ok := resp.(FileDeleted)
	require.True(t, ok)

	resp, err = control.Send(ListFiles{RepositoryID: repoID, Token: token})
	require.NoError(t, err)
	assert.Empty(t, resp.(Files).Files)
}

func TestOpenRepositoryRejectsNoneEncryptionScaffolding(t *testing.T) {
	dir := t.TempDir()
	repoID := writeScaffoldRepo(t, dir, "scaffold.bin")
	control, err := Start([]string{dir})
	require.NoError(t, err)
	t.Cleanup(control.Stop)

	resp, err := control.Send(OpenRepository{RepositoryID: repoID, Password: []byte(testPassword)})
	require.NoError(t, err)
	_, ok := resp.(RepositoryOpenFailed)
	assert.True(t, ok, "expected RepositoryOpenFailed for a None-encryption repository, got %#v", resp)
}

func TestStopIsIdempotent(t *testing.T) {
	control, err := Start([]string{t.TempDir()})
	require.NoError(t, err)
	control.Stop()
	control.Stop()

	_, err = control.Send(ListRepositories{})
	assert.ErrorIs(t, err, errActorStopped)
}

