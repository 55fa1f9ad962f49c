package repostate

import (
	"time"

	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/apperrors"
	"github.com/krampenschiesser/cryptochest/internal/codec"
	"github.com/krampenschiesser/cryptochest/internal/crypto"
	"github.com/krampenschiesser/cryptochest/internal/log"
)

// FileEntry is the in-memory representation of one file belonging to an
// opened repository: its decrypted header, decrypted header-plaintext,
// on-disk path, and an optional content cache.
type FileEntry struct {
	Header          codec.FileHeader
	HeaderPlaintext string
	Content         []byte // set when CreateFile or UpdateContent wrote it in this process; nil otherwise, never loaded from disk here
	Path            string
}

// FileDescriptor is what the actor hands back to callers: it never leaks
// encryption-kind or nonces, only the stable identity and plaintext.
type FileDescriptor struct {
	ID           uuid.UUID
	RepositoryID uuid.UUID
	Version      uint32
	Header       string
}

func (e FileEntry) descriptor() FileDescriptor {
	return FileDescriptor{
		ID:           e.Header.Main.ID,
		RepositoryID: e.Header.RepositoryID,
		Version:      e.Header.Main.Version,
		Header:       e.HeaderPlaintext,
	}
}

// FileLoadError records a file that failed to decrypt or decode during
// header preload; it does not prevent other files from being usable.
type FileLoadError struct {
	Path    string
	Message string
}

// RepositoryState is the per-opened-repository memory: the decoded
// Repository, the derived HashedPw, the file map, the files that failed
// to load, and the active access-token set.
type RepositoryState struct {
	Repo       codec.Repository
	Key        crypto.HashedPw
	files      map[uuid.UUID]*FileEntry
	loadErrors []FileLoadError
	tokens     map[uuid.UUID]AccessToken
}

// New creates an empty RepositoryState for a freshly opened repository.
func New(repo codec.Repository, key crypto.HashedPw) *RepositoryState {
	return &RepositoryState{
		Repo:   repo,
		Key:    key,
		files:  make(map[uuid.UUID]*FileEntry),
		tokens: make(map[uuid.UUID]AccessToken),
	}
}

// GenerateToken mints a fresh access token and stores it with now as its
// last-access time.
func (s *RepositoryState) GenerateToken(now time.Time) uuid.UUID {
	t := newAccessToken(now)
	s.tokens[t.ID] = t
	return t.ID
}

// RemoveToken deletes a token and reports whether the repository's token
// set is now empty — callers use this to decide whether to evict the
// RepositoryState.
func (s *RepositoryState) RemoveToken(token uuid.UUID) bool {
	if _, ok := s.tokens[token]; !ok {
		log.Warn("no such token present", log.String("token", token.String()))
	} else {
		delete(s.tokens, token)
		log.Debug("removed token", log.String("token", token.String()))
	}
	return !s.HasTokens()
}

// HasTokens reports whether any token is currently live for this repository.
func (s *RepositoryState) HasTokens() bool {
	return len(s.tokens) > 0
}

// CheckToken reports whether token exists and has been used within
// TokenIdleTimeout of now, touching its last-access time to now on
// success.
func (s *RepositoryState) CheckToken(token uuid.UUID, now time.Time) bool {
	t, ok := s.tokens[token]
	if !ok {
		return false
	}
	if t.idleFor(now) > TokenIdleTimeout {
		return false
	}
	t.LastAccess = now
	s.tokens[token] = t
	return true
}

// GetFile returns the in-memory entry for id, if any.
func (s *RepositoryState) GetFile(id uuid.UUID) (*FileEntry, bool) {
	e, ok := s.files[id]
	return e, ok
}

// AddFile inserts or overwrites the in-memory entry for a file, used for
// headers preloaded on open, files created by CreateFile, and the new
// version written by an update.
func (s *RepositoryState) AddFile(entry *FileEntry) {
	s.files[entry.Header.Main.ID] = entry
}

// RemoveFile deletes the in-memory entry for id, used after DeleteFile.
func (s *RepositoryState) RemoveFile(id uuid.UUID) {
	delete(s.files, id)
}

// AddLoadError records a file that failed to decrypt or decode.
func (s *RepositoryState) AddLoadError(path, message string) {
	s.loadErrors = append(s.loadErrors, FileLoadError{Path: path, Message: message})
}

// LoadErrors returns the files that failed to load, for diagnostics.
func (s *RepositoryState) LoadErrors() []FileLoadError {
	return s.loadErrors
}

// UpdateFile applies a Scanner-observed FileHeader to memory: if no entry
// exists yet, or the existing entry's version is less than or equal to
// the incoming one, the incoming header, path and the caller-supplied
// headerPlaintext replace the entry. Otherwise memory wins and OptimisticLockError is
// returned carrying the existing (higher) version — the on-disk file is
// then stale relative to memory and the next write corrects it.
func (s *RepositoryState) UpdateFile(header codec.FileHeader, path string, headerPlaintext string) error {
	existing, ok := s.files[header.Main.ID]
	if ok && existing.Header.Main.Version > header.Main.Version {
		return apperrors.NewOptimisticLockError(int(existing.Header.Main.Version))
	}
	s.files[header.Main.ID] = &FileEntry{Header: header, HeaderPlaintext: headerPlaintext, Path: path}
	return nil
}

// FileHeaders projects every in-memory file to its public descriptor.
func (s *RepositoryState) FileHeaders() []FileDescriptor {
	out := make([]FileDescriptor, 0, len(s.files))
	for _, e := range s.files {
		out = append(out, e.descriptor())
	}
	return out
}
