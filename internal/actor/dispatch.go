package actor

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/apperrors"
	"github.com/krampenschiesser/cryptochest/internal/codec"
	"github.com/krampenschiesser/cryptochest/internal/crypto"
	"github.com/krampenschiesser/cryptochest/internal/filestore"
	"github.com/krampenschiesser/cryptochest/internal/log"
	"github.com/krampenschiesser/cryptochest/internal/repostate"
	"github.com/krampenschiesser/cryptochest/internal/scanner"
	"github.com/krampenschiesser/cryptochest/internal/util"
)

// keyLen is the AEAD key length every supported cipher in this module
// uses; scrypt is always asked to derive exactly this many bytes.
const keyLen = crypto.KeySize

// dispatch routes a single Command against state and returns the
// Response to send back on the caller's reply channel. It is the only
// place that mutates state, and it never blocks beyond the CPU-bound
// scrypt/AEAD calls a given command requires.
func dispatch(cmd Command, state *State, now time.Time) Response {
	switch c := cmd.(type) {
	case OpenRepository:
		return openRepository(c, state, now)
	case CloseRepository:
		return closeRepository(c, state)
	case ListRepositories:
		return listRepositories(state)
	case ListFiles:
		return listFiles(c, state, now)
	case CreateFile:
		return createFile(c, state, now)
	case UpdateHeader:
		return updateHeader(c, state, now)
	case UpdateContent:
		return updateContent(c, state, now)
	case DeleteFile:
		return deleteFile(c, state, now)
	case fileAdded:
		return fileChangedOrAdded(c, state)
	case fileChanged:
		return fileChangedOrAdded(fileAdded(c), state)
	case fileDeleted:
		return handleFileDeleted(c, state)
	default:
		return Error{Message: "unknown command"}
	}
}

func openRepository(c OpenRepository, state *State, now time.Time) Response {
	pw := crypto.NewPlainPw(c.Password)
	defer pw.Zero()

	if rs, ok := state.open[c.RepositoryID]; ok {
		if !realEncryption(rs.Repo.Header) {
			log.Warn("rejecting open of scaffolding-only repository", log.String("repository", c.RepositoryID.String()), log.Err(apperrors.ErrUnknownEncrypted))
			return RepositoryOpenFailed{RepositoryID: c.RepositoryID}
		}
		hashed, err := crypto.DeriveHashedPw(pw, scryptParams(rs.Repo.Header), keyLen)
		if err != nil {
			return Error{Message: err.Error()}
		}
		if !util.ConstantTimeEqual(hashed.Bytes(), rs.Key.Bytes()) {
			return RepositoryOpenFailed{RepositoryID: c.RepositoryID}
		}
		token := rs.GenerateToken(now)
		log.Debug("reopened repository", log.String("repository", c.RepositoryID.String()))
		return RepositoryOpened{RepositoryID: c.RepositoryID, Token: token}
	}

	known, ok := state.repos[c.RepositoryID]
	if !ok {
		return RepositoryOpenFailed{RepositoryID: c.RepositoryID}
	}
	if !realEncryption(known.Repo.Header) {
		log.Warn("rejecting open of scaffolding-only repository", log.String("repository", c.RepositoryID.String()), log.Err(apperrors.ErrUnknownEncrypted))
		return RepositoryOpenFailed{RepositoryID: c.RepositoryID}
	}

	hashed, matched, err := crypto.VerifyPassword(pw, scryptParams(known.Repo.Header), keyLen, crypto.DoubleHashedPwFromBytes(known.Repo.Verifier))
	if err != nil {
		return Error{Message: err.Error()}
	}
	if !matched {
		return RepositoryOpenFailed{RepositoryID: c.RepositoryID}
	}

	rs := repostate.New(known.Repo, hashed)
	for _, kf := range state.filesForRepo(c.RepositoryID) {
		header, headerText, err := filestore.LoadFileHeader(kf.Path, hashed)
		if err != nil {
			rs.AddLoadError(kf.Path, err.Error())
			continue
		}
		rs.AddFile(&repostate.FileEntry{Header: header, HeaderPlaintext: headerText, Path: kf.Path})
	}
	state.open[c.RepositoryID] = rs
	token := rs.GenerateToken(now)
	log.Debug("opened repository", log.String("repository", c.RepositoryID.String()))
	return RepositoryOpened{RepositoryID: c.RepositoryID, Token: token}
}

func closeRepository(c CloseRepository, state *State) Response {
	rs, ok := state.open[c.RepositoryID]
	if !ok {
		return InvalidToken{}
	}
	if !rs.CheckToken(c.Token, time.Now()) {
		return InvalidToken{}
	}
	if rs.RemoveToken(c.Token) {
		delete(state.open, c.RepositoryID)
		rs.Key.Zero()
		log.Debug("evicted repository state", log.String("repository", c.RepositoryID.String()))
	}
	return RepositoryIsClosed{RepositoryID: c.RepositoryID}
}

func listRepositories(state *State) Response {
	descriptors := make([]RepositoryDescriptor, 0, len(state.repos))
	for id, known := range state.repos {
		descriptors = append(descriptors, RepositoryDescriptor{ID: id, Name: known.Repo.Name, Path: known.Path})
	}
	return Repositories{Repositories: descriptors}
}

func listFiles(c ListFiles, state *State, now time.Time) Response {
	rs, ok := state.checkToken(c.RepositoryID, c.Token, now)
	if !ok {
		return InvalidToken{}
	}
	return Files{Files: rs.FileHeaders()}
}

func createFile(c CreateFile, state *State, now time.Time) Response {
	rs, ok := state.checkToken(c.RepositoryID, c.Token, now)
	if !ok {
		return InvalidToken{}
	}

	header, err := filestore.NewFileHeader(c.RepositoryID, crypto.EncryptionKind(rs.Repo.Header.EncryptionKind))
	if err != nil {
		return Error{Message: err.Error()}
	}
	folder := state.folderOf(c.RepositoryID)
	path := filepath.Join(folder, filestore.FileBlobName(header.Main.ID))

	if err := filestore.CreateFile(path, header, c.Header, c.Content, rs.Key); err != nil {
		return Error{Message: err.Error()}
	}

	entry := &repostate.FileEntry{Header: header, HeaderPlaintext: c.Header, Content: c.Content, Path: path}
	rs.AddFile(entry)
	state.files[header.Main.ID] = knownFile{Header: header, Path: path}
	log.Info("created file", log.String("file", header.Main.ID.String()), log.String("path", path))
	return FileCreated{Descriptor: descriptorOf(entry)}
}

func updateHeader(c UpdateHeader, state *State, now time.Time) Response {
	rs, ok := state.checkToken(c.Descriptor.RepositoryID, c.Token, now)
	if !ok {
		return InvalidToken{}
	}
	entry, ok := rs.GetFile(c.Descriptor.ID)
	if !ok {
		return NoSuchFile{Descriptor: c.Descriptor}
	}
	if entry.Header.Main.Version > c.Descriptor.Version {
		return OptimisticLockFailed{Descriptor: c.Descriptor, ObservedVersion: int(entry.Header.Main.Version)}
	}

	newHeader, err := filestore.UpdateHeader(entry.Path, entry.Header, c.Header, rs.Key)
	if err != nil {
		var lockErr *apperrors.OptimisticLockError
		if apperrors.As(err, &lockErr) {
			return OptimisticLockFailed{Descriptor: c.Descriptor, ObservedVersion: lockErr.ObservedVersion}
		}
		return Error{Message: err.Error()}
	}

	updated := &repostate.FileEntry{Header: newHeader, HeaderPlaintext: c.Header, Path: entry.Path}
	rs.AddFile(updated)
	state.files[newHeader.Main.ID] = knownFile{Header: newHeader, Path: entry.Path}
	return FileResponse{Descriptor: descriptorOf(updated)}
}

func updateContent(c UpdateContent, state *State, now time.Time) Response {
	rs, ok := state.checkToken(c.Descriptor.RepositoryID, c.Token, now)
	if !ok {
		return InvalidToken{}
	}
	entry, ok := rs.GetFile(c.Descriptor.ID)
	if !ok {
		return NoSuchFile{Descriptor: c.Descriptor}
	}
	if entry.Header.Main.Version > c.Descriptor.Version {
		return OptimisticLockFailed{Descriptor: c.Descriptor, ObservedVersion: int(entry.Header.Main.Version)}
	}

	newHeader, err := filestore.UpdateContent(entry.Path, entry.Header, c.Content, rs.Key)
	if err != nil {
		var lockErr *apperrors.OptimisticLockError
		if apperrors.As(err, &lockErr) {
			return OptimisticLockFailed{Descriptor: c.Descriptor, ObservedVersion: lockErr.ObservedVersion}
		}
		return Error{Message: err.Error()}
	}

	updated := &repostate.FileEntry{Header: newHeader, HeaderPlaintext: entry.HeaderPlaintext, Content: c.Content, Path: entry.Path}
	rs.AddFile(updated)
	state.files[newHeader.Main.ID] = knownFile{Header: newHeader, Path: entry.Path}
	return FileResponse{Descriptor: descriptorOf(updated)}
}

func deleteFile(c DeleteFile, state *State, now time.Time) Response {
	rs, ok := state.checkToken(c.Descriptor.RepositoryID, c.Token, now)
	if !ok {
		return InvalidToken{}
	}
	entry, ok := rs.GetFile(c.Descriptor.ID)
	if !ok {
		return NoSuchFile{Descriptor: c.Descriptor}
	}
	if err := filestore.DeleteFile(entry.Path); err != nil {
		return Error{Message: err.Error()}
	}
	rs.RemoveFile(c.Descriptor.ID)
	delete(state.files, c.Descriptor.ID)
	return FileDeleted{Descriptor: c.Descriptor}
}

// fileChangedOrAdded re-classifies path (the Scanner already confirmed it
// is one of ours) and feeds the resulting FileHeader into whichever
// RepositoryState owns it, applying the same higher-version-wins rule a
// caller-driven update does.
func fileChangedOrAdded(c fileAdded, state *State) Response {
	result, ok := scanner.ClassifyPath(c.Path)
	if !ok {
		return UnrecognizedFile{Path: c.Path, Message: "no matching prefix"}
	}
	if result.Kind != scanner.CheckFile {
		return UnrecognizedFile{Path: c.Path, Message: "not a file blob"}
	}

	header := result.File
	state.files[header.Main.ID] = knownFile{Header: header, Path: c.Path}

	rs, ok := state.open[header.RepositoryID]
	if !ok {
		return UnrecognizedFile{Path: c.Path, Message: "repository not open"}
	}

	_, headerText, err := filestore.LoadFileHeader(c.Path, rs.Key)
	if err != nil {
		return UnrecognizedFile{Path: c.Path, Message: err.Error()}
	}

	if err := rs.UpdateFile(header, c.Path, headerText); err != nil {
		log.Warn("stale scan event ignored", log.String("path", c.Path), log.Err(err))
		entry, _ := rs.GetFile(header.Main.ID)
		return FileResponse{Descriptor: descriptorOf(entry)}
	}
	entry, _ := rs.GetFile(header.Main.ID)
	return FileResponse{Descriptor: descriptorOf(entry)}
}

// handleFileDeleted removes a file whose on-disk blob has disappeared
// from every RepositoryState and the known-files index. Deletion is
// unimplemented upstream; this module resolves that open question as a
// direct unlink with no tombstone, so reconciling a removal is just
// dropping the in-memory entry.
func handleFileDeleted(c fileDeleted, state *State) Response {
	id, ok := idForPath(state, c.Path)
	if !ok {
		return UnrecognizedFile{Path: c.Path, Message: "unknown file removed"}
	}
	delete(state.files, id)
	for _, rs := range state.open {
		rs.RemoveFile(id)
	}
	return FileDeleted{Descriptor: repostate.FileDescriptor{ID: id}}
}

func idForPath(state *State, path string) (uuid.UUID, bool) {
	for id, f := range state.files {
		if f.Path == path {
			return id, true
		}
	}
	return uuid.UUID{}, false
}

func descriptorOf(e *repostate.FileEntry) repostate.FileDescriptor {
	if e == nil {
		return repostate.FileDescriptor{}
	}
	return repostate.FileDescriptor{
		ID:           e.Header.Main.ID,
		RepositoryID: e.Header.RepositoryID,
		Version:      e.Header.Main.Version,
		Header:       e.HeaderPlaintext,
	}
}

// realEncryption reports whether h describes an actual repository rather
// than test-scaffolding: "None" encryption and "None" password-hash exist
// only to round-trip in the codec and must never be opened for real.
func realEncryption(h codec.RepoHeader) bool {
	return h.EncryptionKind != codec.EncryptionNone && h.PasswordHashKind != codec.PasswordHashNone
}

func scryptParams(h codec.RepoHeader) crypto.ScryptParams {
	return crypto.ScryptParams{Iterations: h.Scrypt.Iterations, MemoryCost: h.Scrypt.MemoryCost, Parallelism: h.Scrypt.Parallelism}
}
