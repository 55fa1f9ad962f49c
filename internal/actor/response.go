package actor

import (
	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/repostate"
)

// Response is the tagged-union of every reply the Actor's dispatch loop
// can produce. Like Command, callers type-switch on the concrete type.
type Response interface {
	isResponse()
}

// RepositoryDescriptor is what ListRepositories reports per repository:
// identity, display name and on-disk path, never encryption parameters.
type RepositoryDescriptor struct {
	ID   uuid.UUID
	Name string
	Path string
}

type RepositoryOpened struct {
	RepositoryID uuid.UUID
	Token        uuid.UUID
}

type RepositoryOpenFailed struct {
	RepositoryID uuid.UUID
}

type RepositoryIsClosed struct {
	RepositoryID uuid.UUID
}

// InvalidToken is returned for any token-check failure. Per the token
// check's own contract it deliberately does not distinguish "no such
// repository" from "wrong token".
type InvalidToken struct{}

type Repositories struct {
	Repositories []RepositoryDescriptor
}

type Files struct {
	Files []repostate.FileDescriptor
}

type FileCreated struct {
	Descriptor repostate.FileDescriptor
}

// FileResponse is returned by UpdateHeader/UpdateContent on success, and
// by the synthetic fileAdded/fileChanged commands.
type FileResponse struct {
	Descriptor repostate.FileDescriptor
}

type FileDeleted struct {
	Descriptor repostate.FileDescriptor
}

type OptimisticLockFailed struct {
	Descriptor      repostate.FileDescriptor
	ObservedVersion int
}

type NoSuchFile struct {
	Descriptor repostate.FileDescriptor
}

// UnrecognizedFile is reported for a synthetic fileAdded/fileChanged
// command whose path is not a valid file blob, belongs to a repository
// that is not open, or whose header fails to decrypt, and for a
// fileDeleted command on a path no known file has — it never fails the
// dispatch loop, it just surfaces for logging.
type UnrecognizedFile struct {
	Path    string
	Message string
}

// Error carries a write-path failure (FileStore or crypto error). State
// is never mutated when this is returned.
type Error struct {
	Message string
}

func (RepositoryOpened) isResponse()     {}
func (RepositoryOpenFailed) isResponse() {}
func (RepositoryIsClosed) isResponse()   {}
func (InvalidToken) isResponse()         {}
func (Repositories) isResponse()         {}
func (Files) isResponse()                {}
func (FileCreated) isResponse()          {}
func (FileResponse) isResponse()         {}
func (FileDeleted) isResponse()          {}
func (OptimisticLockFailed) isResponse() {}
func (NoSuchFile) isResponse()           {}
func (UnrecognizedFile) isResponse()     {}
func (Error) isResponse()                {}
