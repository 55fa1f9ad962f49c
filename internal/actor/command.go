package actor

import (
	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/repostate"
)

// Command is the tagged-union of every request the Actor's inbox
// accepts. The concrete types below are the only implementations;
// dispatch uses a type switch rather than an interface method so that
// adding a Command can never silently satisfy some unrelated behavior.
type Command interface {
	isCommand()
}

// OpenRepository derives the repository's key from pw and, on a correct
// password, mints a fresh access token. If the repository is already
// open, the existing state is reused and a new token is minted against
// it without re-reading any file headers.
type OpenRepository struct {
	RepositoryID uuid.UUID
	Password     []byte
}

// CloseRepository removes token from the repository's token set. If no
// token remains afterwards, the RepositoryState is evicted from memory.
type CloseRepository struct {
	RepositoryID uuid.UUID
	Token        uuid.UUID
}

// ListRepositories reports every repository the Scanner has found,
// whether currently open or not.
type ListRepositories struct{}

// ListFiles reports every file descriptor known to an open repository.
type ListFiles struct {
	RepositoryID uuid.UUID
	Token        uuid.UUID
}

// CreateFile mints a brand-new file in an open repository.
type CreateFile struct {
	RepositoryID uuid.UUID
	Token        uuid.UUID
	Header       string
	Content      []byte
}

// UpdateHeader replaces a file's header plaintext, subject to optimistic
// locking against Descriptor.Version.
type UpdateHeader struct {
	Token      uuid.UUID
	Descriptor repostate.FileDescriptor
	Header     string
}

// UpdateContent replaces a file's content, subject to optimistic locking
// against Descriptor.Version.
type UpdateContent struct {
	Token      uuid.UUID
	Descriptor repostate.FileDescriptor
	Content    []byte
}

// DeleteFile unlinks a file's on-disk blob.
type DeleteFile struct {
	Token      uuid.UUID
	Descriptor repostate.FileDescriptor
}

// fileAdded, fileChanged and fileDeleted are synthetic commands the
// Scanner's watcher feeds back into the same inbox so that every State
// mutation — whether caller-driven or filesystem-driven — goes through
// the single dispatch loop.
type fileAdded struct{ Path string }
type fileChanged struct{ Path string }
type fileDeleted struct{ Path string }

// shutdown is the sentinel that ends the run loop. It is never exported;
// callers end the Actor via Control.Stop.
type shutdown struct{}

func (OpenRepository) isCommand()  {}
func (CloseRepository) isCommand() {}
func (ListRepositories) isCommand() {}
func (ListFiles) isCommand()       {}
func (CreateFile) isCommand()      {}
func (UpdateHeader) isCommand()    {}
func (UpdateContent) isCommand()   {}
func (DeleteFile) isCommand()      {}
func (fileAdded) isCommand()       {}
func (fileChanged) isCommand()     {}
func (fileDeleted) isCommand()     {}
func (shutdown) isCommand()        {}
