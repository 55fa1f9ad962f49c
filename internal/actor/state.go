package actor

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/codec"
	"github.com/krampenschiesser/cryptochest/internal/repostate"
	"github.com/krampenschiesser/cryptochest/internal/scanner"
)

// knownRepository is what the Scanner contributes for a repository it
// has found on disk, whether or not it is currently open.
type knownRepository struct {
	Repo codec.Repository
	Path string
}

// knownFile is what the Scanner contributes for a file it has found on
// disk, before its owning repository has necessarily been opened.
type knownFile struct {
	Header codec.FileHeader
	Path   string
}

// State is the Actor's exclusively-owned global: everything the Scanner
// has discovered, plus the RepositoryState for every currently open
// repository. A repository UUID present in open means it is open for at
// least one live token; absence means closed.
type State struct {
	folders []string

	repos map[uuid.UUID]knownRepository
	files map[uuid.UUID]knownFile

	open map[uuid.UUID]*repostate.RepositoryState
}

// newState seeds a State from an initial scan.
func newState(folders []string, scan scanner.ScanResult) *State {
	s := &State{
		folders: folders,
		repos:   make(map[uuid.UUID]knownRepository),
		files:   make(map[uuid.UUID]knownFile),
		open:    make(map[uuid.UUID]*repostate.RepositoryState),
	}
	for _, r := range scan.Repositories {
		s.repos[r.Repo.Header.Main.ID] = knownRepository{Repo: r.Repo, Path: r.Path}
	}
	for _, f := range scan.Files {
		s.files[f.File.Main.ID] = knownFile{Header: f.File, Path: f.Path}
	}
	return s
}

func (s *State) folderOf(repoID uuid.UUID) string {
	known, ok := s.repos[repoID]
	if !ok {
		return ""
	}
	return filepath.Dir(known.Path)
}

// filesForRepo returns every Scanner-known file belonging to repoID, used
// to preload a RepositoryState when it is first opened.
func (s *State) filesForRepo(repoID uuid.UUID) []knownFile {
	var out []knownFile
	for _, f := range s.files {
		if f.Header.RepositoryID == repoID {
			out = append(out, f)
		}
	}
	return out
}

// checkToken reports whether token is currently valid for repoID,
// touching its last-access time on success. It deliberately collapses
// "no such open repository" and "wrong token" into a single false.
func (s *State) checkToken(repoID, token uuid.UUID, now time.Time) (*repostate.RepositoryState, bool) {
	rs, ok := s.open[repoID]
	if !ok {
		return nil, false
	}
	if !rs.CheckToken(token, now) {
		return nil, false
	}
	return rs, true
}
