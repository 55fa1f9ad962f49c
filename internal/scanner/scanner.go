// Package scanner discovers repositories and files under a set of root
// folders, classifies every entry it finds, and watches the filesystem
// for out-of-band changes so the actor's State stays coherent with disk.
package scanner

import (
	"os"
	"path/filepath"

	"github.com/krampenschiesser/cryptochest/internal/apperrors"
	"github.com/krampenschiesser/cryptochest/internal/codec"
	"github.com/krampenschiesser/cryptochest/internal/log"
	"github.com/krampenschiesser/cryptochest/internal/util"
)

// CheckResultKind tags what a classified path turned out to be.
type CheckResultKind int

const (
	CheckRepo CheckResultKind = iota
	CheckFile
	CheckError
)

// CheckResult is the per-path classification result: either a fully
// decoded Repository, a decoded FileHeader, or an error paired with its
// path.
type CheckResult struct {
	Kind CheckResultKind
	Path string
	Repo codec.Repository
	File codec.FileHeader
	Err  error
}

// ScanResult is a scan's full output for one set of root folders: the
// discovered repositories and files, and a list of (path, error) for
// unrecognised or corrupt own-artifacts. Foreign files (NoPrefix) are
// silently skipped and never appear here.
type ScanResult struct {
	Repositories []CheckResult
	Files        []CheckResult
	Invalid      []CheckResult
}

// ScanFolders performs a non-recursive listing of every folder and
// classifies each direct child. It never recurses — the debounced watch
// is what covers nested changes.
func ScanFolders(folders []string) ScanResult {
	var result ScanResult
	for _, folder := range folders {
		for _, r := range scanFolder(folder) {
			switch r.Kind {
			case CheckRepo:
				result.Repositories = append(result.Repositories, r)
			case CheckFile:
				result.Files = append(result.Files, r)
			case CheckError:
				result.Invalid = append(result.Invalid, r)
			}
		}
	}
	return result
}

func scanFolder(folder string) []CheckResult {
	entries, err := os.ReadDir(folder)
	if err != nil {
		log.Warn("could not read folder", log.String("folder", folder), log.Err(err))
		return nil
	}
	results := make([]CheckResult, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(folder, e.Name())
		if r, ok := ClassifyPath(path); ok {
			results = append(results, r)
		}
	}
	return results
}

// ClassifyPath reads a path's MainHeader and, depending on its file-kind,
// decodes the rest as a RepoHeader or a FileHeader. A NoPrefix error means
// the path is a foreign file and ok is false — it is silently skipped by
// the caller, never recorded as invalid. Any other decode error produces
// a CheckError result carrying the path and the error.
func ClassifyPath(path string) (CheckResult, bool) {
	if !probeMagic(path) {
		return CheckResult{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return CheckResult{}, false
	}

	main, err := codec.DecodeMainHeader(codec.NewReader(data))
	if err != nil {
		var pe *apperrors.ParseError
		if asParseError(err, &pe) && pe.Kind == apperrors.NoPrefix {
			return CheckResult{}, false
		}
		return CheckResult{Kind: CheckError, Path: path, Err: err}, true
	}

	switch main.Kind {
	case codec.FileKindRepository:
		repo, err := codec.DecodeRepository(data)
		if err != nil {
			return CheckResult{Kind: CheckError, Path: path, Err: err}, true
		}
		return CheckResult{Kind: CheckRepo, Path: path, Repo: repo}, true
	case codec.FileKindFile:
		header, err := codec.DecodeFileHeader(codec.NewReader(data))
		if err != nil {
			return CheckResult{Kind: CheckError, Path: path, Err: err}, true
		}
		return CheckResult{Kind: CheckFile, Path: path, File: header}, true
	default:
		return CheckResult{Kind: CheckError, Path: path, Err: err}, true
	}
}

// probeMagic does a cheap pre-check for the two-byte recognition prefix
// using a pooled scratch buffer, so a folder full of unrelated large
// files never needs a full read just to be ruled out.
func probeMagic(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := util.GetSmallBuffer()
	defer util.PutSmallBuffer(buf)
	n, err := f.Read(buf[:2])
	if err != nil || n < 2 {
		return false
	}
	return buf[0] == codec.MagicByte0 && buf[1] == codec.MagicByte1
}

func asParseError(err error, target **apperrors.ParseError) bool {
	return apperrors.As(err, target)
}
