package codec

import (
	"unicode/utf8"

	"github.com/krampenschiesser/cryptochest/internal/apperrors"
)

// Repository is the descriptor blob stored on disk: a RepoHeader, a
// length-prefixed double-hashed password verifier, then the repository's
// human-readable name to the end of the blob.
type Repository struct {
	Header   RepoHeader
	Verifier []byte
	Name     string
}

// ByteLen returns the encoded size of this Repository blob.
func (repo Repository) ByteLen() int {
	return repo.Header.ByteLen() + 1 + len(repo.Verifier) + len(repo.Name)
}

// Encode renders the full Repository blob.
func (repo Repository) Encode() []byte {
	w := NewWriter()
	repo.Header.Encode(w)
	w.WriteLengthPrefixedU8(repo.Verifier)
	w.WriteBytes([]byte(repo.Name))
	return w.Bytes()
}

// DecodeRepository parses a Repository blob, validating the UTF-8 name.
func DecodeRepository(buf []byte) (Repository, error) {
	r := NewReader(buf)
	header, err := DecodeRepoHeader(r)
	if err != nil {
		return Repository{}, err
	}
	verifier, err := r.ReadLengthPrefixedU8()
	if err != nil {
		return Repository{}, err
	}
	nameBytes := r.ReadRest()
	if !utf8.Valid(nameBytes) {
		return Repository{}, apperrors.NewParseError(apperrors.InvalidUtf8, r.Offset(), "repository name is not valid UTF-8")
	}
	return Repository{Header: header, Verifier: verifier, Name: string(nameBytes)}, nil
}
