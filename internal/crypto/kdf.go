// Package crypto provides cryptographic primitives for repository encryption.
// This is AUDIT-CRITICAL code - changes here directly affect what existing
// repositories on disk can still be opened.
package crypto

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"

	"github.com/krampenschiesser/cryptochest/internal/util"
)

// RandomBytes generates n cryptographically secure random bytes, used for
// repository salts and file nonces. It delegates
// to util.RandomBytes for the underlying crypto/rand draw and adds a
// paranoia check that the CSPRNG didn't hand back an all-zero buffer,
// since an all-zero salt or nonce would silently weaken every repository
// that used it.
func RandomBytes(n int) ([]byte, error) {
	b, err := util.RandomBytes(n)
	if err != nil {
		return nil, fmt.Errorf("fatal crypto/rand error: %w", err)
	}

	if bytes.Equal(b, make([]byte, n)) {
		return nil, errors.New("fatal crypto/rand error: produced zero bytes")
	}

	return b, nil
}

// ScryptParams are the RepoHeader's password-hash-kind parameters:
// iterations (stored as a single byte, interpreted as log2 of the scrypt
// cost parameter N), memory cost (the scrypt block size r) and
// parallelism (the scrypt parallelization parameter p).
type ScryptParams struct {
	Iterations  uint8
	MemoryCost  uint32
	Parallelism uint32
}

// N returns the scrypt CPU/memory cost parameter derived from Iterations.
func (p ScryptParams) N() int {
	return 1 << p.Iterations
}

// HashPassword runs scrypt over input using the use-site convention this
// format has always used: the input bytes are passed as BOTH the scrypt
// password and the scrypt salt argument. The repository's own salt bytes
// are stored on disk as part of the RepoHeader and round-tripped with the
// repository, but are not mixed into this call — this is a compatibility
// constraint inherited from the format's original implementation, not a
// cryptographic recommendation, and must be preserved bit-exactly so that
// existing repositories keep opening with the same password.
func HashPassword(input []byte, params ScryptParams, keyLen int) ([]byte, error) {
	key, err := scrypt.Key(input, input, params.N(), int(params.MemoryCost), int(params.Parallelism), keyLen)
	if err != nil {
		return nil, fmt.Errorf("scrypt: %w", err)
	}
	if bytes.Equal(key, make([]byte, keyLen)) {
		return nil, errors.New("fatal scrypt error: produced zero key")
	}
	return key, nil
}
