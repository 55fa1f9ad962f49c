package crypto

import "github.com/krampenschiesser/cryptochest/internal/util"

// PlainPw wraps raw user-supplied password bytes. It must never be
// persisted or logged; it only ever exists transiently while opening or
// creating a repository.
type PlainPw struct {
	bytes []byte
}

// NewPlainPw copies the given bytes into a PlainPw.
func NewPlainPw(b []byte) PlainPw {
	cp := make([]byte, len(b))
	copy(cp, b)
	return PlainPw{bytes: cp}
}

// Bytes returns the underlying password bytes.
func (p PlainPw) Bytes() []byte { return p.bytes }

// Zero overwrites the password bytes in place.
func (p PlainPw) Zero() { SecureZero(p.bytes) }

// HashedPw is scrypt(PlainPw, params); it is the AEAD key used to encrypt
// and decrypt a repository's files.
type HashedPw struct {
	bytes []byte
}

// DoubleHashedPw is scrypt(HashedPw, params); it is the verifier stored on
// disk so a password can be checked without decrypting anything.
type DoubleHashedPw struct {
	bytes []byte
}

// DeriveHashedPw computes HashedPw = scrypt(PlainPw, params).
func DeriveHashedPw(pw PlainPw, params ScryptParams, keyLen int) (HashedPw, error) {
	h, err := HashPassword(pw.Bytes(), params, keyLen)
	if err != nil {
		return HashedPw{}, err
	}
	return HashedPw{bytes: h}, nil
}

// DeriveDoubleHashedPw computes DoubleHashedPw = scrypt(HashedPw, params).
func DeriveDoubleHashedPw(h HashedPw, params ScryptParams, keyLen int) (DoubleHashedPw, error) {
	d, err := HashPassword(h.Bytes(), params, keyLen)
	if err != nil {
		return DoubleHashedPw{}, err
	}
	return DoubleHashedPw{bytes: d}, nil
}

// Bytes returns the underlying hash bytes. Used as the AEAD key.
func (h HashedPw) Bytes() []byte { return h.bytes }

// Zero overwrites the hash bytes in place.
func (h HashedPw) Zero() { SecureZero(h.bytes) }

// Bytes returns the underlying verifier bytes.
func (d DoubleHashedPw) Bytes() []byte { return d.bytes }

// DoubleHashedPwFromBytes wraps verifier bytes read off disk as a DoubleHashedPw.
func DoubleHashedPwFromBytes(b []byte) DoubleHashedPw {
	return DoubleHashedPw{bytes: b}
}

// Equal compares two DoubleHashedPw values in constant time.
func (d DoubleHashedPw) Equal(other DoubleHashedPw) bool {
	return util.ConstantTimeEqual(d.bytes, other.bytes)
}

// VerifyPassword checks a plaintext password against a repository's stored
// verifier without ever persisting the plaintext: it derives HashedPw,
// then DoubleHashedPw, and constant-time compares against storedVerifier.
// On success it returns the HashedPw so the caller can reuse it as the
// repository's AEAD key without re-deriving it.
func VerifyPassword(pw PlainPw, params ScryptParams, keyLen int, storedVerifier DoubleHashedPw) (HashedPw, bool, error) {
	hashed, err := DeriveHashedPw(pw, params, keyLen)
	if err != nil {
		return HashedPw{}, false, err
	}
	double, err := DeriveDoubleHashedPw(hashed, params, keyLen)
	if err != nil {
		return HashedPw{}, false, err
	}
	return hashed, double.Equal(storedVerifier), nil
}
