package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// EncryptionKind identifies which AEAD a repository or file was sealed
// with. The byte values match the RepoHeader/FileHeader wire encoding.
type EncryptionKind uint8

const (
	// KindNone passes data through unmodified. It exists so the codec and
	// round-trip tests can exercise the on-disk layout without paying for
	// a real cipher, and must never be selected for an actual repository:
	// OpenRepository rejects it.
	KindNone EncryptionKind = 0
	KindChaCha20Poly1305 EncryptionKind = 1
	KindAES256GCM EncryptionKind = 2
)

// NonceSize and TagSize are identical across both supported AEADs.
const (
	NonceSize = 12
	TagSize   = 16
	KeySize   = 32
)

func aead(kind EncryptionKind, key []byte) (cipher.AEAD, error) {
	switch kind {
	case KindChaCha20Poly1305:
		return chacha20poly1305.New(key)
	case KindAES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	default:
		return nil, fmt.Errorf("unsupported encryption kind %d", kind)
	}
}

// Seal encrypts plaintext under key/nonce/aad using the AEAD identified by
// kind. KindNone returns plaintext unchanged. The returned ciphertext
// includes the authentication tag appended by the AEAD.
func Seal(kind EncryptionKind, key, nonce, aad, plaintext []byte) ([]byte, error) {
	if kind == KindNone {
		out := make([]byte, len(plaintext))
		copy(out, plaintext)
		return out, nil
	}
	a, err := aead(kind, key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != a.NonceSize() {
		return nil, fmt.Errorf("nonce length %d does not match cipher nonce size %d", len(nonce), a.NonceSize())
	}
	return a.Seal(nil, nonce, plaintext, aad), nil
}

// Open decrypts ciphertext produced by Seal, verifying the authentication
// tag and the associated data. Any tampering with ciphertext or aad is
// detected here and surfaces as an error.
func Open(kind EncryptionKind, key, nonce, aad, ciphertext []byte) ([]byte, error) {
	if kind == KindNone {
		out := make([]byte, len(ciphertext))
		copy(out, ciphertext)
		return out, nil
	}
	a, err := aead(kind, key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != a.NonceSize() {
		return nil, fmt.Errorf("nonce length %d does not match cipher nonce size %d", len(nonce), a.NonceSize())
	}
	return a.Open(nil, nonce, ciphertext, aad)
}
