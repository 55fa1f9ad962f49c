// Package filestore implements the on-disk read/write side of the engine:
// encoding and decoding the Repository and EncryptedFile blobs via the
// codec package, sealing and opening their AEAD payloads via the crypto
// package, and publishing every write atomically through a temp-file plus
// rename so readers never observe a partial blob.
package filestore

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/apperrors"
	"github.com/krampenschiesser/cryptochest/internal/codec"
	"github.com/krampenschiesser/cryptochest/internal/crypto"
)

// SaveRepository encodes and writes a brand-new Repository blob to path.
// Fails with apperrors.ErrFileAlreadyExists if path already exists.
func SaveRepository(path string, repo codec.Repository) error {
	if _, err := os.Stat(path); err == nil {
		return apperrors.ErrFileAlreadyExists
	} else if !os.IsNotExist(err) {
		return apperrors.NewFileError("stat", path, err)
	}

	tmp, err := newTempFile()
	if err != nil {
		return apperrors.NewFileError("create-temp", path, err)
	}
	if err := tmp.writeAndPublish(repo.Encode(), path); err != nil {
		return apperrors.NewFileError("write", path, err)
	}
	return nil
}

// LoadRepository reads and decodes the Repository blob at path.
func LoadRepository(path string) (codec.Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return codec.Repository{}, apperrors.NewFileError("read", path, err)
	}
	return codec.DecodeRepository(data)
}

// NewFileHeader mints a FileHeader for a brand-new file in the given
// repository: a fresh UUID, version 0, and fresh nonces drawn from the
// repository's encryption kind.
func NewFileHeader(repositoryID uuid.UUID, encKind crypto.EncryptionKind) (codec.FileHeader, error) {
	nonceHeader, err := crypto.RandomBytes(crypto.NonceSize)
	if err != nil {
		return codec.FileHeader{}, err
	}
	nonceContent, err := crypto.RandomBytes(crypto.NonceSize)
	if err != nil {
		return codec.FileHeader{}, err
	}
	return codec.FileHeader{
		Main:           codec.MainHeader{Kind: codec.FileKindFile, ID: uuid.New(), Version: 0},
		RepositoryID:   repositoryID,
		EncryptionKind: codec.EncryptionKind(encKind),
		NonceHeader:    nonceHeader,
		NonceContent:   nonceContent,
	}, nil
}

// CreateFile seals headerPlaintext and content under header.Nonce{Header,Content}
// and publishes a brand-new EncryptedFile blob at path. Fails with
// apperrors.ErrFileAlreadyExists if path already exists.
func CreateFile(path string, header codec.FileHeader, headerPlaintext string, content []byte, key crypto.HashedPw) error {
	if _, err := os.Stat(path); err == nil {
		return apperrors.ErrFileAlreadyExists
	} else if !os.IsNotExist(err) {
		return apperrors.NewFileError("stat", path, err)
	}

	aad := header.AAD()
	sealedHeader, err := crypto.Seal(crypto.EncryptionKind(header.EncryptionKind), key.Bytes(), header.NonceHeader, aad, []byte(headerPlaintext))
	if err != nil {
		return apperrors.NewCryptoError("seal-header", err)
	}
	header.HeaderLength = uint32(len(sealedHeader))

	sealedContent, err := crypto.Seal(crypto.EncryptionKind(header.EncryptionKind), key.Bytes(), header.NonceContent, aad, content)
	if err != nil {
		return apperrors.NewCryptoError("seal-content", err)
	}

	ef := codec.EncryptedFile{Header: header, SealedHeader: sealedHeader, SealedContent: sealedContent}
	tmp, err := newTempFile()
	if err != nil {
		return apperrors.NewFileError("create-temp", path, err)
	}
	if err := tmp.writeAndPublish(ef.Encode(), path); err != nil {
		return apperrors.NewFileError("write", path, err)
	}
	return nil
}

// LoadFileHeader reads the FileHeader and its sealed header bytes, decodes
// the header and decrypts the header plaintext, without decrypting the
// content bytes that follow.
func LoadFileHeader(path string, key crypto.HashedPw) (codec.FileHeader, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return codec.FileHeader{}, "", apperrors.NewFileError("read", path, err)
	}
	r := codec.NewReader(data)
	header, err := codec.DecodeFileHeader(r)
	if err != nil {
		return codec.FileHeader{}, "", err
	}
	sealedHeader, err := r.ReadBytes(int(header.HeaderLength))
	if err != nil {
		return codec.FileHeader{}, "", err
	}

	plaintext, err := crypto.Open(crypto.EncryptionKind(header.EncryptionKind), key.Bytes(), header.NonceHeader, header.AAD(), sealedHeader)
	if err != nil {
		return codec.FileHeader{}, "", apperrors.NewCryptoError("open-header", err)
	}
	return header, string(plaintext), nil
}

// LoadFileContent reads the full blob at path and decrypts its content
// section using header's content-nonce and AAD.
func LoadFileContent(path string, header codec.FileHeader, key crypto.HashedPw) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewFileError("read", path, err)
	}
	ef, err := codec.DecodeEncryptedFile(data)
	if err != nil {
		return nil, err
	}
	plaintext, err := crypto.Open(crypto.EncryptionKind(header.EncryptionKind), key.Bytes(), header.NonceContent, header.AAD(), ef.SealedContent)
	if err != nil {
		return nil, apperrors.NewCryptoError("open-content", err)
	}
	return plaintext, nil
}

// UpdateHeader implements the optimistic-locked header update: the caller
// supplies the FileHeader it believes is current (expectedVersion, about
// to be incremented) and the new header plaintext. The on-disk version is
// checked before any write; a disk version greater than or equal to the
// new version fails with OptimisticLockError(disk-version). The existing
// content is loaded with the original nonces/AAD and re-sealed under fresh
// nonces alongside the new header.
func UpdateHeader(path string, current codec.FileHeader, newHeaderPlaintext string, key crypto.HashedPw) (codec.FileHeader, error) {
	if _, err := os.Stat(path); err != nil {
		return codec.FileHeader{}, apperrors.ErrFileDoesNotExist
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		return codec.FileHeader{}, apperrors.NewFileError("read", path, err)
	}
	onDiskHeader, err := codec.DecodeFileHeader(codec.NewReader(onDisk))
	if err != nil {
		return codec.FileHeader{}, err
	}

	newVersion := current.Main.Version + 1
	if onDiskHeader.Main.Version >= newVersion {
		return codec.FileHeader{}, apperrors.NewOptimisticLockError(int(onDiskHeader.Main.Version))
	}

	content, err := LoadFileContent(path, current, key)
	if err != nil {
		return codec.FileHeader{}, err
	}

	newHeader := current
	newHeader.Main.Version = newVersion
	nonceHeader, err := crypto.RandomBytes(crypto.NonceSize)
	if err != nil {
		return codec.FileHeader{}, err
	}
	nonceContent, err := crypto.RandomBytes(crypto.NonceSize)
	if err != nil {
		return codec.FileHeader{}, err
	}
	newHeader.NonceHeader = nonceHeader
	newHeader.NonceContent = nonceContent

	if err := publishSealed(path, newHeader, newHeaderPlaintext, content, key); err != nil {
		return codec.FileHeader{}, err
	}
	return newHeader, nil
}

// UpdateContent is the content-update analogue of UpdateHeader: the
// header plaintext is preserved from disk, the content is replaced, and
// both are re-sealed under fresh nonces.
func UpdateContent(path string, current codec.FileHeader, newContent []byte, key crypto.HashedPw) (codec.FileHeader, error) {
	if _, err := os.Stat(path); err != nil {
		return codec.FileHeader{}, apperrors.ErrFileDoesNotExist
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		return codec.FileHeader{}, apperrors.NewFileError("read", path, err)
	}
	onDiskHeader, err := codec.DecodeFileHeader(codec.NewReader(onDisk))
	if err != nil {
		return codec.FileHeader{}, err
	}

	newVersion := current.Main.Version + 1
	if onDiskHeader.Main.Version >= newVersion {
		return codec.FileHeader{}, apperrors.NewOptimisticLockError(int(onDiskHeader.Main.Version))
	}

	_, headerPlaintext, err := LoadFileHeader(path, key)
	if err != nil {
		return codec.FileHeader{}, err
	}

	newHeader := current
	newHeader.Main.Version = newVersion
	nonceHeader, err := crypto.RandomBytes(crypto.NonceSize)
	if err != nil {
		return codec.FileHeader{}, err
	}
	nonceContent, err := crypto.RandomBytes(crypto.NonceSize)
	if err != nil {
		return codec.FileHeader{}, err
	}
	newHeader.NonceHeader = nonceHeader
	newHeader.NonceContent = nonceContent

	if err := publishSealed(path, newHeader, headerPlaintext, newContent, key); err != nil {
		return codec.FileHeader{}, err
	}
	return newHeader, nil
}

func publishSealed(path string, header codec.FileHeader, headerPlaintext string, content []byte, key crypto.HashedPw) error {
	aad := header.AAD()
	sealedHeader, err := crypto.Seal(crypto.EncryptionKind(header.EncryptionKind), key.Bytes(), header.NonceHeader, aad, []byte(headerPlaintext))
	if err != nil {
		return apperrors.NewCryptoError("seal-header", err)
	}
	header.HeaderLength = uint32(len(sealedHeader))

	sealedContent, err := crypto.Seal(crypto.EncryptionKind(header.EncryptionKind), key.Bytes(), header.NonceContent, aad, content)
	if err != nil {
		return apperrors.NewCryptoError("seal-content", err)
	}

	ef := codec.EncryptedFile{Header: header, SealedHeader: sealedHeader, SealedContent: sealedContent}
	tmp, err := newTempFile()
	if err != nil {
		return apperrors.NewFileError("create-temp", path, err)
	}
	if err := tmp.writeAndPublish(ef.Encode(), path); err != nil {
		return apperrors.NewFileError("write", path, err)
	}
	return nil
}

// DeleteFile unlinks the on-disk blob. The scanner observes the removal
// and raises FileDeleted on its own, the same way it would for an
// out-of-band deletion.
func DeleteFile(path string) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return apperrors.ErrFileDoesNotExist
		}
		return apperrors.NewFileError("remove", path, err)
	}
	return nil
}

// FileBlobName returns the on-disk filename for a file with the given
// UUID: 32 lowercase hex characters, no extension, inside the repository's
// folder.
func FileBlobName(id uuid.UUID) string {
	return fmt.Sprintf("%x", id[:])
}
