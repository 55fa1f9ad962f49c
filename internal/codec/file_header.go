package codec

import (
	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/apperrors"
)

// FileHeader precedes the two AEAD-sealed blobs (header-plaintext and
// content-plaintext) in an on-disk file blob.
type FileHeader struct {
	Main           MainHeader
	RepositoryID   uuid.UUID
	EncryptionKind EncryptionKind
	NonceHeader    []byte // length == cipher's nonce size; both nonce lengths are stored as u8 fields ahead of HeaderLength, the nonce bytes after it
	NonceContent   []byte
	HeaderLength   uint32 // length in bytes of the AEAD-sealed header-plaintext that follows
}

// ByteLen returns the encoded size of the FileHeader fields preceding the
// two ciphertexts.
func (h FileHeader) ByteLen() int {
	return h.Main.ByteLen() + 16 + 1 + 1 + 1 + 4 + len(h.NonceHeader) + len(h.NonceContent)
}

// Encode appends the FileHeader's bytes to w.
func (h FileHeader) Encode(w *Writer) {
	h.Main.Encode(w)
	w.WriteUUID(h.RepositoryID)
	w.WriteU8(uint8(h.EncryptionKind))
	w.WriteU8(uint8(len(h.NonceHeader)))
	w.WriteU8(uint8(len(h.NonceContent)))
	w.WriteU32(h.HeaderLength)
	w.WriteBytes(h.NonceHeader)
	w.WriteBytes(h.NonceContent)
}

// DecodeFileHeader decodes a FileHeader, verifying the MainHeader's
// file-kind is File-v1.
func DecodeFileHeader(r *Reader) (FileHeader, error) {
	main, err := DecodeMainHeader(r)
	if err != nil {
		return FileHeader{}, err
	}
	if err := main.ExpectKind(FileKindFile); err != nil {
		return FileHeader{}, err
	}
	repoID, err := r.ReadUUID()
	if err != nil {
		return FileHeader{}, err
	}
	encKind, err := r.ReadEncryptionKind()
	if err != nil {
		return FileHeader{}, err
	}
	nonceHeaderLen, err := r.ReadU8()
	if err != nil {
		return FileHeader{}, err
	}
	nonceContentLen, err := r.ReadU8()
	if err != nil {
		return FileHeader{}, err
	}
	headerLength, err := r.ReadU32()
	if err != nil {
		return FileHeader{}, err
	}
	nonceHeader, err := r.ReadBytes(int(nonceHeaderLen))
	if err != nil {
		return FileHeader{}, err
	}
	nonceContent, err := r.ReadBytes(int(nonceContentLen))
	if err != nil {
		return FileHeader{}, err
	}
	return FileHeader{
		Main:           main,
		RepositoryID:   repoID,
		EncryptionKind: encKind,
		NonceHeader:    nonceHeader,
		NonceContent:   nonceContent,
		HeaderLength:   headerLength,
	}, nil
}

// EncryptedFile is the full on-disk file blob: FileHeader bytes followed by
// the AEAD-sealed header-plaintext and the AEAD-sealed content-plaintext.
// Additional-authenticated-data for both seals is the MainHeader bytes.
type EncryptedFile struct {
	Header         FileHeader
	SealedHeader   []byte
	SealedContent  []byte
}

// Encode renders the full EncryptedFile blob.
func (ef EncryptedFile) Encode() []byte {
	w := NewWriter()
	ef.Header.Encode(w)
	w.WriteBytes(ef.SealedHeader)
	w.WriteBytes(ef.SealedContent)
	return w.Bytes()
}

// AAD returns the MainHeader bytes used as additional authenticated data
// for both the header and content AEAD seals.
func (h FileHeader) AAD() []byte {
	w := NewWriter()
	h.Main.Encode(w)
	return w.Bytes()
}

// DecodeEncryptedFile parses a full on-disk file blob, splitting the
// trailing bytes into the sealed header (HeaderLength bytes) and the
// sealed content (the remainder).
func DecodeEncryptedFile(buf []byte) (EncryptedFile, error) {
	r := NewReader(buf)
	header, err := DecodeFileHeader(r)
	if err != nil {
		return EncryptedFile{}, err
	}
	sealedHeader, err := r.ReadBytes(int(header.HeaderLength))
	if err != nil {
		return EncryptedFile{}, apperrors.NewParseError(apperrors.IllegalPosition, r.Offset(), "truncated sealed header")
	}
	sealedContent := r.ReadRest()
	return EncryptedFile{Header: header, SealedHeader: sealedHeader, SealedContent: sealedContent}, nil
}

// HeaderOnlyByteLen returns the byte offset at which the sealed content
// begins — i.e. how many bytes must be read to decode the header without
// touching the content.
func (h FileHeader) HeaderOnlyByteLen() int {
	return h.ByteLen() + int(h.HeaderLength)
}
