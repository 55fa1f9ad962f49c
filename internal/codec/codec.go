// Package codec implements the byte-level on-disk format shared by every
// repository and file blob: a short magic-prefixed MainHeader, followed by
// format-specific fields. Every decode routine reports one of the
// apperrors.ParseError kinds rather than a generic error, so callers (in
// particular the scanner) can tell "not mine" apart from "mine, but
// corrupt".
package codec

import (
	"encoding/binary"

	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/apperrors"
)

// MagicByte0 and MagicByte1 are the two-byte recognition prefix every
// on-disk artifact starts with.
const (
	MagicByte0 = 0xBE
	MagicByte1 = 0xAF
)

// FileKind distinguishes a repository descriptor from an encrypted file,
// encoded as a single byte.
type FileKind uint8

const (
	FileKindFile       FileKind = 0
	FileKindRepository FileKind = 1
)

// EncryptionKind mirrors crypto.EncryptionKind's wire values so the codec
// package has no import-cycle dependency on internal/crypto.
type EncryptionKind uint8

const (
	EncryptionNone           EncryptionKind = 0
	EncryptionChaCha20Poly1305 EncryptionKind = 1
	EncryptionAES256GCM       EncryptionKind = 2
)

// PasswordHashKind identifies which KDF parameterised a repository.
type PasswordHashKind uint8

const (
	PasswordHashNone   PasswordHashKind = 0
	PasswordHashArgon2i PasswordHashKind = 1 // reserved, never produced
	PasswordHashScrypt PasswordHashKind = 2
)

// Writer accumulates encoded bytes. Every Write* method appends; callers
// never need to pre-compute offsets.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

func (w *Writer) WriteU8(v uint8)  { w.buf = append(w.buf, v) }
func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *Writer) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }
func (w *Writer) WriteUUID(id uuid.UUID) { w.buf = append(w.buf, id[:]...) }

// WriteLengthPrefixedU8 writes a one-byte length followed by the bytes.
// The caller is responsible for ensuring len(b) <= 255.
func (w *Writer) WriteLengthPrefixedU8(b []byte) {
	w.WriteU8(uint8(len(b)))
	w.WriteBytes(b)
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns how many bytes have been written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Reader consumes bytes sequentially, tracking the offset so parse errors
// can report exactly where decoding failed.
type Reader struct {
	buf    []byte
	offset int
}

// NewReader wraps buf for sequential decoding.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Offset returns the current read position.
func (r *Reader) Offset() int { return r.offset }

// Remaining returns how many bytes are left to read.
func (r *Reader) Remaining() int { return len(r.buf) - r.offset }

func (r *Reader) require(n int) error {
	if r.Remaining() < n {
		return apperrors.NewParseError(apperrors.IllegalPosition, r.offset, "unexpected end of input")
	}
	return nil
}

func (r *Reader) ReadU8() (uint8, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	v := r.buf[r.offset]
	r.offset++
	return v, nil
}

func (r *Reader) ReadU32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.offset : r.offset+4])
	r.offset += 4
	return v, nil
}

func (r *Reader) ReadUUID() (uuid.UUID, error) {
	if err := r.require(16); err != nil {
		return uuid.UUID{}, apperrors.NewParseError(apperrors.NoValidUuid, r.offset, "unexpected end of input")
	}
	var id uuid.UUID
	copy(id[:], r.buf[r.offset:r.offset+16])
	r.offset += 16
	return id, nil
}

// ReadBytes consumes exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, r.buf[r.offset:r.offset+n])
	r.offset += n
	return b, nil
}

// ReadLengthPrefixedU8 reads a one-byte length followed by that many bytes.
func (r *Reader) ReadLengthPrefixedU8() ([]byte, error) {
	n, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(n))
}

// ReadRest returns every remaining byte without advancing past the end.
func (r *Reader) ReadRest() []byte {
	b := r.buf[r.offset:]
	r.offset = len(r.buf)
	return b
}

// CheckMagic consumes and validates the two-byte recognition prefix. This
// is the primary gate the scanner uses to decide "mine" vs "not mine".
func (r *Reader) CheckMagic() error {
	if r.Remaining() < 2 {
		return apperrors.NewParseError(apperrors.NoPrefix, r.offset, "too short for magic prefix")
	}
	if r.buf[r.offset] != MagicByte0 || r.buf[r.offset+1] != MagicByte1 {
		return apperrors.NewParseError(apperrors.NoPrefix, r.offset, "magic byte mismatch")
	}
	r.offset += 2
	return nil
}

// ReadFileKind reads and validates the one-byte file-kind tag.
func (r *Reader) ReadFileKind() (FileKind, error) {
	offset := r.offset
	v, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	switch v {
	case 0:
		return FileKindFile, nil
	case 1:
		return FileKindRepository, nil
	default:
		return 0, apperrors.NewParseError(apperrors.UnknownFileVersion, offset, "")
	}
}

// ReadEncryptionKind reads and validates the one-byte encryption-kind tag.
func (r *Reader) ReadEncryptionKind() (EncryptionKind, error) {
	offset := r.offset
	v, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	switch EncryptionKind(v) {
	case EncryptionNone, EncryptionChaCha20Poly1305, EncryptionAES256GCM:
		return EncryptionKind(v), nil
	default:
		return 0, apperrors.NewParseError(apperrors.WrongValue, offset, "unknown encryption kind")
	}
}

// ReadPasswordHashKind reads and validates the one-byte password-hash-kind tag.
func (r *Reader) ReadPasswordHashKind() (PasswordHashKind, error) {
	offset := r.offset
	v, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	switch PasswordHashKind(v) {
	case PasswordHashNone, PasswordHashArgon2i, PasswordHashScrypt:
		return PasswordHashKind(v), nil
	default:
		return 0, apperrors.NewParseError(apperrors.WrongValue, offset, "unknown password hash kind")
	}
}
