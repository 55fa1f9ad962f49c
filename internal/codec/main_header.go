package codec

import (
	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/apperrors"
)

// MainHeader is the identity+versioning preamble present at the start of
// every on-disk artifact: magic bytes, file-kind tag, UUID, version.
type MainHeader struct {
	Kind    FileKind
	ID      uuid.UUID
	Version uint32
}

// MainHeaderByteLen is the fixed encoded size of a MainHeader.
const MainHeaderByteLen = 2 + 1 + 16 + 4

// Encode appends the MainHeader's bytes to w.
func (h MainHeader) Encode(w *Writer) {
	w.WriteU8(MagicByte0)
	w.WriteU8(MagicByte1)
	w.WriteU8(uint8(h.Kind))
	w.WriteUUID(h.ID)
	w.WriteU32(h.Version)
}

// ByteLen returns the encoded size of this MainHeader (always fixed).
func (h MainHeader) ByteLen() int { return MainHeaderByteLen }

// DecodeMainHeader reads the magic prefix, file-kind, UUID and version.
// NoPrefix is reported before any other byte is consumed if the magic
// does not match, matching the scanner's recognition rule.
func DecodeMainHeader(r *Reader) (MainHeader, error) {
	if err := r.CheckMagic(); err != nil {
		return MainHeader{}, err
	}
	kind, err := r.ReadFileKind()
	if err != nil {
		return MainHeader{}, err
	}
	id, err := r.ReadUUID()
	if err != nil {
		return MainHeader{}, err
	}
	version, err := r.ReadU32()
	if err != nil {
		return MainHeader{}, err
	}
	return MainHeader{Kind: kind, ID: id, Version: version}, nil
}

// ExpectKind returns InvalidFileVersion if h.Kind does not match want. Used
// after decoding a MainHeader to assert "this blob is a repository" or
// "this blob is a file" once the caller already knows which one it wants.
func (h MainHeader) ExpectKind(want FileKind) error {
	if h.Kind != want {
		return apperrors.NewParseError(apperrors.InvalidFileVersion, 2, "file-kind does not match expected artifact type")
	}
	return nil
}
