package codec

// ScryptParams are the on-disk scrypt parameters: u8 iterations, u32
// memory-cost, u32 parallelism — 9 bytes total.
type ScryptParams struct {
	Iterations  uint8
	MemoryCost  uint32
	Parallelism uint32
}

// ScryptParamsByteLen is the fixed encoded size of ScryptParams.
const ScryptParamsByteLen = 1 + 4 + 4

func (p ScryptParams) encode(w *Writer) {
	w.WriteU8(p.Iterations)
	w.WriteU32(p.MemoryCost)
	w.WriteU32(p.Parallelism)
}

func decodeScryptParams(r *Reader) (ScryptParams, error) {
	iterations, err := r.ReadU8()
	if err != nil {
		return ScryptParams{}, err
	}
	mem, err := r.ReadU32()
	if err != nil {
		return ScryptParams{}, err
	}
	par, err := r.ReadU32()
	if err != nil {
		return ScryptParams{}, err
	}
	return ScryptParams{Iterations: iterations, MemoryCost: mem, Parallelism: par}, nil
}

// hashParamsByteLen returns how many bytes a hash-kind's parameters occupy
// on disk: scrypt = 9, Argon2i (reserved) = 6, None = 0.
func hashParamsByteLen(kind PasswordHashKind) int {
	switch kind {
	case PasswordHashScrypt:
		return ScryptParamsByteLen
	case PasswordHashArgon2i:
		return 6
	default:
		return 0
	}
}

// RepoHeader extends MainHeader with the encryption and password-hashing
// parameters that are immutable for the life of a repository.
type RepoHeader struct {
	Main             MainHeader
	EncryptionKind   EncryptionKind
	PasswordHashKind PasswordHashKind
	Scrypt           ScryptParams // only meaningful when PasswordHashKind == PasswordHashScrypt
	Salt             []byte
}

// ByteLen returns the encoded size of this RepoHeader.
func (h RepoHeader) ByteLen() int {
	return h.Main.ByteLen() + 1 + 1 + hashParamsByteLen(h.PasswordHashKind) + 1 + len(h.Salt)
}

// Encode appends the RepoHeader's bytes to w.
func (h RepoHeader) Encode(w *Writer) {
	h.Main.Encode(w)
	w.WriteU8(uint8(h.EncryptionKind))
	w.WriteU8(uint8(h.PasswordHashKind))
	if h.PasswordHashKind == PasswordHashScrypt {
		h.Scrypt.encode(w)
	}
	w.WriteLengthPrefixedU8(h.Salt)
}

// DecodeRepoHeader decodes a RepoHeader, verifying the MainHeader's
// file-kind is Repository-v1.
func DecodeRepoHeader(r *Reader) (RepoHeader, error) {
	main, err := DecodeMainHeader(r)
	if err != nil {
		return RepoHeader{}, err
	}
	if err := main.ExpectKind(FileKindRepository); err != nil {
		return RepoHeader{}, err
	}
	encKind, err := r.ReadEncryptionKind()
	if err != nil {
		return RepoHeader{}, err
	}
	hashKind, err := r.ReadPasswordHashKind()
	if err != nil {
		return RepoHeader{}, err
	}
	var scryptParams ScryptParams
	if hashKind == PasswordHashScrypt {
		scryptParams, err = decodeScryptParams(r)
		if err != nil {
			return RepoHeader{}, err
		}
	} else if n := hashParamsByteLen(hashKind); n > 0 {
		if _, err := r.ReadBytes(n); err != nil {
			return RepoHeader{}, err
		}
	}
	salt, err := r.ReadLengthPrefixedU8()
	if err != nil {
		return RepoHeader{}, err
	}
	return RepoHeader{
		Main:             main,
		EncryptionKind:   encKind,
		PasswordHashKind: hashKind,
		Scrypt:           scryptParams,
		Salt:             salt,
	}, nil
}
