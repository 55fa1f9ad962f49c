package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrFileAlreadyExists, ErrFileDoesNotExist))
	assert.False(t, errors.Is(ErrWrongPassword, ErrCorruptRepository))
}

func TestParseErrorFormatting(t *testing.T) {
	err := NewParseError(WrongValue, 4, "expected magic byte 0xBE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 4")
	assert.Contains(t, err.Error(), "wrong value")
	assert.Contains(t, err.Error(), "0xBE")
}

func TestParseErrorKindStrings(t *testing.T) {
	cases := map[ParseErrorKind]string{
		NoPrefix:           "no prefix",
		IllegalPosition:    "illegal position",
		WrongValue:         "wrong value",
		UnknownFileVersion: "unknown file version",
		InvalidFileVersion: "invalid file version",
		InvalidUtf8:        "invalid utf8",
		NoValidUuid:        "no valid uuid",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}

func TestOptimisticLockErrorCarriesObservedVersion(t *testing.T) {
	err := NewOptimisticLockError(7)
	assert.Equal(t, 7, err.ObservedVersion)
	assert.Contains(t, err.Error(), "7")

	var asErr *OptimisticLockError
	require.True(t, errors.As(error(err), &asErr))
	assert.Equal(t, 7, asErr.ObservedVersion)
}

func TestCryptoErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := NewCryptoError("scrypt", inner)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "scrypt")
}

func TestFileErrorUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := NewFileError("write", "/tmp/repo.bin", inner)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "/tmp/repo.bin")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
}

func TestWrapPreservesChain(t *testing.T) {
	inner := errors.New("root cause")
	wrapped := Wrap(inner, "opening repository")
	assert.ErrorIs(t, wrapped, inner)
	assert.Contains(t, wrapped.Error(), "opening repository")
}
