package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPasswordAcceptsCorrectPassword(t *testing.T) {
	params := testParams()
	pw := NewPlainPw([]byte("correct horse"))

	hashed, err := DeriveHashedPw(pw, params, KeySize)
	require.NoError(t, err)
	verifier, err := DeriveDoubleHashedPw(hashed, params, KeySize)
	require.NoError(t, err)

	gotHashed, ok, err := VerifyPassword(pw, params, KeySize, verifier)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, hashed.Bytes(), gotHashed.Bytes())
}

func TestVerifyPasswordRejectsWrongPassword(t *testing.T) {
	params := testParams()
	pw := NewPlainPw([]byte("correct horse"))
	hashed, err := DeriveHashedPw(pw, params, KeySize)
	require.NoError(t, err)
	verifier, err := DeriveDoubleHashedPw(hashed, params, KeySize)
	require.NoError(t, err)

	_, ok, err := VerifyPassword(NewPlainPw([]byte("wrong password")), params, KeySize, verifier)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDoubleHashedPwEqualIsConstantTimeSafe(t *testing.T) {
	a := DoubleHashedPwFromBytes([]byte{1, 2, 3, 4})
	b := DoubleHashedPwFromBytes([]byte{1, 2, 3, 4})
	c := DoubleHashedPwFromBytes([]byte{1, 2, 3, 5})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
