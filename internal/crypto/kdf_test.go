package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() ScryptParams {
	return ScryptParams{Iterations: 1, MemoryCost: 1, Parallelism: 1}
}

func TestHashPasswordDeterministic(t *testing.T) {
	params := testParams()
	a, err := HashPassword([]byte("password"), params, KeySize)
	require.NoError(t, err)
	b, err := HashPassword([]byte("password"), params, KeySize)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, KeySize)
}

func TestHashPasswordDiffersByInput(t *testing.T) {
	params := testParams()
	a, err := HashPassword([]byte("password1"), params, KeySize)
	require.NoError(t, err)
	b, err := HashPassword([]byte("password2"), params, KeySize)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDoubleHashMatchesVerifierConvention(t *testing.T) {
	params := testParams()
	hashed, err := HashPassword([]byte("password"), params, KeySize)
	require.NoError(t, err)
	verifier, err := HashPassword(hashed, params, KeySize)
	require.NoError(t, err)

	rehashed, err := HashPassword([]byte("password"), params, KeySize)
	require.NoError(t, err)
	reverifier, err := HashPassword(rehashed, params, KeySize)
	require.NoError(t, err)

	assert.Equal(t, verifier, reverifier)
}

func TestRandomBytesLength(t *testing.T) {
	b, err := RandomBytes(32)
	require.NoError(t, err)
	assert.Len(t, b, 32)
}

func TestScryptParamsN(t *testing.T) {
	p := ScryptParams{Iterations: 4}
	assert.Equal(t, 16, p.N())
}
