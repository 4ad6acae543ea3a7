package ristretto

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarArithmetic(t *testing.T) {
	a := RandomScalar(rand.Reader)
	b := RandomScalar(rand.Reader)

	assert.True(t, a.Add(b).Sub(b).Equal(a))
	assert.True(t, a.Mul(ScalarFromUint64(1)).Equal(a))
	assert.True(t, a.Add(a.Neg()).IsZero())
}

func TestScalarInvert(t *testing.T) {
	a := RandomScalar(rand.Reader)
	require.False(t, a.IsZero())

	inv := a.Invert()
	assert.True(t, a.Mul(inv).Equal(ScalarFromUint64(1)))
}

func TestScalarRoundTrip(t *testing.T) {
	a := RandomScalar(rand.Reader)
	b, err := ScalarFromBytes(a.Bytes())
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestHashToScalarDeterministic(t *testing.T) {
	a := HashToScalar([]byte("bp/u"))
	b := HashToScalar([]byte("bp/u"))
	assert.True(t, a.Equal(b))

	c := HashToScalar([]byte("bp/g/0"))
	assert.False(t, a.Equal(c))
}
