package ristretto

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPedersenHomomorphism(t *testing.T) {
	h := HashToCurve("bp/h")

	v1, r1 := RandomScalar(rand.Reader), RandomScalar(rand.Reader)
	v2, r2 := RandomScalar(rand.Reader), RandomScalar(rand.Reader)

	lhs := Pedersen(v1, r1, h).Add(Pedersen(v2, r2, h))
	rhs := Pedersen(v1.Add(v2), r1.Add(r2), h)

	assert.True(t, lhs.Equal(rhs))
}

func TestPointRoundTrip(t *testing.T) {
	p := BasePoint().Mul(RandomScalar(rand.Reader))
	q, err := PointFromBytes(p.Bytes())
	require.NoError(t, err)
	assert.True(t, p.Equal(q))
}

func TestHashToCurveDeterministicAndDistinct(t *testing.T) {
	g0 := HashToCurve("bp/g/0")
	g0b := HashToCurve("bp/g/0")
	g1 := HashToCurve("bp/g/1")

	assert.True(t, g0.Equal(g0b))
	assert.False(t, g0.Equal(g1))
	assert.False(t, g0.IsIdentity())
}

func TestIdentityIsAdditiveUnit(t *testing.T) {
	p := BasePoint().Mul(RandomScalar(rand.Reader))
	assert.True(t, p.Add(Identity()).Equal(p))
}
