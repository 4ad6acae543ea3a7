package curveops

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilpay/veil-core/ristretto"
)

func TestFastMulMatchesGeneralMul(t *testing.T) {
	a := Instance()
	s := ristretto.RandomScalar(rand.Reader)

	want := a.G().Mul(s)
	got := a.FastMul(a.G(), s)
	assert.True(t, want.Equal(got))

	wantH := a.H().Mul(s)
	gotH := a.FastMul(a.H(), s)
	assert.True(t, wantH.Equal(gotH))
}

func TestFastMulFallsBackForArbitraryPoint(t *testing.T) {
	a := Instance()
	p := ristretto.HashToCurve("some/other/point")
	s := ristretto.RandomScalar(rand.Reader)
	assert.True(t, p.Mul(s).Equal(a.FastMul(p, s)))
}

func TestMultiScalarMulMatchesSequential(t *testing.T) {
	n := 8
	scalars := make([]ristretto.Scalar, n)
	points := make([]ristretto.Point, n)
	want := ristretto.Identity()
	for i := 0; i < n; i++ {
		scalars[i] = ristretto.RandomScalar(rand.Reader)
		points[i] = ristretto.HashToCurve(string(rune('a' + i)))
		want = want.Add(points[i].Mul(scalars[i]))
	}

	got, err := MultiScalarMul(scalars, points)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestMultiScalarMulLengthMismatch(t *testing.T) {
	_, err := MultiScalarMul([]ristretto.Scalar{ristretto.ScalarFromUint64(1)}, nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestBatchInvertCorrectness(t *testing.T) {
	scalars := make([]ristretto.Scalar, 5)
	for i := range scalars {
		scalars[i] = ristretto.RandomScalar(rand.Reader)
	}

	inv, err := BatchInvert(scalars)
	require.NoError(t, err)

	one := ristretto.ScalarFromUint64(1)
	for i := range scalars {
		assert.True(t, scalars[i].Mul(inv[i]).Equal(one))
	}
}

func TestBatchInvertRejectsZero(t *testing.T) {
	_, err := BatchInvert([]ristretto.Scalar{ristretto.ScalarFromUint64(0)})
	assert.ErrorIs(t, err, ErrDivisionByZero)
}
