package transcript

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veilpay/veil-core/ristretto"
)

func TestDeterminism(t *testing.T) {
	p := ristretto.BasePoint().Mul(ristretto.RandomScalar(rand.Reader))

	run := func() ristretto.Scalar {
		tr := New("transfer")
		tr.AppendUint64("epoch", 7)
		tr.AppendPoint("A", p)
		return tr.Challenge("y")
	}

	a := run()
	b := run()
	assert.True(t, a.Equal(b))
}

func TestReorderingChangesChallenge(t *testing.T) {
	p := ristretto.BasePoint()
	q := ristretto.HashToCurve("q")

	tr1 := New("transfer")
	tr1.AppendPoint("A", p)
	tr1.AppendPoint("B", q)
	c1 := tr1.Challenge("x")

	tr2 := New("transfer")
	tr2.AppendPoint("B", q)
	tr2.AppendPoint("A", p)
	c2 := tr2.Challenge("x")

	assert.False(t, c1.Equal(c2))
}

func TestSuccessiveChallengesDiverge(t *testing.T) {
	tr := New("burn")
	a := tr.Challenge("x")
	b := tr.Challenge("x")
	assert.False(t, a.Equal(b))
}

func TestDomainSeparationAcrossProtocols(t *testing.T) {
	a := New("transfer").Challenge("x")
	b := New("burn").Challenge("x")
	assert.False(t, a.Equal(b))
}
