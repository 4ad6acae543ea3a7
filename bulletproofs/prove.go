package bulletproofs

import (
	"errors"
	"io"
	"math/big"

	"github.com/veilpay/veil-core/curveops"
	"github.com/veilpay/veil-core/generators"
	"github.com/veilpay/veil-core/ristretto"
	"github.com/veilpay/veil-core/transcript"
)

// ErrValueOutOfRange is returned by Prove when a value does not fit in
// bitsPerValue bits. The prover is fixture-only tooling (nothing on the
// instruction-handling path calls it) but rejects the same inputs the
// verifier would, so tests can exercise both sides of every failure mode.
var ErrValueOutOfRange = errors.New("bulletproofs: value out of range")

// Prove builds a single-commitment range proof for value v under blinding
// r, committed as v*G + r*H.
func Prove(rnd io.Reader, v uint64, r ristretto.Scalar) (ristretto.Point, RangeProof, error) {
	V, proof, err := ProveAggregated(rnd, []uint64{v}, []ristretto.Scalar{r})
	if err != nil {
		return ristretto.Point{}, RangeProof{}, err
	}
	return V[0], proof, nil
}

// ProveAggregated builds an aggregated range proof over values/blindings of
// equal length (m = len(values) <= MaxAggregation), opening its own
// transcript. Use ProveOnTranscript when embedding the range proof inside a
// larger Sigma-protocol proof (spec.md section 4.6 step 6).
func ProveAggregated(rnd io.Reader, values []uint64, blindings []ristretto.Scalar) (
	[]ristretto.Point, RangeProof, error) {
	return ProveOnTranscript(transcript.New("bulletproofs/range"), rnd, values, blindings)
}

// ProveOnTranscript is the prover counterpart to VerifyOnTranscript: it
// continues absorbing into a transcript the caller already started,
// instead of opening a fresh one, so the two sides agree on every
// challenge when the range proof is embedded in a larger protocol.
func ProveOnTranscript(tr *transcript.Transcript, rnd io.Reader, values []uint64,
	blindings []ristretto.Scalar) ([]ristretto.Point, RangeProof, error) {
	m := len(values)
	if m == 0 || m > MaxAggregation || len(blindings) != m {
		return nil, RangeProof{}, ErrInvalidProofStructure
	}

	acc := curveops.Instance()
	gen := generators.Default()
	n := bitsPerValue
	N := m * n

	V := make([]ristretto.Point, m)
	aLInt := make([]int64, 0, N)
	for j, v := range values {
		if v >= 1<<uint(n) {
			return nil, RangeProof{}, ErrValueOutOfRange
		}
		V[j] = acc.Pedersen(ristretto.ScalarFromUint64(v), blindings[j])
		aLInt = append(aLInt, decompose(new(big.Int).SetUint64(v), n)...)
	}
	aR, err := complementBits(aLInt)
	if err != nil {
		return nil, RangeProof{}, err
	}
	aL := vectorConvertToBig(aLInt)
	aRBig := vectorConvertToBig(aR)

	for j, v := range V {
		tr.AppendPoint(labelV(j), v)
	}

	alpha := ristretto.RandomScalar(rnd)
	sL := randomBigVector(rnd, N)
	sR := randomBigVector(rnd, N)
	rho := ristretto.RandomScalar(rnd)

	A, err := vectorPedersenCommit(gen.G[:N], gen.H[:N], aL, aRBig, alpha)
	if err != nil {
		return nil, RangeProof{}, err
	}
	S, err := vectorPedersenCommit(gen.G[:N], gen.H[:N], sL, sR, rho)
	if err != nil {
		return nil, RangeProof{}, err
	}

	tr.AppendPoint("A", A)
	tr.AppendPoint("S", S)
	y := tr.Challenge("y")
	z := tr.Challenge("z")
	yBig, zBig := toBig(y), toBig(z)

	yPows := powersOf(yBig, N)
	twoPows := powersOf(big.NewInt(2), n)
	zPows := powersOf(zBig, m+2)

	// l(X) = (aL - z*1^N) + sL*X
	l0 := vectorAddConst(aL, bn2Mod(new(big.Int).Neg(zBig)))
	l1 := sL

	// r(X) = y^N o (aR + z*1^N + sR*X) + block-wise z^(j+2)*2^n
	r0 := make([]*big.Int, N)
	r1 := make([]*big.Int, N)
	for j := 0; j < m; j++ {
		zBlock := zPows[j+2]
		for i := 0; i < n; i++ {
			idx := j*n + i
			base := bn2Mod(new(big.Int).Add(aRBig[idx], zBig))
			r0[idx] = bigMulMod(yPows[idx], base)
			r0[idx] = bn2Mod(new(big.Int).Add(r0[idx], bigMulMod(twoPows[i], zBlock)))
			r1[idx] = bigMulMod(yPows[idx], sR[idx])
		}
	}

	t0, _ := innerProduct(l0, r0)
	t1a, _ := innerProduct(l0, r1)
	t1b, _ := innerProduct(l1, r0)
	t1 := bn2Mod(new(big.Int).Add(t1a, t1b))
	t2, _ := innerProduct(l1, r1)
	_ = t0 // t0 is the public delta check's left side; not needed directly here.

	tau1 := ristretto.RandomScalar(rnd)
	tau2 := ristretto.RandomScalar(rnd)
	T1 := acc.Pedersen(sc(t1), tau1)
	T2 := acc.Pedersen(sc(t2), tau2)

	tr.AppendPoint("T1", T1)
	tr.AppendPoint("T2", T2)
	x := tr.Challenge("x")
	xBig := toBig(x)

	lx := vectorAddScaled(l0, l1, xBig)
	rx := vectorAddScaled(r0, r1, xBig)
	that, _ := innerProduct(lx, rx)

	tauX := computeTauX(zBig, m, blindings, tau1, tau2, xBig)
	mu := alpha.Add(rho.Mul(x))

	// Fold H into H' for the inner-product argument, matching the
	// verifier's H'[i] = y^-i * H[i].
	yInv := new(big.Int).ModInverse(yBig, order)
	hPrime := make([]ristretto.Point, N)
	exp := big.NewInt(1)
	for i := 0; i < N; i++ {
		hPrime[i] = gen.H[i].Mul(sc(exp))
		exp = bigMulMod(exp, yInv)
	}

	ipp, err := proveInnerProduct(tr, gen.G[:N], hPrime, gen.U, lx, rx)
	if err != nil {
		return nil, RangeProof{}, err
	}

	return V, RangeProof{
		A: A, S: S, T1: T1, T2: T2,
		That: sc(that), TauX: tauX, Mu: mu,
		IPP: ipp,
	}, nil
}

func toInt64(b []*big.Int) []int64 {
	out := make([]int64, len(b))
	for i, v := range b {
		out[i] = v.Int64()
	}
	return out
}

func randomBigVector(rnd io.Reader, n int) []*big.Int {
	out := make([]*big.Int, n)
	for i := range out {
		out[i] = toBig(ristretto.RandomScalar(rnd))
	}
	return out
}

func vectorPedersenCommit(G, H []ristretto.Point, a, b []*big.Int, blind ristretto.Scalar) (ristretto.Point, error) {
	if len(a) != len(G) || len(b) != len(H) {
		return ristretto.Point{}, ErrInvalidProofStructure
	}
	acc := curveops.Instance()
	out := acc.FastMul(acc.H(), blind)
	for i := range a {
		out = out.Add(G[i].Mul(sc(a[i]))).Add(H[i].Mul(sc(b[i])))
	}
	return out, nil
}

func vectorAddScaled(a, b []*big.Int, x *big.Int) []*big.Int {
	out := make([]*big.Int, len(a))
	for i := range a {
		out[i] = bn2Mod(new(big.Int).Add(a[i], bigMulMod(b[i], x)))
	}
	return out
}

func computeTauX(z *big.Int, m int, blindings []ristretto.Scalar, tau1, tau2 ristretto.Scalar, x *big.Int) ristretto.Scalar {
	zPows := powersOf(z, m+2)
	acc := big.NewInt(0)
	for j := 0; j < m; j++ {
		rj := toBig(blindings[j])
		acc = bn2Mod(new(big.Int).Add(acc, bigMulMod(zPows[j+2], rj)))
	}
	x2 := bigMulMod(x, x)
	total := bn2Mod(new(big.Int).Add(acc, bigMulMod(toBig(tau1), x)))
	total = bn2Mod(new(big.Int).Add(total, bigMulMod(toBig(tau2), x2)))
	return sc(total)
}
