package bulletproofs

import (
	"math/big"

	"github.com/veilpay/veil-core/curveops"
	"github.com/veilpay/veil-core/ristretto"
	"github.com/veilpay/veil-core/transcript"
)

// verifyInnerProduct checks the logarithmic inner-product argument fold of
// spec.md section 4.5 step 8: absorb each round's (L,R) and squeeze u,
// then fold G, H and P by half on every round, and finally accept iff
// P == a*G + b*H + (a*b)*U.
func verifyInnerProduct(tr *transcript.Transcript, G, H []ristretto.Point, U ristretto.Point,
	P ristretto.Point, proof InnerProductProof) error {
	rounds := len(proof.L)
	if len(G) != 1<<rounds || len(H) != len(G) {
		return ErrInvalidProofStructure
	}

	us := make([]ristretto.Scalar, rounds)
	for k := 0; k < rounds; k++ {
		tr.AppendPoint(ipLabel("L", k), proof.L[k])
		tr.AppendPoint(ipLabel("R", k), proof.R[k])
		us[k] = tr.Challenge(ipLabel("u", k))
	}

	uInvs, err := curveops.BatchInvert(us)
	if err != nil {
		return ErrInvalidProofStructure
	}

	g, h, p := G, H, P
	for k := 0; k < rounds; k++ {
		n := len(g) / 2
		u, uInv := us[k], uInvs[k]

		newG := make([]ristretto.Point, n)
		newH := make([]ristretto.Point, n)
		for i := 0; i < n; i++ {
			newG[i] = g[i].Mul(uInv).Add(g[i+n].Mul(u))
			newH[i] = h[i].Mul(u).Add(h[i+n].Mul(uInv))
		}

		u2 := u.Mul(u)
		uInv2 := uInv.Mul(uInv)
		p = proof.L[k].Mul(u2).Add(p).Add(proof.R[k].Mul(uInv2))

		g, h = newG, newH
	}

	ab := proof.A.Mul(proof.B)
	want := g[0].Mul(proof.A).Add(h[0].Mul(proof.B)).Add(U.Mul(ab))
	if !p.Equal(want) {
		return ErrInnerProductVerificationFail
	}
	return nil
}

func ipLabel(prefix string, k int) string {
	b := []byte(prefix)
	b = append(b, byte('0'+k/10), byte('0'+k%10))
	return string(b)
}

// proveInnerProduct is the fixture-only prover counterpart to
// verifyInnerProduct: it folds a, b, G, H by half each round, recording
// (L,R) and matching the verifier's fold exactly so the two sides agree on
// the final single-element check.
func proveInnerProduct(tr *transcript.Transcript, G, H []ristretto.Point, U ristretto.Point,
	a, b []*big.Int) (InnerProductProof, error) {
	var proof InnerProductProof
	k := 0
	for len(a) > 1 {
		n := len(a) / 2
		aL, aR := a[:n], a[n:]
		bL, bR := b[:n], b[n:]
		GL, GR := G[:n], G[n:]
		HL, HR := H[:n], H[n:]

		cL, err := innerProduct(aL, bR)
		if err != nil {
			return InnerProductProof{}, err
		}
		cR, err := innerProduct(aR, bL)
		if err != nil {
			return InnerProductProof{}, err
		}

		L, err := multiscalarBig(aL, GR)
		if err != nil {
			return InnerProductProof{}, err
		}
		Lh, err := multiscalarBig(bR, HL)
		if err != nil {
			return InnerProductProof{}, err
		}
		L = L.Add(Lh).Add(U.Mul(sc(cL)))

		R, err := multiscalarBig(aR, GL)
		if err != nil {
			return InnerProductProof{}, err
		}
		Rh, err := multiscalarBig(bL, HR)
		if err != nil {
			return InnerProductProof{}, err
		}
		R = R.Add(Rh).Add(U.Mul(sc(cR)))

		tr.AppendPoint(ipLabel("L", k), L)
		tr.AppendPoint(ipLabel("R", k), R)
		u := tr.Challenge(ipLabel("u", k))
		uBig := toBig(u)
		uInvBig := new(big.Int).ModInverse(uBig, order)
		if uInvBig == nil {
			return InnerProductProof{}, ErrInvalidProofStructure
		}

		newA := make([]*big.Int, n)
		newB := make([]*big.Int, n)
		newG := make([]ristretto.Point, n)
		newH := make([]ristretto.Point, n)
		for i := 0; i < n; i++ {
			newA[i] = bn2Mod(new(big.Int).Add(bigMulMod(aL[i], uBig), bigMulMod(aR[i], uInvBig)))
			newB[i] = bn2Mod(new(big.Int).Add(bigMulMod(bL[i], uInvBig), bigMulMod(bR[i], uBig)))
			newG[i] = GL[i].Mul(sc(uInvBig)).Add(GR[i].Mul(sc(uBig)))
			newH[i] = HL[i].Mul(sc(uBig)).Add(HR[i].Mul(sc(uInvBig)))
		}

		proof.L = append(proof.L, L)
		proof.R = append(proof.R, R)
		a, b, G, H = newA, newB, newG, newH
		k++
	}

	proof.A = sc(a[0])
	proof.B = sc(b[0])
	return proof, nil
}

func multiscalarBig(scalars []*big.Int, points []ristretto.Point) (ristretto.Point, error) {
	ss := make([]ristretto.Scalar, len(scalars))
	for i, v := range scalars {
		ss[i] = sc(v)
	}
	return curveops.MultiScalarMul(ss, points)
}
