package sigma

import (
	"errors"
	"io"

	"github.com/veilpay/veil-core/bulletproofs"
	"github.com/veilpay/veil-core/curveops"
	"github.com/veilpay/veil-core/ristretto"
	"github.com/veilpay/veil-core/transcript"
)

// ErrSelfSlotNotFound is returned by ProveTransfer when selfIndex does not
// index into pubkeys.
var ErrSelfSlotNotFound = errors.New("sigma: self index out of range")

// BurnWitness carries the fixture-only secret material ProveBurn needs: the
// account's secret key and the new balance/blinding to commit to after the
// burn.
type BurnWitness struct {
	Sk          ristretto.Scalar
	NewBalance  uint64
	NewBlinding ristretto.Scalar
}

// ProveBurn builds a BurnProof for the account identified by pubkey/CR over
// the claimed post-burn balance, satisfying VerifyBurn's recomputation of
// the discrete-log-equality challenge. It is test fixture tooling: nothing
// on the instruction-handling path calls it.
func ProveBurn(rnd io.Reader, epoch uint64, nonce [32]byte, pubkey ristretto.Point,
	accountCL, accountCR ristretto.Point, amount uint64, w BurnWitness) (BurnProof, error) {
	acc := curveops.Instance()

	cNew := acc.Pedersen(ristretto.ScalarFromUint64(w.NewBalance), w.NewBlinding)

	tr := transcript.New("sigma/burn")
	tr.AppendUint64("epoch", epoch)
	tr.Append("nonce", nonce[:])
	tr.AppendPoint("pk", pubkey)
	tr.AppendPoint("CL", accountCL)
	tr.AppendPoint("CR", accountCR)
	tr.AppendUint64("amount", amount)

	kSk := ristretto.RandomScalar(rnd)
	kTau := ristretto.RandomScalar(rnd)
	a := accountCR.Mul(kSk).Sub(acc.H().Mul(kTau))

	tr.AppendPoint("a_sk", a)
	c := tr.Challenge("c")

	sSk := kSk.Add(c.Mul(w.Sk))
	sTau := kTau.Add(c.Mul(w.NewBlinding))

	_, rangeProof, err := bulletproofs.ProveOnTranscript(tr, rnd,
		[]uint64{w.NewBalance}, []ristretto.Scalar{w.NewBlinding})
	if err != nil {
		return BurnProof{}, err
	}

	return BurnProof{
		Range: rangeProof,
		CNew:  cNew,
		C:     c,
		SSk:   sSk,
		STau:  sTau,
	}, nil
}

// TransferWitness carries the fixture-only secret material ProveTransfer
// needs for the sender's own anonymity-set slot.
type TransferWitness struct {
	Sk          ristretto.Scalar
	NewBalance  uint64
	NewBlinding ristretto.Scalar
	OutBlinding ristretto.Scalar
}

// ProveTransfer builds a TransferProof selecting selfIndex as the sender's
// slot within pubkeys, using the Cramer-Damgaard-Schoenmakers OR-composition
// described on TransferProof: every slot but selfIndex is simulated (picking
// its response and challenge share at random, before the shared challenge is
// known), while selfIndex's share is solved for afterwards so the total
// matches. c0g/dg are the delta commitments already applied by the caller
// (spec.md section 4.7); slotCL/slotCR are the anonymity set's current
// settled+pending state. It is test fixture tooling: nothing on the
// instruction-handling path calls it.
func ProveTransfer(rnd io.Reader, epoch uint64, nonce [32]byte, pubkeys []ristretto.Point,
	slotCL, slotCR []ristretto.Point, c0g []ristretto.Point, dg ristretto.Point,
	beneficiary ristretto.Point, amount uint64, selfIndex int, w TransferWitness) (TransferProof, error) {
	m := len(pubkeys)
	if selfIndex < 0 || selfIndex >= m {
		return TransferProof{}, ErrSelfSlotNotFound
	}

	acc := curveops.Instance()
	cNew := acc.Pedersen(ristretto.ScalarFromUint64(w.NewBalance), w.NewBlinding)
	cOut := acc.Pedersen(ristretto.ScalarFromUint64(amount), w.OutBlinding)

	lDeltas := make([]ristretto.Point, m)
	rDeltas := make([]ristretto.Point, m)
	targets := make([]ristretto.Point, m)
	for i := 0; i < m; i++ {
		lDeltas[i] = slotCL[i].Sub(c0g[i])
		rDeltas[i] = slotCR[i].Sub(dg)
		targets[i] = lDeltas[i].Sub(cNew).Sub(cOut)
	}

	e := make([]ristretto.Scalar, m)
	sSk := make([]ristretto.Scalar, m)
	sTau := make([]ristretto.Scalar, m)
	a1 := make([]ristretto.Point, m)
	a2 := make([]ristretto.Point, m)

	eSum := ristretto.ScalarZero()
	for i := 0; i < m; i++ {
		if i == selfIndex {
			continue
		}
		e[i] = ristretto.RandomScalar(rnd)
		sSk[i] = ristretto.RandomScalar(rnd)
		sTau[i] = ristretto.RandomScalar(rnd)
		a1[i] = ristretto.MulBase(sSk[i]).Sub(pubkeys[i].Mul(e[i]))
		a2[i] = rDeltas[i].Mul(sSk[i]).Sub(acc.H().Mul(sTau[i])).Sub(targets[i].Mul(e[i]))
		eSum = eSum.Add(e[i])
	}

	kSk := ristretto.RandomScalar(rnd)
	kTau := ristretto.RandomScalar(rnd)
	a1[selfIndex] = ristretto.MulBase(kSk)
	a2[selfIndex] = rDeltas[selfIndex].Mul(kSk).Sub(acc.H().Mul(kTau))

	tr := transcript.New("sigma/transfer")
	tr.AppendUint64("epoch", epoch)
	tr.Append("nonce", nonce[:])
	tr.AppendPoint("beneficiary", beneficiary)
	for _, pk := range pubkeys {
		tr.AppendPoint("pk", pk)
	}
	for j := range slotCL {
		tr.AppendPoint("CL", slotCL[j])
		tr.AppendPoint("CR", slotCR[j])
	}
	for _, p := range c0g {
		tr.AppendPoint("C0g", p)
	}
	tr.AppendPoint("D", dg)
	tr.AppendPoint("CNew", cNew)
	tr.AppendPoint("COut", cOut)
	for i := 0; i < m; i++ {
		tr.AppendPoint("ring_a1", a1[i])
		tr.AppendPoint("ring_a2", a2[i])
	}
	c := tr.Challenge("c_ring")

	e[selfIndex] = c.Sub(eSum)
	sSk[selfIndex] = kSk.Add(e[selfIndex].Mul(w.Sk))
	tauSum := w.NewBlinding.Add(w.OutBlinding)
	sTau[selfIndex] = kTau.Add(e[selfIndex].Mul(tauSum))

	_, rangeProof, err := bulletproofs.ProveOnTranscript(tr, rnd,
		[]uint64{w.NewBalance, amount}, []ristretto.Scalar{w.NewBlinding, w.OutBlinding})
	if err != nil {
		return TransferProof{}, err
	}

	return TransferProof{
		Range: rangeProof,
		CNew:  cNew,
		COut:  cOut,
		E:     e,
		SSk:   sSk,
		STau:  sTau,
	}, nil
}
