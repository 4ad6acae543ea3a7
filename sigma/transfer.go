package sigma

import (
	"errors"

	"github.com/veilpay/veil-core/bulletproofs"
	"github.com/veilpay/veil-core/curveops"
	"github.com/veilpay/veil-core/ristretto"
	"github.com/veilpay/veil-core/transcript"
)

var (
	// ErrInvalidProofStructure covers anonymity-set/shape mismatches:
	// mismatched slot-vector lengths, zero-length anonymity sets, or an
	// anonymity-set size that is not a power of two (spec.md section 4.7
	// tie-breaks).
	ErrInvalidProofStructure = errors.New("sigma: invalid proof structure")
	// ErrSigmaChallengeFailed is returned when the recomputed Fiat-Shamir
	// challenge does not match the proof's claimed challenge c.
	ErrSigmaChallengeFailed = errors.New("sigma: challenge verification failed")
)

// VerifyTransfer checks the Sigma-protocol statement of spec.md section 4.6
// for a transfer into the anonymity set described by pubkeys, then hands
// control to the range verifier (bulletproofs.VerifyOnTranscript) on the
// same transcript for the two commitments the proof range-checks.
//
// slotCL/slotCR are each participant's current settled+pending sender-side
// state, supplied by the caller after any epoch rollover; c0g/dg are the
// per-slot delta commitments and the shared pending-right update.
func VerifyTransfer(epoch uint64, nonce [32]byte, pubkeys []ristretto.Point,
	slotCL, slotCR []ristretto.Point, c0g []ristretto.Point, dg ristretto.Point,
	beneficiary ristretto.Point, proof TransferProof) error {
	m := len(pubkeys)
	if m == 0 || m&(m-1) != 0 {
		return ErrInvalidProofStructure
	}
	if len(slotCL) != m || len(slotCR) != m || len(c0g) != m ||
		len(proof.E) != m || len(proof.SSk) != m || len(proof.STau) != m {
		return ErrInvalidProofStructure
	}

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
	tr.AppendPoint("CNew", proof.CNew)
	tr.AppendPoint("COut", proof.COut)

	if err := verifyRingProof(tr, pubkeys, slotCL, slotCR, c0g, dg, proof); err != nil {
		return err
	}

	return bulletproofs.VerifyOnTranscript(tr, []ristretto.Point{proof.CNew, proof.COut}, proof.Range)
}

// verifyRingProof checks the one-of-many disjunctive Schnorr proof of
// spec.md section 4.6 steps 3-5: a Cramer-Damgaard-Schoenmakers
// OR-composition, one conjunctive statement per anonymity-set slot ("I know
// sk with pk == sk*G, and the slot's ciphertext delta decrypts consistently
// under sk against the claimed new-balance/transfer-out commitments").
// Every slot's first-move pair is recomputed from its (e, s_sk, s_tau)
// response and absorbed into the transcript before the shared ring
// challenge is squeezed; acceptance requires the per-slot challenge shares
// to sum to it, which a prover can only arrange for the slot whose secret
// key and blinding it actually knows — every other slot's pair must be
// simulated in advance, pinning its share before the challenge exists.
func verifyRingProof(tr *transcript.Transcript, pubkeys, slotCL, slotCR, c0g []ristretto.Point,
	dg ristretto.Point, proof TransferProof) error {
	acc := curveops.Instance()
	m := len(pubkeys)

	sum := ristretto.ScalarZero()
	for i := 0; i < m; i++ {
		lDelta := slotCL[i].Sub(c0g[i])
		rDelta := slotCR[i].Sub(dg)
		target := lDelta.Sub(proof.CNew).Sub(proof.COut)

		a1 := ristretto.MulBase(proof.SSk[i]).Sub(pubkeys[i].Mul(proof.E[i]))
		a2 := rDelta.Mul(proof.SSk[i]).Sub(acc.H().Mul(proof.STau[i])).Sub(target.Mul(proof.E[i]))

		tr.AppendPoint("ring_a1", a1)
		tr.AppendPoint("ring_a2", a2)
		sum = sum.Add(proof.E[i])
	}

	c := tr.Challenge("c_ring")
	if !sum.Equal(c) {
		return ErrSigmaChallengeFailed
	}
	return nil
}
