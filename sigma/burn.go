package sigma

import (
	"github.com/veilpay/veil-core/bulletproofs"
	"github.com/veilpay/veil-core/curveops"
	"github.com/veilpay/veil-core/ristretto"
	"github.com/veilpay/veil-core/transcript"
)

// VerifyBurn checks the single-slot (m=1) variant of the Sigma statement:
// no anonymity set, and the burn amount is absorbed into the transcript in
// cleartext, per spec.md section 4.6's final paragraph. The statement
// proved is knowledge of (sk, tau) such that the account ciphertext
// decrypts to a balance consistent with the new commitment and the public
// amount: accountCL - sk*accountCR - proof.CNew - amount*G == -tau*H, where
// tau is CNew's own Pedersen blinding. pubkey is absorbed into the
// transcript, but no relation pubkey == sk*G is checked.
func VerifyBurn(epoch uint64, nonce [32]byte, pubkey ristretto.Point,
	accountCL, accountCR ristretto.Point, amount uint64, proof BurnProof) error {
	tr := transcript.New("sigma/burn")
	tr.AppendUint64("epoch", epoch)
	tr.Append("nonce", nonce[:])
	tr.AppendPoint("pk", pubkey)
	tr.AppendPoint("CL", accountCL)
	tr.AppendPoint("CR", accountCR)
	tr.AppendUint64("amount", amount)

	target := accountCL.Sub(proof.CNew).Sub(ristretto.MulBase(ristretto.ScalarFromUint64(amount)))
	a := accountCR.Mul(proof.SSk).Sub(curveops.Instance().H().Mul(proof.STau)).Sub(target.Mul(proof.C))

	tr.AppendPoint("a_sk", a)
	recomputed := tr.Challenge("c")
	if !recomputed.Equal(proof.C) {
		return ErrSigmaChallengeFailed
	}

	return bulletproofs.VerifyOnTranscript(tr, []ristretto.Point{proof.CNew}, proof.Range)
}
