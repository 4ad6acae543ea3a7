// Package ledger implements the account/ledger model of spec.md section
// 4.7: registration, the pending/settled two-phase balance, epoch
// rollover, and nonce replay protection.
package ledger

import (
	"crypto/sha256"

	"github.com/veilpay/veil-core/coreerr"
	"github.com/veilpay/veil-core/ristretto"
)

// Account is the core's in-memory view of one registered participant.
// CSettled/CPending are twisted-ElGamal ciphertexts: (L, R) such that, for
// balance b and randomness r, R = r*G and L = b*G + r*pk.
type Account struct {
	Pk ristretto.Point

	CSettledL, CSettledR ristretto.Point
	CPendingL, CPendingR ristretto.Point

	LastEpoch  uint64
	Registered bool
}

// ErrInvalidRegistrationSignature is returned by Register when the Schnorr
// signature over the program id does not verify.
var ErrInvalidRegistrationSignature = coreerr.ErrInvalidRegistrationSignature

// Register verifies a Schnorr signature (c, s) over programID with secret
// key corresponding to pk, then transitions the account into the
// Registered state with C_settled=(pk,G) and empty pending, per spec.md
// section 4.7's state machine.
func Register(acc *Account, pk ristretto.Point, c, s ristretto.Scalar, programID []byte) error {
	if !verifySchnorr(pk, c, s, programID) {
		return ErrInvalidRegistrationSignature
	}
	acc.Pk = pk
	acc.CSettledL = pk
	acc.CSettledR = ristretto.BasePoint()
	acc.CPendingL = ristretto.Identity()
	acc.CPendingR = ristretto.Identity()
	acc.Registered = true
	return nil
}

// verifySchnorr checks a Fiat-Shamir Schnorr signature over msg: recompute
// the commitment R' = s*G - c*pk, rehash (pk, msg, R') and compare to the
// claimed challenge c. This is the same recompute-and-rehash shape used
// throughout the sigma package.
func verifySchnorr(pk ristretto.Point, c, s ristretto.Scalar, msg []byte) bool {
	r := ristretto.MulBase(s).Sub(pk.Mul(c))
	h := sha256.New()
	pkBytes := pk.Bytes()
	rBytes := r.Bytes()
	h.Write(pkBytes[:])
	h.Write(msg)
	h.Write(rBytes[:])
	recomputed := ristretto.HashToScalar(h.Sum(nil))
	return recomputed.Equal(c)
}

// RequireRegistered is the common pre-check every mutating handler performs.
func RequireRegistered(acc *Account) error {
	if !acc.Registered {
		return coreerr.ErrAccountNotRegistered
	}
	return nil
}

// Fund adds amount to the account's pending left component only; the
// randomness side (C_pending.R) is untouched, so the funder learns nothing
// about the existing balance (spec.md section 4.7).
func Fund(acc *Account, amount uint64) {
	acc.CPendingL = acc.CPendingL.Add(ristretto.MulBase(ristretto.ScalarFromUint64(amount)))
}
