// Package sigma verifies the Sigma-protocol statements of spec.md section
// 4.6: a one-out-of-many anonymity-set proof, linked to balance
// conservation and to the sender's secret key by a Schnorr-style
// challenge-response, and finally to a Bulletproof range proof over the
// resulting two balance commitments.
package sigma

import (
	"github.com/veilpay/veil-core/bulletproofs"
	"github.com/veilpay/veil-core/ristretto"
)

// TransferProof is the ZerosolProof of spec.md section 3: a range proof
// over the sender's new settled balance and the transfer-out amount, plus
// the Sigma components binding it to one anonymity-set slot.
//
// The one-of-many sub-protocol is a Cramer-Damgaard-Schoenmakers
// OR-composition of m conjunctive Schnorr statements, one per anonymity-set
// slot: "I know (sk, tau) such that pk == sk*G and the slot's ciphertext
// delta is consistent with CNew/COut under sk and tau." E, SSk, and STau
// each carry one entry per slot; E must sum to the transcript's ring
// challenge for the proof to verify, which a prover can only arrange for
// the one slot it actually knows the secret key for.
type TransferProof struct {
	Range bulletproofs.RangeProof

	// CNew and COut are the two commitments the Bulletproof range-checks:
	// the sender's post-transfer settled balance and the transfer amount.
	// Both are plain Pedersen commitments (value*G + blinding*H); the Sigma
	// layer never opens them directly, only binds their sum to the
	// anonymity-set decryption relation.
	CNew ristretto.Point
	COut ristretto.Point

	// Per-slot ring-proof responses; see the doc comment above.
	E    []ristretto.Scalar
	SSk  []ristretto.Scalar
	STau []ristretto.Scalar
}

// BurnProof is the single-slot (m=1) variant of the same statement: no
// anonymity set, so no one-of-many sub-protocol. CNew is a plain Pedersen
// commitment to the post-burn balance; the Sigma layer proves the secret
// key decrypts the account's ciphertext to a balance consistent with CNew
// plus the (public) burn amount.
type BurnProof struct {
	Range bulletproofs.RangeProof
	CNew  ristretto.Point
	C     ristretto.Scalar
	SSk   ristretto.Scalar
	STau  ristretto.Scalar
}
