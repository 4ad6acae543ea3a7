// Package bulletproofs implements the range-proof verifier of spec.md
// section 4.5: a logarithmic-size Bulletproof over aggregated Pedersen
// commitments. The verifier checks the t-hat polynomial identity and then
// the inner-product argument fold as separate point equalities, each built
// from individual scalar multiplications; it does not batch them into one
// multiscalar multiplication.
package bulletproofs

import (
	"math/big"

	"github.com/veilpay/veil-core/ristretto"
)

// InnerProductProof is the log-sized folding proof of spec.md section 3:
// L[1..log N], R[1..log N], and the final scalars a, b.
type InnerProductProof struct {
	L []ristretto.Point
	R []ristretto.Point
	A ristretto.Scalar
	B ristretto.Scalar
}

// RangeProof is the Bulletproof structure of spec.md section 3:
// (A, S, T1, T2; That, TauX, Mu; IPP).
type RangeProof struct {
	A    ristretto.Point
	S    ristretto.Point
	T1   ristretto.Point
	T2   ristretto.Point
	That ristretto.Scalar // t-hat, the claimed inner product t(x).
	TauX ristretto.Scalar
	Mu   ristretto.Scalar
	IPP  InnerProductProof
}

// bitsPerValue is n in spec.md's m*n aggregation: every committed value is
// range-checked against 32 bits, matching MAX_TRANSFER_AMOUNT = 2^32-1.
const bitsPerValue = 32

// MaxAggregation bounds m, the number of simultaneously range-proved
// commitments: transfers prove [C_new, C_out] (m=2), burns prove a single
// commitment (m=1).
const MaxAggregation = 2

var bigOne = big.NewInt(1)
