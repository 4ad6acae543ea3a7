package curveops

import (
	"errors"

	"github.com/veilpay/veil-core/ristretto"
)

// ErrDivisionByZero is returned when any input to BatchInvert is the zero
// scalar; a proof whose transcript produces a zero challenge where an
// inverse is required is malformed, not astronomically unlucky, and the
// caller should treat it as InvalidProofStructure.
var ErrDivisionByZero = errors.New("curveops: division by zero in batch inversion")

// BatchInvert inverts every element of s using Montgomery's trick: one
// scalar inversion plus 3(n-1) multiplications, instead of n inversions.
func BatchInvert(s []ristretto.Scalar) ([]ristretto.Scalar, error) {
	n := len(s)
	if n == 0 {
		return nil, nil
	}

	prefix := make([]ristretto.Scalar, n)
	acc := ristretto.ScalarFromUint64(1)
	for i, v := range s {
		if v.IsZero() {
			return nil, ErrDivisionByZero
		}
		prefix[i] = acc
		acc = acc.Mul(v)
	}

	accInv := acc.Invert()

	out := make([]ristretto.Scalar, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = accInv.Mul(prefix[i])
		accInv = accInv.Mul(s[i])
	}
	return out, nil
}
