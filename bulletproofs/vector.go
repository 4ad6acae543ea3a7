package bulletproofs

import (
	"errors"
	"math/big"

	"github.com/ing-bank/zkrp/util/bn"

	"github.com/veilpay/veil-core/ristretto"
)

var order = ristretto.Order()

// decompose returns the little-endian base-2 digits of x, padded to l
// digits. x must be a non-negative integer strictly less than 2^l.
func decompose(x *big.Int, l int) []int64 {
	result := make([]int64, l)
	v := new(big.Int).Set(x)
	two := big.NewInt(2)
	for i := 0; i < l; i++ {
		result[i] = new(big.Int).Mod(v, two).Int64()
		v.Div(v, two)
	}
	return result
}

// complementBits returns aR = aL - 1^n, the bit complement used by the
// Bulletproof aL/aR commitment.
func complementBits(aL []int64) ([]int64, error) {
	result := make([]int64, len(aL))
	for i, bit := range aL {
		switch bit {
		case 0:
			result[i] = -1
		case 1:
			result[i] = 0
		default:
			return nil, errors.New("bulletproofs: non-binary bit in decomposition")
		}
	}
	return result, nil
}

func vectorConvertToBig(a []int64) []*big.Int {
	out := make([]*big.Int, len(a))
	for i, v := range a {
		out[i] = big.NewInt(v)
	}
	return out
}

func vectorCopy(v *big.Int, n int) []*big.Int {
	out := make([]*big.Int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func vectorAdd(a, b []*big.Int) ([]*big.Int, error) {
	if len(a) != len(b) {
		return nil, errors.New("bulletproofs: vector length mismatch")
	}
	out := make([]*big.Int, len(a))
	for i := range a {
		out[i] = bn.Mod(bn.Add(a[i], b[i]), order)
	}
	return out, nil
}

func vectorAddConst(a []*big.Int, c *big.Int) []*big.Int {
	out := make([]*big.Int, len(a))
	for i := range a {
		out[i] = bn.Mod(bn.Add(a[i], c), order)
	}
	return out
}

func vectorSub(a, b []*big.Int) ([]*big.Int, error) {
	if len(a) != len(b) {
		return nil, errors.New("bulletproofs: vector length mismatch")
	}
	out := make([]*big.Int, len(a))
	for i := range a {
		out[i] = bn.Mod(bn.Sub(a[i], b[i]), order)
	}
	return out, nil
}

func vectorMul(a, b []*big.Int) ([]*big.Int, error) {
	if len(a) != len(b) {
		return nil, errors.New("bulletproofs: vector length mismatch")
	}
	out := make([]*big.Int, len(a))
	for i := range a {
		out[i] = bn.Mod(bn.Multiply(a[i], b[i]), order)
	}
	return out, nil
}

func vectorScalarMul(a []*big.Int, s *big.Int) []*big.Int {
	out := make([]*big.Int, len(a))
	for i := range a {
		out[i] = bn.Mod(bn.Multiply(a[i], s), order)
	}
	return out
}

func innerProduct(a, b []*big.Int) (*big.Int, error) {
	if len(a) != len(b) {
		return nil, errors.New("bulletproofs: vector length mismatch")
	}
	out := big.NewInt(0)
	for i := range a {
		out = bn.Mod(bn.Add(out, bn.Multiply(a[i], b[i])), order)
	}
	return out, nil
}

// powersOf returns (1, x, x^2, ..., x^(n-1)) mod q.
func powersOf(x *big.Int, n int) []*big.Int {
	out := make([]*big.Int, n)
	cur := big.NewInt(1)
	for i := 0; i < n; i++ {
		out[i] = cur
		cur = bn.Mod(bn.Multiply(cur, x), order)
	}
	return out
}

func sc(v *big.Int) ristretto.Scalar {
	return ristretto.ScalarFromBigInt(v)
}
