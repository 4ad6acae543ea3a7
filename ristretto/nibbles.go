package ristretto

import "math/big"

// ScalarFromBigIntPow2 returns 2^shift reduced modulo q, used by the
// curve-ops accelerator to derive each window's base multiple.
func ScalarFromBigIntPow2(shift int) Scalar {
	v := new(big.Int).Lsh(big.NewInt(1), uint(shift))
	v.Mod(v, scalarOrder())
	return ScalarFromBigInt(v)
}

// NibblesLE splits a scalar's canonical 32-byte little-endian encoding into
// 64 four-bit digits, least-significant nibble first. This is the digit
// decomposition the accelerator's windowed tables are indexed by.
func NibblesLE(s Scalar) [64]byte {
	b := s.Bytes()
	var out [64]byte
	for i, by := range b {
		out[2*i] = by & 0x0f
		out[2*i+1] = by >> 4
	}
	return out
}
