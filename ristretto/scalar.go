// Package ristretto wraps the Ristretto255 prime-order group from
// github.com/cloudflare/circl/group behind the narrow Scalar/Point surface
// the verification core needs: arithmetic, canonical encoding, and the two
// hash-based constructors (hash_to_scalar, hash_to_curve) the rest of the
// core is built on.
package ristretto

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/cloudflare/circl/group"
)

// grp is the single Ristretto255 group instance every Scalar/Point in this
// package is defined over.
var grp = group.Ristretto255

// Scalar is an integer modulo the Ristretto255 scalar field order q.
type Scalar struct {
	s group.Scalar
}

// ScalarZero returns the additive identity.
func ScalarZero() Scalar {
	return Scalar{s: grp.NewScalar()}
}

// ScalarFromUint64 lifts a small integer into the scalar field.
func ScalarFromUint64(v uint64) Scalar {
	s := grp.NewScalar()
	s.SetUint64(v)
	return Scalar{s: s}
}

// ScalarFromBigInt reduces a big.Int modulo q.
func ScalarFromBigInt(v *big.Int) Scalar {
	s := grp.NewScalar()
	s.SetBigInt(v)
	return Scalar{s: s}
}

// RandomScalar draws a uniform scalar using the supplied entropy source.
func RandomScalar(rnd interface {
	Read([]byte) (int, error)
}) Scalar {
	return Scalar{s: grp.RandomNonZeroScalar(rnd)}
}

// ScalarFromBytes reduces a 32-byte little-endian encoding modulo q. Unlike
// point decoding, non-canonical scalar encodings are accepted and reduced,
// per spec.md section 4.1.
func ScalarFromBytes(b [32]byte) (Scalar, error) {
	s := grp.NewScalar()
	if err := s.UnmarshalBinary(b[:]); err != nil {
		// UnmarshalBinary on circl's Ristretto255 scalar rejects
		// non-canonical encodings; fall back to explicit reduction via
		// big.Int, matching "non-canonical inputs accepted by reduction".
		bi := new(big.Int).SetBytes(reverse(b[:]))
		bi.Mod(bi, scalarOrder())
		s.SetBigInt(bi)
	}
	return Scalar{s: s}, nil
}

// HashToScalar hashes msg with SHA-256 and reduces the digest modulo q.
func HashToScalar(msg []byte) Scalar {
	digest := sha256.Sum256(msg)
	bi := new(big.Int).SetBytes(digest[:])
	bi.Mod(bi, scalarOrder())
	return ScalarFromBigInt(bi)
}

// Order returns q, the prime order of the Ristretto255 scalar field.
func Order() *big.Int {
	return new(big.Int).Set(scalarOrder())
}

var cachedOrder *big.Int

func scalarOrder() *big.Int {
	if cachedOrder == nil {
		n, ok := new(big.Int).SetString(
			"1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed", 16)
		if !ok {
			panic("ristretto: bad hardcoded group order")
		}
		cachedOrder = n
	}
	return cachedOrder
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// Bytes returns the canonical little-endian 32-byte encoding.
func (s Scalar) Bytes() [32]byte {
	raw, err := s.s.MarshalBinary()
	if err != nil {
		panic(fmt.Sprintf("ristretto: scalar marshal: %v", err))
	}
	var out [32]byte
	copy(out[:], raw)
	return out
}

// Add returns a+b.
func (s Scalar) Add(o Scalar) Scalar {
	r := grp.NewScalar()
	r.Add(s.s, o.s)
	return Scalar{s: r}
}

// Sub returns a-b.
func (s Scalar) Sub(o Scalar) Scalar {
	r := grp.NewScalar()
	r.Sub(s.s, o.s)
	return Scalar{s: r}
}

// Mul returns a*b.
func (s Scalar) Mul(o Scalar) Scalar {
	r := grp.NewScalar()
	r.Mul(s.s, o.s)
	return Scalar{s: r}
}

// Neg returns -a.
func (s Scalar) Neg() Scalar {
	r := grp.NewScalar()
	r.Neg(s.s)
	return Scalar{s: r}
}

// Invert returns a^-1. Callers must not pass the zero scalar; batch
// inversion (curveops.BatchInvert) is the expected entry point for proof
// verification, since it fails closed on a zero element instead of
// panicking partway through a multiscalar computation.
func (s Scalar) Invert() Scalar {
	r := grp.NewScalar()
	r.Inv(s.s)
	return Scalar{s: r}
}

// IsZero reports whether the scalar is the additive identity.
func (s Scalar) IsZero() bool {
	return s.s.IsZero()
}

// Equal reports whether two scalars are identical.
func (s Scalar) Equal(o Scalar) bool {
	return s.s.IsEqual(o.s)
}

// Inner exposes the underlying circl scalar. No package in this repository
// calls it.
func (s Scalar) Inner() group.Scalar { return s.s }
