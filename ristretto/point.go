package ristretto

import (
	"fmt"

	"github.com/cloudflare/circl/group"
)

// Point is an element of the Ristretto255 prime-order group, held in its
// canonical compressed 32-byte form once marshalled.
type Point struct {
	p group.Element
}

// Identity returns O, the group's identity element.
func Identity() Point {
	return Point{p: grp.Identity()}
}

// BasePoint returns the distinguished generator G.
func BasePoint() Point {
	return Point{p: grp.Generator()}
}

// HashToCurve derives a point by hashing label with SHA-256 into a scalar
// and scaling the base point by it, so the point's discrete log relative to
// the base point is that public hash value. Acceptable per spec.md section 4.1: only ever used
// to derive public, domain-separated generators, never witness material.
func HashToCurve(label string) Point {
	sc := HashToScalar([]byte(label))
	e := grp.NewElement()
	e.MulGen(sc.s)
	return Point{p: e}
}

// PointFromBytes decodes a canonical 32-byte Ristretto255 encoding. Only
// canonical encodings are accepted; anything else is InvalidEncoding.
func PointFromBytes(b [32]byte) (Point, error) {
	e := grp.NewElement()
	if err := e.UnmarshalBinary(b[:]); err != nil {
		return Point{}, fmt.Errorf("ristretto: invalid point encoding: %w", err)
	}
	return Point{p: e}, nil
}

// Bytes returns the canonical 32-byte compressed encoding.
func (p Point) Bytes() [32]byte {
	raw, err := p.p.MarshalBinary()
	if err != nil {
		panic(fmt.Sprintf("ristretto: point marshal: %v", err))
	}
	var out [32]byte
	copy(out[:], raw)
	return out
}

// Add returns a+b.
func (p Point) Add(o Point) Point {
	r := grp.NewElement()
	r.Add(p.p, o.p)
	return Point{p: r}
}

// Sub returns a-b.
func (p Point) Sub(o Point) Point {
	r := grp.NewElement()
	neg := grp.NewElement()
	neg.Neg(o.p)
	r.Add(p.p, neg)
	return Point{p: r}
}

// Negate returns -a.
func (p Point) Negate() Point {
	r := grp.NewElement()
	r.Neg(p.p)
	return Point{p: r}
}

// Mul returns s*P.
func (p Point) Mul(s Scalar) Point {
	r := grp.NewElement()
	r.Mul(p.p, s.s)
	return Point{p: r}
}

// MulBase returns s*G, the base-point scalar multiplication.
func MulBase(s Scalar) Point {
	r := grp.NewElement()
	r.MulGen(s.s)
	return Point{p: r}
}

// Equal reports whether two points are identical.
func (p Point) Equal(o Point) bool {
	return p.p.IsEqual(o.p)
}

// IsIdentity reports whether the point is O.
func (p Point) IsIdentity() bool {
	return p.p.IsIdentity()
}

// Inner exposes the underlying circl element. No package in this
// repository calls it; the accelerator builds its tables through Mul and Add.
func (p Point) Inner() group.Element { return p.p }

// Pedersen computes v*G + r*H, the twisted-commitment building block used
// throughout the account model and the range-proof verifier.
func Pedersen(v, r Scalar, h Point) Point {
	return MulBase(v).Add(h.Mul(r))
}
