package curveops

import (
	"errors"

	"github.com/veilpay/veil-core/ristretto"
)

// ErrLengthMismatch is returned when MultiScalarMul's two slices disagree in
// length. It is returned as an error rather than a panic so that callers
// can treat it as an InvalidProofStructure condition.
var ErrLengthMismatch = errors.New("curveops: scalars and points length mismatch")

// MultiScalarMul computes sum(scalars[i] * points[i]) with a fixed 4-bit
// window (Straus's method). Variable-time: every input here is public
// (spec.md section 5), so there is no side-channel budget to spend on
// constant-time arithmetic.
func MultiScalarMul(scalars []ristretto.Scalar, points []ristretto.Point) (ristretto.Point, error) {
	if len(scalars) != len(points) {
		return ristretto.Point{}, ErrLengthMismatch
	}
	if len(scalars) == 0 {
		return ristretto.Identity(), nil
	}

	digitSets := make([][64]byte, len(scalars))
	for i, s := range scalars {
		digitSets[i] = ristretto.NibblesLE(s)
	}

	// Precompute the 16 small multiples (0P..15P) for each point.
	smallMuls := make([][windowSize]ristretto.Point, len(points))
	for i, p := range points {
		acc := ristretto.Identity()
		for d := 0; d < windowSize; d++ {
			smallMuls[i][d] = acc
			acc = acc.Add(p)
		}
	}

	acc := ristretto.Identity()
	for w := 63; w >= 0; w-- {
		if w != 63 {
			for k := 0; k < windowBits; k++ {
				acc = acc.Add(acc)
			}
		}
		for i := range points {
			d := digitSets[i][w]
			if d != 0 {
				acc = acc.Add(smallMuls[i][d])
			}
		}
	}
	return acc, nil
}
