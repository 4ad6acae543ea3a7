// Package generators derives the domain-separated Bulletproof vector
// generators G[i], H[i] and the auxiliary inner-product point u, per
// spec.md section 4.4.
package generators

import (
	"fmt"
	"sync"

	"github.com/veilpay/veil-core/ristretto"
)

// N is the largest supported m*n (bit-width times aggregated commitments):
// two 32-bit commitments for a transfer's [C_new, C_out], or one for burn.
const N = 64

// Set holds the generator vectors and the auxiliary point used by the
// range-proof verifier.
type Set struct {
	G [N]ristretto.Point
	H [N]ristretto.Point
	U ristretto.Point
}

var (
	instance *Set
	once     sync.Once
)

// Default returns the process-wide generator set, deriving it on first use.
func Default() *Set {
	once.Do(func() {
		instance = derive()
	})
	return instance
}

func derive() *Set {
	s := &Set{}
	for i := 0; i < N; i++ {
		s.G[i] = ristretto.HashToCurve(fmt.Sprintf("bp/g/%d", i))
		s.H[i] = ristretto.HashToCurve(fmt.Sprintf("bp/h/%d", i))
	}
	s.U = ristretto.HashToCurve("bp/u")
	return s
}
