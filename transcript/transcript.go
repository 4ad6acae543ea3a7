// Package transcript implements the Fiat-Shamir transcript described in
// spec.md section 4.3: a rolling SHA-256 state that absorbs labelled
// points/scalars/bytes and squeezes labelled scalar challenges.
package transcript

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"

	"github.com/veilpay/veil-core/ristretto"
)

const challengeSeparator = "challenge"

// Transcript is a stateful hash absorbing protocol inputs and producing
// Fiat-Shamir challenges. The zero value is not usable; use New.
type Transcript struct {
	state [32]byte
}

// New starts a transcript domain-separated by protocolLabel, so that
// transfer and burn transcripts (and any future instruction) never collide
// even if they happened to absorb an identical byte sequence.
func New(protocolLabel string) *Transcript {
	t := &Transcript{}
	t.append("domain", []byte(protocolLabel))
	return t
}

// Append absorbs label and payload, each length-prefixed so that, e.g.,
// appending "ab"+"c" is distinguishable from "a"+"bc".
func (t *Transcript) Append(label string, payload []byte) {
	t.append(label, payload)
}

// AppendPoint absorbs a point's canonical encoding under label.
func (t *Transcript) AppendPoint(label string, p ristretto.Point) {
	b := p.Bytes()
	t.append(label, b[:])
}

// AppendScalar absorbs a scalar's canonical encoding under label.
func (t *Transcript) AppendScalar(label string, s ristretto.Scalar) {
	b := s.Bytes()
	t.append(label, b[:])
}

// AppendUint64 absorbs a little-endian 8-byte integer under label, used for
// the epoch and other plaintext wire fields the transcript must bind.
func (t *Transcript) AppendUint64(label string, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	t.append(label, b[:])
}

func (t *Transcript) append(label string, payload []byte) {
	h := sha256.New()
	h.Write(t.state[:])
	writeLenPrefixed(h, []byte(label))
	writeLenPrefixed(h, payload)
	copy(t.state[:], h.Sum(nil))
}

func writeLenPrefixed(h interface{ Write([]byte) (int, error) }, b []byte) {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(b)))
	h.Write(lenBuf[:])
	h.Write(b)
}

// Challenge finalises a clone of the current state with a distinct
// "challenge" domain separator, derives a scalar from the digest, and folds
// that scalar back into the rolling state so that two challenges squeezed
// in a row are never equal and every later challenge depends on it.
func (t *Transcript) Challenge(label string) ristretto.Scalar {
	h := sha256.New()
	h.Write(t.state[:])
	writeLenPrefixed(h, []byte(challengeSeparator))
	writeLenPrefixed(h, []byte(label))
	digest := h.Sum(nil)

	bi := new(big.Int).SetBytes(digest)
	challenge := ristretto.ScalarFromBigInt(bi)

	// Fold the produced scalar back into the rolling state.
	cb := challenge.Bytes()
	t.append("challenge-fold", cb[:])

	return challenge
}
