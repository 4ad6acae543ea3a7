package bulletproofs

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/veilpay/veil-core/ristretto"
)

// ErrShortBuffer is returned by the Unmarshal family when the wire buffer
// ends before the structure it is decoding does.
var ErrShortBuffer = errors.New("bulletproofs: short buffer")

// Marshal encodes a RangeProof per spec.md section 6: A, S, T1, T2, That,
// TauX, Mu as fixed 32-byte fields, followed by a uint32 round count and the
// IPP's L/R point vectors and final a, b scalars.
func (p RangeProof) Marshal() []byte {
	var buf bytes.Buffer
	writePoint(&buf, p.A)
	writePoint(&buf, p.S)
	writePoint(&buf, p.T1)
	writePoint(&buf, p.T2)
	writeScalar(&buf, p.That)
	writeScalar(&buf, p.TauX)
	writeScalar(&buf, p.Mu)

	var roundsBuf [4]byte
	binary.LittleEndian.PutUint32(roundsBuf[:], uint32(len(p.IPP.L)))
	buf.Write(roundsBuf[:])
	for i := range p.IPP.L {
		writePoint(&buf, p.IPP.L[i])
		writePoint(&buf, p.IPP.R[i])
	}
	writeScalar(&buf, p.IPP.A)
	writeScalar(&buf, p.IPP.B)

	return buf.Bytes()
}

// UnmarshalRangeProof decodes the wire format produced by Marshal. Apart
// from rejecting a round count above 32, it validates no internal field by
// itself; the caller must still run Verify,
// which enforces the shape and range invariants of spec.md section 4.5.
func UnmarshalRangeProof(b []byte) (RangeProof, error) {
	r := bytes.NewReader(b)

	A, err := readPoint(r)
	if err != nil {
		return RangeProof{}, err
	}
	S, err := readPoint(r)
	if err != nil {
		return RangeProof{}, err
	}
	T1, err := readPoint(r)
	if err != nil {
		return RangeProof{}, err
	}
	T2, err := readPoint(r)
	if err != nil {
		return RangeProof{}, err
	}
	that, err := readScalar(r)
	if err != nil {
		return RangeProof{}, err
	}
	tauX, err := readScalar(r)
	if err != nil {
		return RangeProof{}, err
	}
	mu, err := readScalar(r)
	if err != nil {
		return RangeProof{}, err
	}

	var roundsBuf [4]byte
	if _, err := readFull(r, roundsBuf[:]); err != nil {
		return RangeProof{}, err
	}
	rounds := int(binary.LittleEndian.Uint32(roundsBuf[:]))
	if rounds < 0 || rounds > 32 {
		return RangeProof{}, ErrInvalidProofStructure
	}

	L := make([]ristretto.Point, rounds)
	R := make([]ristretto.Point, rounds)
	for i := 0; i < rounds; i++ {
		L[i], err = readPoint(r)
		if err != nil {
			return RangeProof{}, err
		}
		R[i], err = readPoint(r)
		if err != nil {
			return RangeProof{}, err
		}
	}
	ippA, err := readScalar(r)
	if err != nil {
		return RangeProof{}, err
	}
	ippB, err := readScalar(r)
	if err != nil {
		return RangeProof{}, err
	}

	return RangeProof{
		A: A, S: S, T1: T1, T2: T2,
		That: that, TauX: tauX, Mu: mu,
		IPP: InnerProductProof{L: L, R: R, A: ippA, B: ippB},
	}, nil
}

func writePoint(buf *bytes.Buffer, p ristretto.Point) {
	b := p.Bytes()
	buf.Write(b[:])
}

func writeScalar(buf *bytes.Buffer, s ristretto.Scalar) {
	b := s.Bytes()
	buf.Write(b[:])
}

func readFull(r *bytes.Reader, out []byte) (int, error) {
	n, err := r.Read(out)
	if err != nil || n != len(out) {
		return n, ErrShortBuffer
	}
	return n, nil
}

func readPoint(r *bytes.Reader) (ristretto.Point, error) {
	var b [32]byte
	if _, err := readFull(r, b[:]); err != nil {
		return ristretto.Point{}, err
	}
	return ristretto.PointFromBytes(b)
}

func readScalar(r *bytes.Reader) (ristretto.Scalar, error) {
	var b [32]byte
	if _, err := readFull(r, b[:]); err != nil {
		return ristretto.Scalar{}, err
	}
	return ristretto.ScalarFromBytes(b)
}
