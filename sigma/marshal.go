package sigma

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/veilpay/veil-core/bulletproofs"
	"github.com/veilpay/veil-core/ristretto"
)

// ErrShortBuffer is returned by Unmarshal family functions when the wire
// buffer ends before the structure it is decoding does.
var ErrShortBuffer = errors.New("sigma: short buffer")

// Marshal encodes a BurnProof: CNew, C, SSk, STau as fixed 32-byte fields,
// followed by a uint32 byte-length-prefixed embedded RangeProof.
func (p BurnProof) Marshal() []byte {
	var buf bytes.Buffer
	writePoint(&buf, p.CNew)
	writeScalar(&buf, p.C)
	writeScalar(&buf, p.SSk)
	writeScalar(&buf, p.STau)

	rangeBytes := p.Range.Marshal()
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(rangeBytes)))
	buf.Write(lenBuf[:])
	buf.Write(rangeBytes)
	return buf.Bytes()
}

// UnmarshalBurnProof decodes the wire format produced by Marshal. As with
// bulletproofs.UnmarshalRangeProof, this validates no invariant by itself;
// the caller still runs VerifyBurn.
func UnmarshalBurnProof(b []byte) (BurnProof, error) {
	r := bytes.NewReader(b)

	cNew, err := readPoint(r)
	if err != nil {
		return BurnProof{}, err
	}
	c, err := readScalar(r)
	if err != nil {
		return BurnProof{}, err
	}
	sSk, err := readScalar(r)
	if err != nil {
		return BurnProof{}, err
	}
	sTau, err := readScalar(r)
	if err != nil {
		return BurnProof{}, err
	}

	var lenBuf [4]byte
	if _, err := readFull(r, lenBuf[:]); err != nil {
		return BurnProof{}, err
	}
	rangeLen := int(binary.LittleEndian.Uint32(lenBuf[:]))
	rangeBytes := make([]byte, rangeLen)
	if _, err := readFull(r, rangeBytes); err != nil {
		return BurnProof{}, err
	}
	rangeProof, err := bulletproofs.UnmarshalRangeProof(rangeBytes)
	if err != nil {
		return BurnProof{}, err
	}

	return BurnProof{
		Range: rangeProof,
		CNew:  cNew,
		C:     c,
		SSk:   sSk,
		STau:  sTau,
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
