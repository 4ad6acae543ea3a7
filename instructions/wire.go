// Package instructions decodes and dispatches the wire instructions of
// spec.md section 6 against the account/ledger model in package ledger.
package instructions

import (
	"bytes"
	"encoding/binary"

	"github.com/veilpay/veil-core/coreerr"
	"github.com/veilpay/veil-core/ristretto"
	"github.com/veilpay/veil-core/sigma"
)

// Tag is the one-byte instruction discriminant of spec.md section 6.
type Tag byte

const (
	TagInitialize Tag = 0
	TagRegister   Tag = 1
	TagFund       Tag = 2
	TagTransfer   Tag = 3
	TagBurn       Tag = 4
	TagRollOver   Tag = 5
)

// MaxAmount is the largest plaintext value a range proof over n=32 bits can
// attest to (bulletproofs/types.go fixes n at 32 as bitsPerValue).
const MaxAmount = (uint64(1) << 32) - 1

// InitializeArgs carries Initialize's wire payload (spec.md section 6):
// just epoch_length and fee. Authority and token_mint are not wire fields —
// the host supplies the calling account's pubkey as Authority and its own
// mint identifier separately, since "authority is the caller" (section 4.8)
// is a property of who submitted the instruction, not instruction data.
type InitializeArgs struct {
	EpochLength uint64
	Fee         uint64
}

type RegisterArgs struct {
	Pk ristretto.Point
	C  ristretto.Scalar
	S  ristretto.Scalar
}

type FundArgs struct {
	Amount uint64
}

// TransferArgs carries the cleartext fields of a Transfer instruction. The
// proof sub-record (ZerosolProof: RangeProof plus the one-of-many vectors)
// is left as opaque ProofBytes rather than decoded into a sigma.TransferProof
// here: unlike BurnProof, a TransferProof carries the per-slot ring-proof
// response vectors E, SSk and STau, one entry per anonymity-set member, so
// their lengths depend on PkVec. The per-slot ciphertext state (slotCL,
// slotCR) that VerifyTransfer also takes is read from the accounts, not
// from the proof bytes. A host integrating this core supplies a matching
// encode/decode pair for its own proof wire format; decoding that format is
// out of this core's scope.
type TransferArgs struct {
	CVec        []ristretto.Point
	D           ristretto.Point
	PkVec       []ristretto.Point
	Nonce       [32]byte
	Beneficiary [32]byte
	ProofBytes  []byte
}

type BurnArgs struct {
	Amount uint64
	Nonce  [32]byte
	Proof  sigma.BurnProof
}

func readFull(r *bytes.Reader, out []byte) error {
	n, err := r.Read(out)
	if err != nil || n != len(out) {
		return coreerr.ErrInvalidEncoding
	}
	return nil
}

func readUint64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func readBytes32(r *bytes.Reader) ([32]byte, error) {
	var b [32]byte
	if err := readFull(r, b[:]); err != nil {
		return b, err
	}
	return b, nil
}

func readPoint(r *bytes.Reader) (ristretto.Point, error) {
	b, err := readBytes32(r)
	if err != nil {
		return ristretto.Point{}, err
	}
	p, err := ristretto.PointFromBytes(b)
	if err != nil {
		return ristretto.Point{}, coreerr.ErrInvalidEncoding
	}
	return p, nil
}

func readScalar(r *bytes.Reader) (ristretto.Scalar, error) {
	b, err := readBytes32(r)
	if err != nil {
		return ristretto.Scalar{}, err
	}
	s, err := ristretto.ScalarFromBytes(b)
	if err != nil {
		return ristretto.Scalar{}, coreerr.ErrInvalidEncoding
	}
	return s, nil
}

func readPointVec(r *bytes.Reader) ([]ristretto.Point, error) {
	count, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	out := make([]ristretto.Point, count)
	for i := range out {
		out[i], err = readPoint(r)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readRemainder(r *bytes.Reader) []byte {
	rest := make([]byte, r.Len())
	_, _ = r.Read(rest)
	return rest
}

// Decode splits a wire record into its tag and a decoded args value. The
// args value's concrete type is one of the *Args types above, or nil for
// RollOver (which has no payload).
func Decode(record []byte) (Tag, any, error) {
	if len(record) < 1 {
		return 0, nil, coreerr.ErrInvalidInstruction
	}
	tag := Tag(record[0])
	r := bytes.NewReader(record[1:])

	switch tag {
	case TagInitialize:
		epochLength, err := readUint64(r)
		if err != nil {
			return tag, nil, err
		}
		fee, err := readUint64(r)
		if err != nil {
			return tag, nil, err
		}
		return tag, InitializeArgs{EpochLength: epochLength, Fee: fee}, nil

	case TagRegister:
		pk, err := readPoint(r)
		if err != nil {
			return tag, nil, err
		}
		c, err := readScalar(r)
		if err != nil {
			return tag, nil, err
		}
		s, err := readScalar(r)
		if err != nil {
			return tag, nil, err
		}
		return tag, RegisterArgs{Pk: pk, C: c, S: s}, nil

	case TagFund:
		amount, err := readUint64(r)
		if err != nil {
			return tag, nil, err
		}
		return tag, FundArgs{Amount: amount}, nil

	case TagTransfer:
		cVec, err := readPointVec(r)
		if err != nil {
			return tag, nil, err
		}
		d, err := readPoint(r)
		if err != nil {
			return tag, nil, err
		}
		pkVec, err := readPointVec(r)
		if err != nil {
			return tag, nil, err
		}
		nonce, err := readBytes32(r)
		if err != nil {
			return tag, nil, err
		}
		beneficiary, err := readBytes32(r)
		if err != nil {
			return tag, nil, err
		}
		proofBytes := readRemainder(r)
		return tag, TransferArgs{CVec: cVec, D: d, PkVec: pkVec, Nonce: nonce, Beneficiary: beneficiary, ProofBytes: proofBytes}, nil

	case TagBurn:
		amount, err := readUint64(r)
		if err != nil {
			return tag, nil, err
		}
		nonce, err := readBytes32(r)
		if err != nil {
			return tag, nil, err
		}
		proof, err := sigma.UnmarshalBurnProof(readRemainder(r))
		if err != nil {
			return tag, nil, coreerr.ErrInvalidProofStructure
		}
		return tag, BurnArgs{Amount: amount, Nonce: nonce, Proof: proof}, nil

	case TagRollOver:
		return tag, nil, nil

	default:
		return tag, nil, coreerr.ErrInvalidInstruction
	}
}
