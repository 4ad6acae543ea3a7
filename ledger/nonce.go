package ledger

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/veilpay/veil-core/coreerr"
)

// NonceTag is the content-addressed replay-protection key of spec.md
// section 3: derived from (nonce, epoch), not the raw nonce alone, so the
// same client-chosen nonce is legitimately reusable once the epoch rolls.
type NonceTag [32]byte

// ComputeTag derives the tag for a given nonce and epoch.
func ComputeTag(nonce [32]byte, epoch uint64) NonceTag {
	h := sha256.New()
	h.Write(nonce[:])
	var eb [8]byte
	binary.LittleEndian.PutUint64(eb[:], epoch)
	h.Write(eb[:])
	var out NonceTag
	copy(out[:], h.Sum(nil))
	return out
}

// NonceSet tracks used (tag, epoch) pairs. Tags from stale epochs may be
// purged; storage reclamation is a host concern, but the set exposes
// PurgeBefore so a host can bound memory.
type NonceSet struct {
	used map[NonceTag]uint64 // tag -> epoch it was used in
}

// NewNonceSet returns an empty set.
func NewNonceSet() *NonceSet {
	return &NonceSet{used: make(map[NonceTag]uint64)}
}

// Check returns NonceAlreadySeen if (nonce, epoch) was already marked used.
func (s *NonceSet) Check(nonce [32]byte, epoch uint64) error {
	tag := ComputeTag(nonce, epoch)
	if usedEpoch, ok := s.used[tag]; ok && usedEpoch == epoch {
		return coreerr.ErrNonceAlreadySeen
	}
	return nil
}

// MarkUsed records (nonce, epoch) as spent.
func (s *NonceSet) MarkUsed(nonce [32]byte, epoch uint64) {
	s.used[ComputeTag(nonce, epoch)] = epoch
}

// PurgeBefore discards every recorded tag whose epoch predates cutoff.
func (s *NonceSet) PurgeBefore(cutoff uint64) {
	for tag, epoch := range s.used {
		if epoch < cutoff {
			delete(s.used, tag)
		}
	}
}
