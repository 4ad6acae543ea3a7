package ledger

// GlobalState is the program-wide configuration and clock-derived position
// described in spec.md section 3.
type GlobalState struct {
	Authority   [32]byte // opaque to the core beyond equality checks
	TokenMint   [32]byte // opaque to the core
	EpochLength uint64   // seconds
	Fee         uint64   // plaintext units credited to a transfer's beneficiary
	LastUpdate  uint64   // unix seconds of the last instruction that touched state
	CurrentEpoch uint64
}

// Initialize builds the GlobalState for Initialize instructions (spec.md
// section 4.8): the caller is expected to have already checked
// authority == caller before calling this.
func Initialize(authority, tokenMint [32]byte, epochLength, fee, now uint64) GlobalState {
	return GlobalState{
		Authority:    authority,
		TokenMint:    tokenMint,
		EpochLength:  epochLength,
		Fee:          fee,
		LastUpdate:   now,
		CurrentEpoch: Epoch(now, epochLength),
	}
}

// Advance recomputes CurrentEpoch/LastUpdate for the current clock reading.
func (s *GlobalState) Advance(now uint64) {
	s.LastUpdate = now
	s.CurrentEpoch = Epoch(now, s.EpochLength)
}
