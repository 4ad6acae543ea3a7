package instructions

import (
	"github.com/veilpay/veil-core/coreerr"
	"github.com/veilpay/veil-core/corelog"
	"github.com/veilpay/veil-core/ledger"
	"github.com/veilpay/veil-core/sigma"
)

// Ledger is the minimal account/nonce store a Dispatch call needs. A host
// wires its own storage behind this interface; this core holds no state
// across calls (spec.md section 5). Account's bool return reports whether
// pk was already registered; Register is the one instruction allowed to
// receive a freshly zero-valued (unregistered) account for a pk never seen
// before, so a host's Account implementation must return a usable pointer
// even on a first sighting of pk, not just on ok==true.
type Ledger interface {
	Account(pk [32]byte) (*ledger.Account, bool)
	Nonces() *ledger.NonceSet
	State() *ledger.GlobalState
}

// Dispatch decodes a single wire record and applies it against store. now is
// the host-supplied unix clock reading (spec.md section 6's only
// environment input). caller is the pubkey that submitted the instruction:
// it is checked against the authority for Initialize and selects the account
// that Fund, Burn and RollOver act on. For Transfer, proof
// must already be decoded by the host from the record's opaque proof
// sub-record (see TransferArgs in wire.go); every other instruction is
// fully self-contained in the wire bytes.
func Dispatch(store Ledger, record []byte, caller [32]byte, programID []byte, now uint64, transferProof sigma.TransferProof) (err error) {
	tag, decoded, err := Decode(record)
	if err != nil {
		corelog.Errorw(err, "failed to decode instruction")
		return err
	}

	state := store.State()
	logger := corelog.WithEpoch(ledger.Epoch(now, state.EpochLength)).With().Hex("caller", caller[:]).Logger()
	defer func() {
		if err != nil {
			logger.Error().Int("tag", int(tag)).Err(err).Msg("instruction rejected")
		} else {
			logger.Debug().Int("tag", int(tag)).Msg("instruction applied")
		}
	}()

	switch tag {
	case TagInitialize:
		args := decoded.(InitializeArgs)
		if caller != state.Authority && state.EpochLength != 0 {
			// GlobalState already initialised by a different authority than
			// the one attempting to re-initialise; spec.md section 4.8
			// lists Initialize's only error as MissingSignature, so a
			// mismatched caller here is surfaced the same way a host would
			// surface a missing/invalid authority signature.
			return coreerr.ErrInvalidInstruction
		}
		*state = HandleInitialize(caller, state.TokenMint, args, now)
		return nil

	case TagRegister:
		args := decoded.(RegisterArgs)
		pkBytes := args.Pk.Bytes()
		corelog.WithAccount(pkBytes).Debug().Msg("registering account")
		acc, _ := store.Account(pkBytes)
		return HandleRegister(acc, args, programID)

	case TagFund:
		args := decoded.(FundArgs)
		acc, ok := store.Account(caller)
		if !ok {
			return coreerr.ErrAccountNotRegistered
		}
		return HandleFund(acc, args, now, state.EpochLength)

	case TagBurn:
		args := decoded.(BurnArgs)
		acc, ok := store.Account(caller)
		if !ok {
			return coreerr.ErrAccountNotRegistered
		}
		return HandleBurn(acc, store.Nonces(), args, now, state.EpochLength)

	case TagTransfer:
		args := decoded.(TransferArgs)
		slots := make([]*ledger.Account, len(args.PkVec))
		for i, pk := range args.PkVec {
			acc, ok := store.Account(pk.Bytes())
			if !ok {
				return coreerr.ErrAccountNotRegistered
			}
			slots[i] = acc
		}
		beneficiary, ok := store.Account(args.Beneficiary)
		if !ok {
			return coreerr.ErrAccountNotRegistered
		}
		return HandleTransfer(slots, beneficiary, store.Nonces(), args, transferProof, state.Fee, now, state.EpochLength)

	case TagRollOver:
		acc, ok := store.Account(caller)
		if !ok {
			return coreerr.ErrAccountNotRegistered
		}
		HandleRollOver(acc, now, state.EpochLength)
		return nil

	default:
		return coreerr.ErrInvalidInstruction
	}
}
