package instructions

import (
	"github.com/veilpay/veil-core/coreerr"
	"github.com/veilpay/veil-core/ledger"
	"github.com/veilpay/veil-core/ristretto"
	"github.com/veilpay/veil-core/sigma"
)

// HandleInitialize builds the program's GlobalState. The caller has already
// checked that the submitting account equals authority (spec.md section 4.8
// only requires this pre-check; there is no on-chain signature format for
// it in this core, since authority comparison is a host concern).
func HandleInitialize(authority, tokenMint [32]byte, args InitializeArgs, now uint64) ledger.GlobalState {
	return ledger.Initialize(authority, tokenMint, args.EpochLength, args.Fee, now)
}

// HandleRegister verifies the registration Schnorr signature and transitions
// acc into the registered state. programID binds the signature to this
// deployment (spec.md section 4.7), distinguishing it from registrations
// against any other instance sharing the same curve parameters.
func HandleRegister(acc *ledger.Account, args RegisterArgs, programID []byte) error {
	if acc.Registered {
		return coreerr.ErrAccountAlreadyRegistered
	}
	return ledger.Register(acc, args.Pk, args.C, args.S, programID)
}

// HandleFund credits amount into acc's pending left component after an
// epoch rollover, per spec.md section 4.8's Fund row.
func HandleFund(acc *ledger.Account, args FundArgs, now, epochLength uint64) error {
	if err := ledger.RequireRegistered(acc); err != nil {
		return err
	}
	if args.Amount > MaxAmount {
		return coreerr.ErrTransferAmountOutOfRange
	}
	ledger.MaybeRollover(acc, now, epochLength)
	ledger.Fund(acc, args.Amount)
	return nil
}

// HandleRollOver performs an unconditional rollover check; it has no
// failure mode of its own (spec.md section 4.8's RollOver row lists no
// Errors), since MaybeRollover is a no-op when the account's last_epoch is
// already current.
func HandleRollOver(acc *ledger.Account, now, epochLength uint64) {
	ledger.MaybeRollover(acc, now, epochLength)
}

// HandleBurn verifies a BurnProof against acc's post-rollover settled
// ciphertext and, on success, debits amount from C_pending.L and marks the
// nonce used for the current epoch.
func HandleBurn(acc *ledger.Account, nonces *ledger.NonceSet, args BurnArgs,
	now, epochLength uint64) error {
	if err := ledger.RequireRegistered(acc); err != nil {
		return err
	}
	if args.Amount > MaxAmount {
		return coreerr.ErrTransferAmountOutOfRange
	}
	ledger.MaybeRollover(acc, now, epochLength)
	epoch := ledger.Epoch(now, epochLength)
	if err := nonces.Check(args.Nonce, epoch); err != nil {
		return err
	}

	if err := sigma.VerifyBurn(epoch, args.Nonce, acc.Pk, acc.CSettledL, acc.CSettledR, args.Amount, args.Proof); err != nil {
		return coreerr.ErrBurnProofVerificationFailed
	}

	acc.CPendingL = acc.CPendingL.Sub(ristretto.MulBase(ristretto.ScalarFromUint64(args.Amount)))
	nonces.MarkUsed(args.Nonce, epoch)
	return nil
}

// HandleTransfer rolls each account in slots over to the current epoch,
// verifies a TransferProof against that anonymity-set snapshot and, on success,
// updates each slot's pending ciphertext by the proof's shared D and
// per-slot C0g delta, credits the fee to beneficiary, and marks the nonce
// used. slots and pubkeys must be in the same order as args.PkVec; proof is
// supplied decoded by the caller, since Decode leaves the Transfer
// sub-record as opaque bytes (see TransferArgs's doc comment in wire.go).
func HandleTransfer(slots []*ledger.Account, beneficiary *ledger.Account, nonces *ledger.NonceSet,
	args TransferArgs, proof sigma.TransferProof, fee, now, epochLength uint64) error {
	m := len(slots)
	if m != len(args.PkVec) || m != len(args.CVec) {
		return coreerr.ErrInvalidProofStructure
	}
	for _, acc := range slots {
		if err := ledger.RequireRegistered(acc); err != nil {
			return err
		}
	}
	if err := ledger.RequireRegistered(beneficiary); err != nil {
		return err
	}

	epoch := ledger.Epoch(now, epochLength)
	if err := nonces.Check(args.Nonce, epoch); err != nil {
		return err
	}

	slotCL := make([]ristretto.Point, m)
	slotCR := make([]ristretto.Point, m)
	for i, acc := range slots {
		ledger.MaybeRollover(acc, now, epochLength)
		slotCL[i] = acc.CSettledL.Add(acc.CPendingL)
		slotCR[i] = acc.CSettledR.Add(acc.CPendingR)
	}

	beneficiaryPk := beneficiary.Pk
	if err := sigma.VerifyTransfer(epoch, args.Nonce, args.PkVec, slotCL, slotCR, args.CVec, args.D, beneficiaryPk, proof); err != nil {
		return coreerr.ErrTransferProofVerificationFailed
	}

	for i, acc := range slots {
		acc.CPendingL = acc.CPendingL.Add(args.CVec[i])
		acc.CPendingR = acc.CPendingR.Add(args.D)
	}
	ledger.MaybeRollover(beneficiary, now, epochLength)
	ledger.Fund(beneficiary, fee)
	nonces.MarkUsed(args.Nonce, epoch)
	return nil
}
