package ledger

import "github.com/veilpay/veil-core/ristretto"

// Epoch computes floor(now / epochLength), the wall-clock window index used
// to decide when pending deltas fold into the settled balance.
func Epoch(now, epochLength uint64) uint64 {
	if epochLength == 0 {
		return 0
	}
	return now / epochLength
}

// MaybeRollover performs "rollover-then-apply": if the account's last_epoch
// is stale relative to now, it folds C_pending into C_settled, zeroes
// C_pending, and advances last_epoch, atomically with respect to the
// caller (no partial state is ever observed between the two steps since
// both happen before this function returns). Reports whether a rollover
// occurred.
func MaybeRollover(acc *Account, now, epochLength uint64) bool {
	current := Epoch(now, epochLength)
	if acc.LastEpoch >= current {
		return false
	}
	acc.CSettledL = acc.CSettledL.Add(acc.CPendingL)
	acc.CSettledR = acc.CSettledR.Add(acc.CPendingR)
	acc.CPendingL = ristretto.Identity()
	acc.CPendingR = ristretto.Identity()
	acc.LastEpoch = current
	return true
}
