package instructions

import "github.com/veilpay/veil-core/ledger"

// MemStore is an in-memory Ledger, used by tests and by the CLI's
// single-shot verification mode. A host running this core against
// persistent storage implements the same Ledger interface against its own
// backend.
type MemStore struct {
	accounts map[[32]byte]*ledger.Account
	nonces   *ledger.NonceSet
	state    ledger.GlobalState
}

// NewMemStore returns an empty store with an uninitialised GlobalState.
func NewMemStore() *MemStore {
	return &MemStore{
		accounts: make(map[[32]byte]*ledger.Account),
		nonces:   ledger.NewNonceSet(),
	}
}

func (m *MemStore) Account(pk [32]byte) (*ledger.Account, bool) {
	acc, ok := m.accounts[pk]
	if !ok {
		acc = &ledger.Account{}
		m.accounts[pk] = acc
	}
	return acc, acc.Registered
}

func (m *MemStore) Nonces() *ledger.NonceSet { return m.nonces }

func (m *MemStore) State() *ledger.GlobalState { return &m.state }
