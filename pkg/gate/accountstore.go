package gate

import "sync"

// WatchOnlyChecker is the account store's external interface (spec §6):
// the core never writes to it, only reads watch-only status.
type WatchOnlyChecker interface {
	IsWatchOnly(walletID, accountID string) (bool, error)
}

// accountKey identifies an account within a wallet.
type accountKey struct {
	WalletID  string
	AccountID string
}

// InMemoryAccountStore is a reference WatchOnlyChecker implementation
// grounded in the original wallet/account_store.py: it tracks only the
// watch_only flag per (wallet, account), defaulting unknown accounts to
// signing-capable (watch_only=false). It deliberately does not
// implement key derivation, address generation, or persistence — those
// remain out of scope (spec §1) — and exists for tests and local/dev
// use where no real account store is wired.
type InMemoryAccountStore struct {
	mu         sync.RWMutex
	watchOnly  map[accountKey]bool
}

// NewInMemoryAccountStore returns an empty store; every account is
// signing-capable until MarkWatchOnly is called.
func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{watchOnly: make(map[accountKey]bool)}
}

// MarkWatchOnly flags (walletID, accountID) as watch-only.
func (s *InMemoryAccountStore) MarkWatchOnly(walletID, accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchOnly[accountKey{walletID, accountID}] = true
}

// IsWatchOnly reports false for any account it has never seen, matching
// account_store.py's is_watch_only: "loads state, returns False if not
// found, else state.watch_only".
func (s *InMemoryAccountStore) IsWatchOnly(walletID, accountID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watchOnly[accountKey{walletID, accountID}], nil
}
