// Package session implements the Session (C9): the sole shared mutable
// resource in the core — a one-time nonce set keyed by
// "{scope_fingerprint}:{nonce}", consumed under a linearizability
// guarantee (spec §5, §4.5).
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcerrors"
)

// NonceStore is the explicit interface backing Session.used_keys.
// TryInsert atomically inserts key if absent; it reports whether the
// insertion happened (false means the key was already present — a
// replay). Implementations must be safe under concurrent callers
// presenting the same key (spec §5's linearizability requirement).
type NonceStore interface {
	TryInsert(key string) (inserted bool, err error)
}

// Session holds one-time nonces for a wallet over a bounded lifetime.
// WalletID is optional — some flows scope a session to no particular
// wallet.
type Session struct {
	ID        string
	WalletID  string
	CreatedAt time.Time
	ExpiresAt time.Time

	store NonceStore
}

// New creates a session with a fresh random ID (spec: "fresh random
// UUID-like identifier"), active for ttl starting at now. A nil store
// defaults to an in-process, mutex-guarded set.
func New(walletID string, ttl time.Duration, now time.Time, store NonceStore) Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return Session{
		ID:        uuid.NewString(),
		WalletID:  walletID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		store:     store,
	}
}

// IssueNonce returns a fresh random nonce. Binding to a scope
// fingerprint is enforced at consume time, not here (spec §4.5).
func (s Session) IssueNonce() string {
	return uuid.NewString()
}

// IsActive reports whether now falls within the session's lifetime.
func (s Session) IsActive(now time.Time) bool {
	return !now.Before(s.CreatedAt) && !now.After(s.ExpiresAt)
}

// AssertActive fails with SESSION_EXPIRED if the session has expired —
// kept distinct from NONCE_REPLAY so a caller can tell "this nonce was
// already used" apart from "this session's window has lapsed entirely".
func (s Session) AssertActive(now time.Time) error {
	if !s.IsActive(now) {
		return fmt.Errorf("%w: session %s active window is [%s, %s], now is %s",
			eqcerrors.ErrSessionExpired, s.ID, s.CreatedAt, s.ExpiresAt, now)
	}
	return nil
}

// nonceKey builds the "{scope_fingerprint}:{nonce}" key spec §3 and §4.5
// mandate. An empty scopeFingerprint falls back to the bare nonce.
func nonceKey(scopeFingerprint, nonce string) string {
	if scopeFingerprint == "" {
		return nonce
	}
	return scopeFingerprint + ":" + nonce
}

// ConsumeNonce asserts the session is active, then attempts to insert
// the nonce's key. A second call with the same (scopeFingerprint,
// nonce) fails with NONCE_REPLAY — exactly one of any concurrent set of
// callers presenting the same key succeeds (spec §5, §8 "Scope linearity").
func (s Session) ConsumeNonce(nonce, scopeFingerprint string, now time.Time) error {
	if err := s.AssertActive(now); err != nil {
		return err
	}
	key := nonceKey(scopeFingerprint, nonce)
	inserted, err := s.store.TryInsert(key)
	if err != nil {
		return fmt.Errorf("session: nonce store failure: %w", err)
	}
	if !inserted {
		return fmt.Errorf("%w: nonce %q already consumed for scope %q", eqcerrors.ErrNonceReplay, nonce, scopeFingerprint)
	}
	return nil
}
