// Package scope implements the Scope (C7): a time-bounded authority
// token binding (wallet, action, context-fingerprint). Minted only from
// an ALLOW decision; immutable once constructed.
package scope

import (
	"fmt"
	"strings"
	"time"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/canonicalize"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcerrors"
)

// Scope is the immutable record from spec §3. Fingerprint() is computed
// over exactly these five fields, canonically serialized.
type Scope struct {
	WalletID           string    `json:"wallet_id"`
	Action             string    `json:"action"`
	ContextFingerprint string    `json:"context_fingerprint"`
	NotBefore          time.Time `json:"not_before"`
	ExpiresAt          time.Time `json:"expires_at"`
}

// FromTTL constructs a scope with not_before = now, expires_at = now +
// ttl. ttl must be strictly positive (spec §4.5).
func FromTTL(walletID, action, contextFingerprint string, ttl time.Duration, now time.Time) (Scope, error) {
	if ttl <= 0 {
		return Scope{}, fmt.Errorf("%w: scope ttl must be positive, got %s", eqcerrors.ErrMalformedInput, ttl)
	}
	return Scope{
		WalletID:           walletID,
		Action:             action,
		ContextFingerprint: contextFingerprint,
		NotBefore:          now,
		ExpiresAt:          now.Add(ttl),
	}, nil
}

// AssertActive fails with SCOPE_NOT_ACTIVE if now is outside
// [NotBefore, ExpiresAt].
func (s Scope) AssertActive(now time.Time) error {
	if now.Before(s.NotBefore) || now.After(s.ExpiresAt) {
		return fmt.Errorf("%w: scope active window is [%s, %s], now is %s",
			eqcerrors.ErrScopeNotActive, s.NotBefore, s.ExpiresAt, now)
	}
	return nil
}

// AssertWallet performs a byte-equal wallet id check.
func (s Scope) AssertWallet(walletID string) error {
	if s.WalletID != walletID {
		return fmt.Errorf("%w: scope bound to wallet %q, got %q", eqcerrors.ErrScopeMismatch, s.WalletID, walletID)
	}
	return nil
}

// AssertAction performs a case-insensitive action check.
func (s Scope) AssertAction(action string) error {
	if !strings.EqualFold(s.Action, action) {
		return fmt.Errorf("%w: scope bound to action %q, got %q", eqcerrors.ErrScopeMismatch, s.Action, action)
	}
	return nil
}

// AssertContext performs a byte-equal context-fingerprint check — this
// is the replay barrier (spec §4.7 step 3).
func (s Scope) AssertContext(contextFingerprint string) error {
	if s.ContextFingerprint != contextFingerprint {
		return fmt.Errorf("%w: scope bound to context %q, got %q", eqcerrors.ErrScopeMismatch, s.ContextFingerprint, contextFingerprint)
	}
	return nil
}

// fingerprintView is the exact five-field shape Fingerprint hashes,
// serialized with RFC 3339 nanosecond timestamps so canonical JSON stays
// stable regardless of in-memory time.Time representation.
type fingerprintView struct {
	WalletID           string `json:"wallet_id"`
	Action             string `json:"action"`
	ContextFingerprint string `json:"context_fingerprint"`
	NotBefore          string `json:"not_before"`
	ExpiresAt          string `json:"expires_at"`
}

// Fingerprint is the SHA-256 hex digest over the scope's five bound
// fields, canonically serialized (spec §3, §4.5).
func (s Scope) Fingerprint() (string, error) {
	view := fingerprintView{
		WalletID:           s.WalletID,
		Action:             s.Action,
		ContextFingerprint: s.ContextFingerprint,
		NotBefore:          s.NotBefore.UTC().Format(time.RFC3339Nano),
		ExpiresAt:          s.ExpiresAt.UTC().Format(time.RFC3339Nano),
	}
	return canonicalize.CanonicalHash(view)
}
