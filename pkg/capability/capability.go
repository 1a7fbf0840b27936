// Package capability implements the Capability (C8): an unforgeable,
// single-use token bound to a scope fingerprint, with an optional TTL.
package capability

import (
	"fmt"
	"time"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/crypto"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcerrors"
)

// Capability is the record from spec §3. A zero-value TTL (nil) means
// the capability never expires at this layer — scope expiry is still
// enforced independently by the guarded executor.
type Capability struct {
	Token             string
	ScopeFingerprint  string
	IssuedAt          time.Time
	TTL               *time.Duration
}

// Issue mints a fresh capability bound to scopeFingerprint with a
// ≥256-bit CSPRNG token (spec §4.5). ttl is optional; pass nil for no
// expiry at this layer.
func Issue(scopeFingerprint string, ttl *time.Duration, now time.Time) (Capability, error) {
	if scopeFingerprint == "" {
		return Capability{}, fmt.Errorf("%w: cannot issue capability without a scope fingerprint", eqcerrors.ErrMalformedInput)
	}
	token, err := crypto.NewToken()
	if err != nil {
		return Capability{}, fmt.Errorf("capability: token generation failed: %w", err)
	}
	return Capability{
		Token:            token,
		ScopeFingerprint: scopeFingerprint,
		IssuedAt:         now,
		TTL:              ttl,
	}, nil
}

// isExpired reports whether the capability has outlived its TTL as of now.
func (c Capability) isExpired(now time.Time) bool {
	if c.TTL == nil {
		return false
	}
	return now.After(c.IssuedAt.Add(*c.TTL))
}

// AssertValid fails with CAPABILITY_INVALID on a missing token, missing
// scope fingerprint, or expiry (spec §4.5).
func (c Capability) AssertValid(now time.Time) error {
	if c.Token == "" {
		return fmt.Errorf("%w: missing token", eqcerrors.ErrCapabilityInvalid)
	}
	if c.ScopeFingerprint == "" {
		return fmt.Errorf("%w: missing scope fingerprint", eqcerrors.ErrCapabilityInvalid)
	}
	if c.isExpired(now) {
		return fmt.Errorf("%w: capability expired at %s", eqcerrors.ErrCapabilityInvalid, c.IssuedAt.Add(*c.TTL))
	}
	return nil
}
