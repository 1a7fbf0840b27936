// Package eqcerrors defines the stable error-kind tags shared across the
// EQC authority pipeline (spec §7): a small set of wrapped, comparable
// sentinel errors rather than bespoke per-package error types.
package eqcerrors

import (
	"errors"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/verdict"
)

// Kind is a stable error tag. Kinds are never type names — components
// wrap one of these sentinels with context via fmt.Errorf("%w: ...").
type Kind string

const (
	KindMalformedInput       Kind = "MALFORMED_INPUT"
	KindWatchOnlyForbidden   Kind = "WATCH_ONLY_FORBIDDEN"
	KindEQCBlocked           Kind = "EQC_BLOCKED"
	KindShieldBlocked        Kind = "SHIELD_BLOCKED"
	KindScopeNotActive       Kind = "SCOPE_NOT_ACTIVE"
	KindScopeMismatch        Kind = "SCOPE_MISMATCH"
	KindCapabilityInvalid    Kind = "CAPABILITY_INVALID"
	KindNonceReplay          Kind = "NONCE_REPLAY"
	KindSessionExpired       Kind = "SESSION_EXPIRED"
	KindPackResolutionFailed Kind = "PACK_RESOLUTION_FAILED"
	KindEngineInvariant      Kind = "ENGINE_INVARIANT"
)

var (
	ErrMalformedInput       = errors.New(string(KindMalformedInput))
	ErrWatchOnlyForbidden   = errors.New(string(KindWatchOnlyForbidden))
	ErrEQCBlocked           = errors.New(string(KindEQCBlocked))
	ErrShieldBlocked        = errors.New(string(KindShieldBlocked))
	ErrScopeNotActive       = errors.New(string(KindScopeNotActive))
	ErrScopeMismatch        = errors.New(string(KindScopeMismatch))
	ErrCapabilityInvalid    = errors.New(string(KindCapabilityInvalid))
	ErrNonceReplay          = errors.New(string(KindNonceReplay))
	ErrSessionExpired       = errors.New(string(KindSessionExpired))
	ErrPackResolutionFailed = errors.New(string(KindPackResolutionFailed))
	ErrEngineInvariant      = errors.New(string(KindEngineInvariant))
)

// sentinelByKind backs KindOf's reverse lookup.
var sentinelByKind = map[Kind]error{
	KindMalformedInput:       ErrMalformedInput,
	KindWatchOnlyForbidden:   ErrWatchOnlyForbidden,
	KindEQCBlocked:           ErrEQCBlocked,
	KindShieldBlocked:        ErrShieldBlocked,
	KindScopeNotActive:       ErrScopeNotActive,
	KindScopeMismatch:        ErrScopeMismatch,
	KindCapabilityInvalid:    ErrCapabilityInvalid,
	KindNonceReplay:          ErrNonceReplay,
	KindSessionExpired:       ErrSessionExpired,
	KindPackResolutionFailed: ErrPackResolutionFailed,
	KindEngineInvariant:      ErrEngineInvariant,
}

// KindOf returns the Kind whose sentinel err matches under errors.Is.
// If err wraps more than one sentinel, which Kind is returned is not
// defined. ok is false if neither err nor anything it wraps is one of
// the sentinels above.
func KindOf(err error) (kind Kind, ok bool) {
	for k, sentinel := range sentinelByKind {
		if errors.Is(err, sentinel) {
			return k, true
		}
	}
	return "", false
}

// ExitCode maps a Kind to the CLI exit code from spec §6. EQC_BLOCKED
// splits into exit 10 (denied) or 11 (step-up required) depending on the
// verdict the gate captured; callers holding that verdict should use
// ExitCodeForEQCBlocked instead.
func (k Kind) ExitCode() int {
	switch k {
	case KindEQCBlocked:
		return 10
	case KindShieldBlocked:
		return 12
	case KindWatchOnlyForbidden:
		return 13
	case KindScopeNotActive, KindScopeMismatch, KindCapabilityInvalid:
		return 14
	case KindNonceReplay, KindSessionExpired:
		return 15
	case KindMalformedInput:
		return 1
	default:
		return 1
	}
}

// ExitCodeForEQCBlocked distinguishes exit 10 (EQC denied) from exit 11
// (EQC step-up required) for an EQC_BLOCKED error, using the verdict kind
// the gate observed.
func ExitCodeForEQCBlocked(kind verdict.Kind) int {
	if kind == verdict.STEP_UP {
		return 11
	}
	return 10
}
