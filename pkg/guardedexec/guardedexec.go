// Package guardedexec implements the guarded executor (C10): the final
// checkpoint before a signing executor ever runs. Every check must pass,
// in order, before the executor is invoked exactly once (spec §4.7).
package guardedexec

import (
	"fmt"
	"time"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/capability"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcerrors"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcontext"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/scope"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/session"
)

// Executor performs the actual sensitive action (e.g. signing) once all
// checks pass. The guarded executor treats it as opaque: no internal
// lock is held across this call (spec §5).
type Executor func(ctx eqcontext.Snapshot) (any, error)

// Result wraps an executor's return value with the context fingerprint
// it was produced under.
type Result struct {
	Value              any
	ContextFingerprint string
}

// Clock abstracts "now" so executions can be tested deterministically.
type Clock func() time.Time

// Execute runs the sequential check pipeline from spec §4.7. Any
// failure aborts before the executor runs:
//
//  1. scope.AssertActive(now)
//  2. scope.AssertWallet(walletID); scope.AssertAction(action)
//  3. scope.AssertContext(context.Fingerprint()) — the replay barrier
//  4. capability.AssertValid(now); capability.ScopeFingerprint == scope.Fingerprint()
//  5. if sess != nil: sess.AssertActive(now); sess.ConsumeNonce(nonce, scope.Fingerprint(), now)
//  6. executor(context), exactly once
func Execute(
	s scope.Scope,
	ctx eqcontext.Snapshot,
	walletID, action string,
	executor Executor,
	cap capability.Capability,
	sess *session.Session,
	nonce string,
	now time.Time,
) (Result, error) {
	if err := s.AssertActive(now); err != nil {
		return Result{}, err
	}
	if err := s.AssertWallet(walletID); err != nil {
		return Result{}, err
	}
	if err := s.AssertAction(action); err != nil {
		return Result{}, err
	}

	contextFingerprint, err := ctx.Fingerprint()
	if err != nil {
		return Result{}, fmt.Errorf("%w: cannot fingerprint context: %v", eqcerrors.ErrMalformedInput, err)
	}
	if err := s.AssertContext(contextFingerprint); err != nil {
		return Result{}, err
	}

	if err := cap.AssertValid(now); err != nil {
		return Result{}, err
	}
	scopeFingerprint, err := s.Fingerprint()
	if err != nil {
		return Result{}, err
	}
	if cap.ScopeFingerprint != scopeFingerprint {
		return Result{}, fmt.Errorf("%w: capability bound to a different scope fingerprint", eqcerrors.ErrCapabilityInvalid)
	}

	if sess != nil {
		if err := sess.AssertActive(now); err != nil {
			return Result{}, err
		}
		if err := sess.ConsumeNonce(nonce, scopeFingerprint, now); err != nil {
			return Result{}, err
		}
	}

	value, err := executor(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: value, ContextFingerprint: contextFingerprint}, nil
}
