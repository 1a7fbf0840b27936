// Package gate implements the signing gate (C11): the public entry
// point orchestrating watch-only veto, EQC, Shield, scope binding,
// capability issuance, and guarded execution (spec §4.8).
package gate

import (
	"fmt"
	"time"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/capability"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqc"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcerrors"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/guardedexec"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/scope"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/session"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/verdict"
)

// DefaultScopeTTL is the default scope lifetime when Options.TTL is zero
// (spec §4.8 step 5: "TTL configurable, default 120s").
const DefaultScopeTTL = 120 * time.Second

// Options configures a single ExecuteSigningIntent call.
type Options struct {
	// TTL is the scope lifetime. Zero means DefaultScopeTTL.
	TTL time.Duration
	// UseWSQK toggles the scope/capability path. false makes the
	// executor run directly after Shield (step 4) — this toggle must
	// never skip steps 1-4 (spec §4.8).
	UseWSQK bool
	// Session, if non-nil, backs one-time nonce consumption. Nonce is
	// issued automatically from Session when empty.
	Session *session.Session
	Nonce   string
}

// resolvedTTL returns o.TTL or DefaultScopeTTL.
func (o Options) resolvedTTL() time.Duration {
	if o.TTL <= 0 {
		return DefaultScopeTTL
	}
	return o.TTL
}

// ExecuteSigningIntent is the gate's public entry point (spec §4.8,
// §6 "execute_signing_intent").
func ExecuteSigningIntent(
	intent SigningIntent,
	executor guardedexec.Executor,
	engine *eqc.Engine,
	shield ShieldEvaluator,
	accounts WatchOnlyChecker,
	opts Options,
	now time.Time,
) (guardedexec.Result, error) {
	if shield == nil {
		shield = DefaultShieldEvaluator{}
	}

	// Basic shape validation (adapted from intent_runtime.py), surfaced
	// as a malformed-input block before any subsystem is touched.
	if err := intent.validateBasic(); err != nil {
		return guardedexec.Result{}, &ExecutionBlocked{Kind: eqcerrors.KindMalformedInput, Cause: err}
	}

	// Step 1: watch-only veto.
	if accounts != nil {
		watchOnly, err := accounts.IsWatchOnly(intent.WalletID, intent.AccountID)
		if err != nil {
			return guardedexec.Result{}, &ExecutionBlocked{Kind: eqcerrors.KindMalformedInput, Cause: err}
		}
		if watchOnly {
			return guardedexec.Result{}, &ExecutionBlocked{
				Kind:  eqcerrors.KindWatchOnlyForbidden,
				Cause: fmt.Errorf("%w: account %s/%s is watch-only", eqcerrors.ErrWatchOnlyForbidden, intent.WalletID, intent.AccountID),
			}
		}
	}

	// Step 2: build context, attaching intent_hash to extra.
	ctx, err := intent.buildContext(now.Unix())
	if err != nil {
		return guardedexec.Result{}, &ExecutionBlocked{Kind: eqcerrors.KindMalformedInput, Cause: err}
	}

	// Step 3: EQC decision.
	decision, err := engine.Decide(ctx)
	if err != nil {
		return guardedexec.Result{}, &ExecutionBlocked{Kind: eqcerrors.KindMalformedInput, Cause: err}
	}
	if decision.Verdict.Kind != verdict.ALLOW {
		v := decision.Verdict
		return guardedexec.Result{}, &ExecutionBlocked{
			Kind:    eqcerrors.KindEQCBlocked,
			Verdict: &v,
			Cause:   fmt.Errorf("%w: verdict is %s", eqcerrors.ErrEQCBlocked, decision.Verdict.Kind),
		}
	}

	// Step 4: external Shield evaluation.
	shieldDecision, err := shield.Evaluate(intent)
	if err != nil {
		return guardedexec.Result{}, &ExecutionBlocked{Kind: eqcerrors.KindMalformedInput, Cause: err}
	}
	if shieldDecision.Blocked {
		return guardedexec.Result{}, &ExecutionBlocked{
			Kind:  eqcerrors.KindShieldBlocked,
			Cause: fmt.Errorf("%w: %s", eqcerrors.ErrShieldBlocked, shieldDecision.Reason),
		}
	}

	// Escape hatch: run the executor directly, but only after steps 1-4
	// have all passed (spec §4.8: "must never skip steps 1-4").
	if !opts.UseWSQK {
		value, err := executor(ctx)
		if err != nil {
			return guardedexec.Result{}, err
		}
		return guardedexec.Result{Value: value, ContextFingerprint: decision.ContextFingerprint}, nil
	}

	// Step 5: bind scope, issue capability.
	boundScope, err := scope.FromTTL(intent.WalletID, intent.Action, decision.ContextFingerprint, opts.resolvedTTL(), now)
	if err != nil {
		return guardedexec.Result{}, &ExecutionBlocked{Kind: eqcerrors.KindMalformedInput, Cause: err}
	}
	scopeFingerprint, err := boundScope.Fingerprint()
	if err != nil {
		return guardedexec.Result{}, err
	}
	cap, err := capability.Issue(scopeFingerprint, nil, now)
	if err != nil {
		return guardedexec.Result{}, err
	}

	nonce := opts.Nonce
	if nonce == "" && opts.Session != nil {
		nonce = opts.Session.IssueNonce()
	}

	// Step 6: guarded execution.
	result, err := guardedexec.Execute(boundScope, ctx, intent.WalletID, intent.Action, executor, cap, opts.Session, nonce, now)
	if err != nil {
		kind, ok := eqcerrors.KindOf(err)
		if !ok {
			kind = eqcerrors.KindMalformedInput
		}
		return guardedexec.Result{}, &ExecutionBlocked{Kind: kind, Cause: err}
	}
	return result, nil
}
