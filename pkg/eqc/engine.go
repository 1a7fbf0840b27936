// Package eqc implements the EQC engine (C6): the decision crown that
// enforces hard invariants, orchestrates classifiers, base policy, and
// policy packs, and merges their verdicts under a fixed, non-
// configurable order of operations (spec §4.6).
package eqc

import (
	"strings"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/basepolicy"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcontext"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/packs"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/verdict"
)

// Decision is the engine's output: the fingerprint of the context that
// was decided over, the merged verdict, and the signal bundle that
// explains how the verdict was reached (spec §3).
type Decision struct {
	ContextFingerprint string          `json:"context_fingerprint"`
	Verdict            verdict.Verdict `json:"verdict"`
	Signals            map[string]any  `json:"signals"`
}

// Engine is the EQC engine. Construct with New; Decide is the sole
// entry point and is pure given the engine's current enabled-pack list.
type Engine struct {
	base     basepolicy.Evaluator
	registry *packs.Registry
	packs    *enabledPacks
}

// New builds an engine from a base-policy evaluator, a pack registry,
// and the initial set of enabled pack references (spec §4.6's
// "Enabling packs: may be supplied at construction").
func New(base basepolicy.Evaluator, registry *packs.Registry, initialPacks []string) *Engine {
	return &Engine{
		base:     base,
		registry: registry,
		packs:    newEnabledPacks(initialPacks),
	}
}

// EnablePack idempotently adds ref to the enabled set, preserving the
// order packs were first enabled in.
func (e *Engine) EnablePack(ref string) {
	e.packs.enable(ref)
}

// DisablePack idempotently removes ref from the enabled set.
func (e *Engine) DisablePack(ref string) {
	e.packs.disable(ref)
}

// EnabledPacks returns a snapshot of the currently enabled references.
func (e *Engine) EnabledPacks() []string {
	return e.packs.list()
}

const (
	invariantHostileRuntime = "HOSTILE_RUNTIME"
	invariantDDStepUp       = "DD_STEP_UP"
)

// Decide reduces ctx to a Decision. Order of operations is fixed (spec
// §4.6): hard invariants, then classifiers, then base policy, then
// packs, then merge.
func (e *Engine) Decide(ctx eqcontext.Snapshot) (Decision, error) {
	fingerprint, err := ctx.Fingerprint()
	if err != nil {
		return Decision{}, err
	}

	// Step 1: hard invariants. Independent of any policy; short-circuit
	// immediately when triggered, with no further evaluation.
	deviceType := strings.ToLower(strings.TrimSpace(ctx.Device.DeviceType))
	action := strings.ToLower(strings.TrimSpace(ctx.Action.Action))
	asset := strings.ToLower(strings.TrimSpace(ctx.Action.Asset))

	if deviceType == "browser" {
		return Decision{
			ContextFingerprint: fingerprint,
			Verdict:            verdict.Deny(verdict.ReasonBrowserContextBlocked, "signing from a browser runtime is never permitted", nil),
			Signals:            map[string]any{"invariant": invariantHostileRuntime, "device_type": deviceType},
		}, nil
	}
	if deviceType == "extension" {
		return Decision{
			ContextFingerprint: fingerprint,
			Verdict:            verdict.Deny(verdict.ReasonExtensionContextBlocked, "signing from a browser extension runtime is never permitted", nil),
			Signals:            map[string]any{"invariant": invariantHostileRuntime, "device_type": deviceType},
		}, nil
	}
	if (action == "mint" || action == "redeem") && (asset == "digidollar" || asset == "dd") {
		return Decision{
			ContextFingerprint: fingerprint,
			Verdict: verdict.RequireStepUp(
				verdict.ReasonMintRedeemRequiresStepUp,
				"minting or redeeming a pegged asset requires confirmation",
				nil,
				[]string{"confirm_user_intent"},
			),
			Signals: map[string]any{"invariant": invariantDDStepUp, "action": action, "asset": asset},
		}, nil
	}

	// Step 2: classifiers.
	device := eqcontext.ClassifyDevice(ctx)
	tx := eqcontext.ClassifyTx(ctx)

	// Step 3: base policy.
	baseVerdict, err := e.base.Evaluate(ctx, device, tx)
	if err != nil {
		return Decision{}, err
	}

	// Step 4: policy packs, same context and signals.
	enabled := e.packs.list()
	var packVerdicts []verdict.Verdict
	if e.registry != nil && len(enabled) > 0 {
		packVerdicts, err = e.registry.Evaluate(ctx, enabled, device, tx)
		if err != nil {
			return Decision{}, err
		}
	}

	// Step 5: merge.
	all := append([]verdict.Verdict{baseVerdict}, packVerdicts...)
	merged := verdict.Merge(all...)

	packKinds := make([]string, 0, len(packVerdicts))
	for _, v := range packVerdicts {
		packKinds = append(packKinds, v.Kind.String())
	}

	return Decision{
		ContextFingerprint: fingerprint,
		Verdict:            merged,
		Signals: map[string]any{
			"device":       device,
			"tx":           tx,
			"policy_packs": packKinds,
		},
	}, nil
}
