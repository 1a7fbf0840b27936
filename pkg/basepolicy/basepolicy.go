// Package basepolicy implements the base policy (C4): a deterministic,
// side-effect-free reduction of (context, device signals, tx signals) to
// a Verdict, expressed as a small set of compiled CEL rules rather than
// hand-written Go conditionals.
package basepolicy

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcontext"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/verdict"
)

// Evaluator is the interface the EQC engine depends on for base policy
// (spec §9: explicit interfaces at the engine/policy seam, no runtime
// reflection). Policy satisfies it; tests may supply a stub.
type Evaluator interface {
	Evaluate(ctx eqcontext.Snapshot, device eqcontext.DeviceSignals, tx eqcontext.TxSignals) (verdict.Verdict, error)
}

// Rule is a single named CEL expression evaluated against
// {ctx, device, tx}. The expression must evaluate to bool; a true result
// makes Evaluate build a Verdict of Kind carrying Code and Message.
type Rule struct {
	Name       string
	Expression string
	Kind       verdict.Kind
	Code       verdict.ReasonCode
	Message    string
}

// Policy evaluates an ordered list of Rules and folds the results into a
// single base Verdict via verdict.Merge. Rules that don't match
// contribute nothing; a policy with no matching rule defaults to ALLOW.
type Policy struct {
	env   *cel.Env
	rules []Rule

	mu    sync.RWMutex
	cache map[string]cel.Program
}

// New compiles an environment exposing "ctx", "device", and "tx" as
// dynamic maps, matching the single fixed evaluate(ctx, device_signals,
// tx_signals) signature spec §4.3/§9 mandates (no call-signature
// adaptation).
func New(rules []Rule) (*Policy, error) {
	env, err := cel.NewEnv(
		cel.Variable("ctx", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("device", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("tx", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("basepolicy: cel env: %w", err)
	}

	p := &Policy{env: env, rules: rules, cache: make(map[string]cel.Program)}
	for _, r := range rules {
		if _, err := p.program(r.Expression); err != nil {
			return nil, fmt.Errorf("basepolicy: rule %q: %w", r.Name, err)
		}
	}
	return p, nil
}

func (p *Policy) program(expr string) (cel.Program, error) {
	p.mu.RLock()
	prg, ok := p.cache[expr]
	p.mu.RUnlock()
	if ok {
		return prg, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if prg, ok = p.cache[expr]; ok {
		return prg, nil
	}

	ast, issues := p.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := p.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	p.cache[expr] = prg
	return prg, nil
}

// Evaluate runs every rule in order and merges matches under the
// tightening-only rule. Deterministic and side-effect-free (§4.3).
func (p *Policy) Evaluate(ctx eqcontext.Snapshot, device eqcontext.DeviceSignals, tx eqcontext.TxSignals) (verdict.Verdict, error) {
	activation := map[string]any{
		"ctx":    toMap(ctx),
		"device": toMap(device),
		"tx":     toMap(tx),
	}

	var matched []verdict.Verdict
	for _, r := range p.rules {
		prg, err := p.program(r.Expression)
		if err != nil {
			return verdict.Verdict{}, fmt.Errorf("basepolicy: rule %q unavailable: %w", r.Name, err)
		}
		out, _, err := prg.Eval(activation)
		if err != nil {
			// A CEL runtime error (e.g. a missing optional field selected
			// without has()) means this rule's premises don't hold for
			// this input, not that base policy itself is broken — treat
			// it as a non-match rather than failing the engine, the same
			// way a rule author would guard with has() if they'd known.
			continue
		}
		hit, ok := out.Value().(bool)
		if !ok {
			return verdict.Verdict{}, fmt.Errorf("basepolicy: rule %q did not return bool", r.Name)
		}
		if !hit {
			continue
		}
		switch r.Kind {
		case verdict.DENY:
			matched = append(matched, verdict.Deny(r.Code, r.Message, map[string]any{"rule": r.Name}))
		case verdict.STEP_UP:
			matched = append(matched, verdict.RequireStepUp(r.Code, r.Message, map[string]any{"rule": r.Name}, []string{"confirm_user_intent"}))
		default:
			matched = append(matched, verdict.Allow(r.Message))
		}
	}

	if len(matched) == 0 {
		return verdict.Allow("no base policy rule matched"), nil
	}
	return verdict.Merge(matched...), nil
}

// toMap converts a struct to a generic map via JSON round-trip, so it
// can be exposed as a plain "input" map to CEL activations.
func toMap(v any) map[string]any {
	out, err := structToMap(v)
	if err != nil {
		return map[string]any{}
	}
	return out
}
