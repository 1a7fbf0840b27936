// Package packs implements the policy pack registry (C5): dynamically
// referenced, additive evaluators that may only tighten the base
// verdict (spec §4.4).
package packs

import (
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcontext"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/verdict"
)

// Pack is the explicit interface a policy pack implements (spec §9:
// drop runtime reflection, bind engine and policy through an interface
// registered at a factory seam). Evaluate returns (nil, nil) when the
// pack has no opinion about ctx — a "null" verdict in spec terms, which
// the registry skips.
type Pack interface {
	Evaluate(ctx eqcontext.Snapshot, device eqcontext.DeviceSignals, tx eqcontext.TxSignals) (*verdict.Verdict, error)
}

// Builder zero-arg-constructs a Pack, matching the "class with a
// zero-argument constructor" contract of spec §4.4/§6 for the
// module.path:Attribute reference syntax.
type Builder func() (Pack, error)

// Version is the semver string a builder declares for itself, used to
// satisfy an optional "@constraint" suffix on a pack reference.
type Version string
