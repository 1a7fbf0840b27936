package basepolicy

import "github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/verdict"

// DefaultRules is the wallet's baseline rule set, beyond the hard
// invariants the engine applies before base policy ever runs (spec
// §4.6 steps 1-3 are engine-owned; these are ordinary, tightenable-by-
// packs-but-never-by-themselves-loosened policy).
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:       "untrusted-device-high-value-send",
			Expression: `tx.action == "send" && !device.trusted && has(tx.amount) && tx.amount > 1000000`,
			Kind:       verdict.STEP_UP,
			Code:       verdict.ReasonLargeAmount,
			Message:    "high-value send from an untrusted device requires confirmation",
		},
		{
			Name:       "untrusted-network-node",
			Expression: `ctx.network.node_trusted == false && ctx.network.network == "mainnet"`,
			Kind:       verdict.STEP_UP,
			Code:       verdict.ReasonPolicyRuleMatch,
			Message:    "mainnet action routed through an untrusted node requires confirmation",
		},
		{
			Name:       "missing-pin-and-biometric",
			Expression: `ctx.user.pin_set == false && ctx.user.biometric_available == false`,
			Kind:       verdict.DENY,
			Code:       verdict.ReasonPolicyRuleMatch,
			Message:    "no local authentication factor configured for this user",
		},
	}
}
