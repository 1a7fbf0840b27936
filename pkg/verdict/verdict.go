// Package verdict defines the decision sum type produced by EQC (C1):
// ALLOW, STEP_UP, or DENY, together with structured reasons and an
// optional step-up payload.
//
// Verdicts are constructed once and never mutated afterward — a pack
// that wants to add a step-up requirement builds a new Verdict rather
// than reaching into an existing one (see spec §9 "Frozen-record
// mutation hack").
package verdict

import (
	"encoding/json"
	"fmt"
)

// Kind is the tagged verdict outcome.
type Kind int

const (
	// ALLOW permits the action to proceed unconditionally.
	ALLOW Kind = iota
	// STEP_UP permits the action only after the caller satisfies
	// additional requirements (e.g. re-confirming user intent).
	STEP_UP
	// DENY blocks the action outright.
	DENY
)

// String renders the kind the way it appears in reason codes and logs.
func (k Kind) String() string {
	switch k {
	case ALLOW:
		return "ALLOW"
	case STEP_UP:
		return "STEP_UP"
	case DENY:
		return "DENY"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(k))
	}
}

// MarshalJSON renders Kind as its name rather than its underlying int,
// so API/CLI consumers see "ALLOW"/"STEP_UP"/"DENY" on the wire.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON parses a Kind from its name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "ALLOW":
		*k = ALLOW
	case "STEP_UP":
		*k = STEP_UP
	case "DENY":
		*k = DENY
	default:
		return fmt.Errorf("verdict: unknown kind %q", s)
	}
	return nil
}

// severity orders kinds for tightening-only merges: DENY > STEP_UP > ALLOW.
func (k Kind) severity() int {
	switch k {
	case DENY:
		return 2
	case STEP_UP:
		return 1
	default:
		return 0
	}
}

// Stronger reports whether k is strictly more restrictive than other.
func (k Kind) Stronger(other Kind) bool {
	return k.severity() > other.severity()
}

// ReasonCode enumerates the stable reason tags a Verdict may carry.
// New codes may be added by base policy or packs; the set below is the
// minimum spec.md §3 requires.
type ReasonCode string

const (
	ReasonBrowserContextBlocked    ReasonCode = "BROWSER_CONTEXT_BLOCKED"
	ReasonExtensionContextBlocked  ReasonCode = "EXTENSION_CONTEXT_BLOCKED"
	ReasonMintRedeemRequiresStepUp ReasonCode = "MINT_REDEEM_REQUIRES_STEP_UP"
	ReasonLargeAmount              ReasonCode = "LARGE_AMOUNT"
	ReasonPolicyRuleMatch          ReasonCode = "POLICY_RULE_MATCH"
	ReasonEngineInvariant          ReasonCode = "ENGINE_INVARIANT"
)

// Reason explains why a Verdict carries the kind it does.
type Reason struct {
	Code    ReasonCode     `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// StepUp is the payload of a STEP_UP verdict: what the caller must still
// satisfy before the action is allowed to proceed.
type StepUp struct {
	Requirements []string `json:"requirements"`
	Message      string   `json:"message,omitempty"`
}

// DefaultStepUp is used when a winning STEP_UP verdict carries no step-up
// payload of its own (spec §4.6 step 5).
func DefaultStepUp() *StepUp {
	return &StepUp{Requirements: []string{"confirm_user_intent"}}
}

// Verdict is the immutable result of an EQC (or pack) evaluation.
type Verdict struct {
	Kind    Kind     `json:"kind"`
	Reasons []Reason `json:"reasons"`
	StepUp  *StepUp  `json:"step_up,omitempty"`
}

// Validate enforces the data-model invariants from spec §3:
// a non-empty Reasons list, and StepUp present iff Kind == STEP_UP.
func (v Verdict) Validate() error {
	if len(v.Reasons) == 0 {
		return fmt.Errorf("verdict: reasons must not be empty")
	}
	if v.Kind == STEP_UP && v.StepUp == nil {
		return fmt.Errorf("verdict: STEP_UP verdict missing step_up payload")
	}
	if v.Kind != STEP_UP && v.StepUp != nil {
		return fmt.Errorf("verdict: step_up payload present on non-STEP_UP verdict")
	}
	return nil
}

// Allow constructs an ALLOW verdict with the given reason.
func Allow(message string) Verdict {
	return Verdict{
		Kind:    ALLOW,
		Reasons: []Reason{{Code: ReasonPolicyRuleMatch, Message: message}},
	}
}

// Deny constructs a DENY verdict with a single reason.
func Deny(code ReasonCode, message string, details map[string]any) Verdict {
	return Verdict{
		Kind:    DENY,
		Reasons: []Reason{{Code: code, Message: message, Details: details}},
	}
}

// RequireStepUp constructs a STEP_UP verdict with the given requirements.
func RequireStepUp(code ReasonCode, message string, details map[string]any, requirements []string) Verdict {
	return Verdict{
		Kind:    STEP_UP,
		Reasons: []Reason{{Code: code, Message: message, Details: details}},
		StepUp:  &StepUp{Requirements: requirements},
	}
}

// Merge combines verdicts under the tightening-only rule (spec §4.4, §4.6):
// DENY > STEP_UP > ALLOW. Reasons from all verdicts of the winning kind are
// concatenated in encounter order. When STEP_UP wins, the first non-nil
// StepUp payload among the winners is carried forward; if none exists, a
// default is supplied.
func Merge(verdicts ...Verdict) Verdict {
	if len(verdicts) == 0 {
		return Deny(ReasonEngineInvariant, "no verdicts produced", nil)
	}

	winner := verdicts[0].Kind
	for _, v := range verdicts[1:] {
		if v.Kind.Stronger(winner) {
			winner = v.Kind
		}
	}

	var reasons []Reason
	var stepUp *StepUp
	for _, v := range verdicts {
		if v.Kind != winner {
			continue
		}
		reasons = append(reasons, v.Reasons...)
		if winner == STEP_UP && stepUp == nil && v.StepUp != nil {
			stepUp = v.StepUp
		}
	}

	if len(reasons) == 0 {
		reasons = []Reason{{Code: ReasonEngineInvariant, Message: "no reasons supplied by winning verdicts"}}
	}

	if winner == STEP_UP && stepUp == nil {
		stepUp = DefaultStepUp()
	}

	return Verdict{Kind: winner, Reasons: reasons, StepUp: stepUp}
}
