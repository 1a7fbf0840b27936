package gate

// ShieldDecision is Shield's verdict on a signing intent (spec §6).
// Any truthy Blocked is a hard stop the gate never second-guesses.
type ShieldDecision struct {
	Blocked   bool
	Reason    string
	RiskScore *float64
}

// ShieldEvaluator is the external risk-evaluation collaborator's
// interface. The concrete client lives outside this module; the gate
// only ever calls Evaluate synchronously (spec §5).
type ShieldEvaluator interface {
	Evaluate(intent SigningIntent) (ShieldDecision, error)
}

// DefaultShieldEvaluator is a safe no-op that never blocks, used when no
// real Shield client is wired.
type DefaultShieldEvaluator struct{}

func (DefaultShieldEvaluator) Evaluate(SigningIntent) (ShieldDecision, error) {
	return ShieldDecision{Blocked: false}, nil
}
