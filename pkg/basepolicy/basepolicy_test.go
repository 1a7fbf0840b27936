package basepolicy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcontext"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/verdict"
)

func trustedSnapshot() eqcontext.Snapshot {
	amount := int64(5000)
	return eqcontext.Snapshot{
		Action:    eqcontext.Action{Action: "send", Asset: "DGB", Amount: &amount},
		Device:    eqcontext.Device{DeviceType: "mobile", Trusted: true},
		Network:   eqcontext.Network{Network: "mainnet", NodeTrusted: true},
		User:      eqcontext.User{PINSet: true},
		Timestamp: 1_700_000_000,
	}
}

func TestDefaultRulesAllowsTrustedLowValueSend(t *testing.T) {
	p, err := New(DefaultRules())
	require.NoError(t, err)

	s := trustedSnapshot()
	v, err := p.Evaluate(s, eqcontext.ClassifyDevice(s), eqcontext.ClassifyTx(s))
	require.NoError(t, err)
	require.Equal(t, verdict.ALLOW, v.Kind)
}

func TestDefaultRulesStepsUpHighValueFromUntrustedDevice(t *testing.T) {
	p, err := New(DefaultRules())
	require.NoError(t, err)

	s := trustedSnapshot()
	s.Device.Trusted = false
	amount := int64(2_000_000)
	s.Action.Amount = &amount

	v, err := p.Evaluate(s, eqcontext.ClassifyDevice(s), eqcontext.ClassifyTx(s))
	require.NoError(t, err)
	require.Equal(t, verdict.STEP_UP, v.Kind)
}

func TestDefaultRulesAllowsUntrustedDeviceSendWithNilAmount(t *testing.T) {
	p, err := New(DefaultRules())
	require.NoError(t, err)

	s := trustedSnapshot()
	s.Device.Trusted = false
	s.Action.Amount = nil

	v, err := p.Evaluate(s, eqcontext.ClassifyDevice(s), eqcontext.ClassifyTx(s))
	require.NoError(t, err)
	require.Equal(t, verdict.ALLOW, v.Kind)
}

func TestEvaluateTreatsRuleRuntimeErrorAsNoMatch(t *testing.T) {
	// A rule that selects a possibly-absent map key without has() errors
	// at eval time whenever that key is missing from the activation; the
	// policy must treat that as the rule not matching, not as an engine
	// failure.
	p, err := New([]Rule{{
		Name:       "unguarded-optional-field",
		Expression: `tx.amount > 1000000`,
		Kind:       verdict.DENY,
		Code:       verdict.ReasonPolicyRuleMatch,
		Message:    "should never fire",
	}})
	require.NoError(t, err)

	s := trustedSnapshot()
	s.Action.Amount = nil

	v, err := p.Evaluate(s, eqcontext.ClassifyDevice(s), eqcontext.ClassifyTx(s))
	require.NoError(t, err)
	require.Equal(t, verdict.ALLOW, v.Kind)
}

func TestDefaultRulesDeniesNoAuthFactor(t *testing.T) {
	p, err := New(DefaultRules())
	require.NoError(t, err)

	s := trustedSnapshot()
	s.User.PINSet = false
	s.User.BiometricAvailable = false

	v, err := p.Evaluate(s, eqcontext.ClassifyDevice(s), eqcontext.ClassifyTx(s))
	require.NoError(t, err)
	require.Equal(t, verdict.DENY, v.Kind)
}
