package eqc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/basepolicy"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcontext"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/packs"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/verdict"
)

func newTestEngine(t *testing.T, initialPacks []string) *Engine {
	t.Helper()
	base, err := basepolicy.New(basepolicy.DefaultRules())
	require.NoError(t, err)

	registry := packs.NewRegistry()
	require.NoError(t, registry.Register("wallet.packs:HighValue", packs.NewHighValueStepUpPack, "1.0.0"))

	return New(base, registry, initialPacks)
}

func trustedSendSnapshot(amount int64) eqcontext.Snapshot {
	return eqcontext.Snapshot{
		Action:    eqcontext.Action{Action: "send", Asset: "DGB", Amount: &amount},
		Device:    eqcontext.Device{DeviceType: "mobile", Trusted: true},
		Network:   eqcontext.Network{Network: "mainnet", NodeTrusted: true},
		User:      eqcontext.User{PINSet: true},
		Timestamp: 1_700_000_000,
	}
}

// Scenario 1: browser denial.
func TestBrowserDenial(t *testing.T) {
	e := newTestEngine(t, nil)
	s := trustedSendSnapshot(100)
	s.Device.DeviceType = "browser"

	d, err := e.Decide(s)
	require.NoError(t, err)
	assert.Equal(t, verdict.DENY, d.Verdict.Kind)
	assert.Equal(t, verdict.ReasonBrowserContextBlocked, d.Verdict.Reasons[0].Code)
	assert.Equal(t, "HOSTILE_RUNTIME", d.Signals["invariant"])
}

func TestExtensionDenial(t *testing.T) {
	e := newTestEngine(t, nil)
	s := trustedSendSnapshot(100)
	s.Device.DeviceType = "Extension"

	d, err := e.Decide(s)
	require.NoError(t, err)
	assert.Equal(t, verdict.DENY, d.Verdict.Kind)
	assert.Equal(t, verdict.ReasonExtensionContextBlocked, d.Verdict.Reasons[0].Code)
}

// Scenario 2: DigiDollar mint step-up.
func TestMintDigiDollarStepUp(t *testing.T) {
	e := newTestEngine(t, nil)
	s := trustedSendSnapshot(0)
	s.Action.Action = "mint"
	s.Action.Asset = "DigiDollar"

	d, err := e.Decide(s)
	require.NoError(t, err)
	assert.Equal(t, verdict.STEP_UP, d.Verdict.Kind)
	require.NotNil(t, d.Verdict.StepUp)
	assert.Equal(t, []string{"confirm_user_intent"}, d.Verdict.StepUp.Requirements)
	assert.Equal(t, verdict.ReasonMintRedeemRequiresStepUp, d.Verdict.Reasons[0].Code)
}

// Scenario 3: happy path send.
func TestHappyPathSendAllows(t *testing.T) {
	e := newTestEngine(t, nil)
	s := trustedSendSnapshot(500)

	d, err := e.Decide(s)
	require.NoError(t, err)
	assert.Equal(t, verdict.ALLOW, d.Verdict.Kind)
}

// Scenario 4: high-value tightening via a policy pack.
func TestHighValuePackTightensAllowToStepUp(t *testing.T) {
	e := newTestEngine(t, []string{"wallet.packs:HighValue"})
	s := trustedSendSnapshot(10_000_000)

	d, err := e.Decide(s)
	require.NoError(t, err)
	assert.Equal(t, verdict.STEP_UP, d.Verdict.Kind)

	found := false
	for _, r := range d.Verdict.Reasons {
		if r.Code == verdict.ReasonLargeAmount {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDecideIsDeterministic(t *testing.T) {
	e := newTestEngine(t, []string{"wallet.packs:HighValue"})
	s := trustedSendSnapshot(10_000_000)

	d1, err := e.Decide(s)
	require.NoError(t, err)
	d2, err := e.Decide(s)
	require.NoError(t, err)

	assert.Equal(t, d1.Verdict, d2.Verdict)
	assert.Equal(t, d1.ContextFingerprint, d2.ContextFingerprint)
}

func TestEnableDisablePackIdempotentAndOrderPreserving(t *testing.T) {
	e := newTestEngine(t, nil)
	e.EnablePack("a")
	e.EnablePack("b")
	e.EnablePack("a")
	assert.Equal(t, []string{"a", "b"}, e.EnabledPacks())

	e.DisablePack("a")
	e.DisablePack("a")
	assert.Equal(t, []string{"b"}, e.EnabledPacks())
}
