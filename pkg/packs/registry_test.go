package packs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcontext"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/verdict"
)

func sendSnapshot(amount int64) eqcontext.Snapshot {
	return eqcontext.Snapshot{
		Action: eqcontext.Action{Action: "send", Asset: "DGB", Amount: &amount},
		Device: eqcontext.Device{DeviceType: "mobile", Trusted: true},
	}
}

func TestRegistryResolvesAndEvaluatesRegisteredPack(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("wallet.packs:HighValue", NewHighValueStepUpPack, "1.0.0"))

	ctx := sendSnapshot(20_000)
	verdicts, err := r.Evaluate(ctx, []string{"wallet.packs:HighValue"}, eqcontext.ClassifyDevice(ctx), eqcontext.ClassifyTx(ctx))
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.Equal(t, verdict.STEP_UP, verdicts[0].Kind)
}

func TestRegistryUnresolvedReferenceFailsLoudly(t *testing.T) {
	r := NewRegistry()
	ctx := sendSnapshot(100)
	_, err := r.Evaluate(ctx, []string{"wallet.packs:Missing"}, eqcontext.ClassifyDevice(ctx), eqcontext.ClassifyTx(ctx))
	require.Error(t, err)
}

func TestRegistrySemverConstraintRejectsMismatch(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("wallet.packs:HighValue", NewHighValueStepUpPack, "1.0.0"))

	ctx := sendSnapshot(20_000)
	_, err := r.Evaluate(ctx, []string{"wallet.packs:HighValue@^2.0"}, eqcontext.ClassifyDevice(ctx), eqcontext.ClassifyTx(ctx))
	require.Error(t, err)
}

func TestHighValuePackAbstainsOnNonSend(t *testing.T) {
	p, err := NewHighValueStepUpPack()
	require.NoError(t, err)

	ctx := eqcontext.Snapshot{Action: eqcontext.Action{Action: "mint", Asset: "DD"}}
	v, err := p.Evaluate(ctx, eqcontext.DeviceSignals{}, eqcontext.ClassifyTx(ctx))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestHighValuePackAllowsBelowThreshold(t *testing.T) {
	p, err := NewHighValueStepUpPack()
	require.NoError(t, err)

	ctx := sendSnapshot(500)
	v, err := p.Evaluate(ctx, eqcontext.DeviceSignals{}, eqcontext.ClassifyTx(ctx))
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, verdict.ALLOW, v.Kind)
}
