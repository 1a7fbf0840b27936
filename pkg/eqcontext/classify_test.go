package eqcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDeviceFlagsHostileRuntime(t *testing.T) {
	s := sampleSnapshot()
	s.Device.DeviceType = "Browser"
	sig := ClassifyDevice(s)
	assert.True(t, sig.IsHostileRuntime)
	assert.Equal(t, "browser", sig.DeviceType)
}

func TestClassifyDeviceTrustedMobileIsNotHostile(t *testing.T) {
	sig := ClassifyDevice(sampleSnapshot())
	assert.False(t, sig.IsHostileRuntime)
}

func TestClassifyTxFlagsMintRedeemOfPegAsset(t *testing.T) {
	s := sampleSnapshot()
	s.Action.Action = "mint"
	s.Action.Asset = "DigiDollar"
	sig := ClassifyTx(s)
	assert.True(t, sig.IsMintRedeem)
	assert.True(t, sig.IsPegAsset)
}

func TestClassifyTxSendRequiresRecipient(t *testing.T) {
	sig := ClassifyTx(sampleSnapshot())
	assert.True(t, sig.RequiresRecipient)
}
