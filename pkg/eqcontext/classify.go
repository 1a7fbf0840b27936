package eqcontext

import "strings"

// hostileDeviceTypes are runtimes EQC's hard invariants refuse to sign
// from regardless of any pack or base-policy outcome (spec §4.6 steps 1-2).
var hostileDeviceTypes = map[string]bool{
	"browser":   true,
	"extension": true,
}

// DeviceSignals is the pure derived view of Device a base policy or pack
// reasons over, rather than the raw snapshot.
type DeviceSignals struct {
	DeviceType      string `json:"device_type"`
	Trusted         bool   `json:"trusted"`
	IsHostileRuntime bool  `json:"is_hostile_runtime"`
	IsNewDevice     bool   `json:"is_new_device"`
}

// ClassifyDevice derives DeviceSignals from a snapshot. Pure function,
// no I/O, no wall-clock reads beyond the timestamp already on the
// snapshot (spec §4.3's purity requirement).
func ClassifyDevice(s Snapshot) DeviceSignals {
	deviceType := strings.ToLower(strings.TrimSpace(s.Device.DeviceType))
	return DeviceSignals{
		DeviceType:       deviceType,
		Trusted:          s.Device.Trusted,
		IsHostileRuntime: hostileDeviceTypes[deviceType],
		IsNewDevice:      s.Device.FirstSeenTS == nil,
	}
}

// mintRedeemActions are actions that touch issuance/redemption of a
// pegged asset and always require step-up (spec §4.6 step 3).
var mintRedeemActions = map[string]bool{
	"mint":   true,
	"redeem": true,
}

// pegAssets are DigiDollar-family assets subject to the mint/redeem
// step-up invariant.
var pegAssets = map[string]bool{
	"digidollar": true,
	"dd":         true,
}

// TxSignals is the pure derived view of Action a base policy or pack
// reasons over.
type TxSignals struct {
	Action            string `json:"action"`
	Asset             string `json:"asset"`
	Amount            *int64 `json:"amount,omitempty"`
	IsMintRedeem      bool   `json:"is_mint_redeem"`
	IsPegAsset        bool   `json:"is_peg_asset"`
	RequiresRecipient bool   `json:"requires_recipient"`
}

// sendLikeActions are actions that move value to a recipient and so
// require a recipient to be present (spec §3's ActionContext invariant).
var sendLikeActions = map[string]bool{
	"send":     true,
	"transfer": true,
}

// ClassifyTx derives TxSignals from a snapshot's Action. Pure function.
func ClassifyTx(s Snapshot) TxSignals {
	action := strings.ToLower(strings.TrimSpace(s.Action.Action))
	asset := strings.ToLower(strings.TrimSpace(s.Action.Asset))
	return TxSignals{
		Action:            action,
		Asset:             asset,
		Amount:            s.Action.Amount,
		IsMintRedeem:      mintRedeemActions[action],
		IsPegAsset:        pegAssets[asset],
		RequiresRecipient: sendLikeActions[action],
	}
}
