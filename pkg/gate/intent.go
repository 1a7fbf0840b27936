package gate

import (
	"strings"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/canonicalize"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcontext"
)

// SigningIntent is the gate's public entry-point payload (spec §4.8):
// wallet/account identifiers, the action, and the device/platform/
// network metadata EQC needs, plus free-form extras.
type SigningIntent struct {
	WalletID    string
	AccountID   string
	Action      string
	Asset       string
	Amount      *int64
	Recipient   string
	UserID      string
	DeviceID    string
	DeviceType  string
	OS          string
	DeviceTrust bool
	Network     string
	NodeTrusted bool
	PINSet      bool
	Biometric   bool
	Extra       map[string]any
}

// hash returns the SHA-256 of the canonical intent, attached to the
// built context snapshot's extra as "intent_hash" (spec §4.8 step 2) so
// the decision is traceable back to the exact intent that produced it.
func (si SigningIntent) hash() (string, error) {
	type canonicalIntent struct {
		WalletID  string `json:"wallet_id"`
		AccountID string `json:"account_id"`
		Action    string `json:"action"`
		Asset     string `json:"asset"`
		Amount    *int64 `json:"amount,omitempty"`
		Recipient string `json:"recipient,omitempty"`
	}
	return canonicalize.CanonicalHash(canonicalIntent{
		WalletID:  si.WalletID,
		AccountID: si.AccountID,
		Action:    si.Action,
		Asset:     si.Asset,
		Amount:    si.Amount,
		Recipient: si.Recipient,
	})
}

// buildContext constructs the ContextSnapshot EQC decides over (spec
// §4.8 step 2).
func (si SigningIntent) buildContext(timestamp int64) (eqcontext.Snapshot, error) {
	intentHash, err := si.hash()
	if err != nil {
		return eqcontext.Snapshot{}, err
	}

	extra := map[string]any{"intent_hash": intentHash}
	for k, v := range si.Extra {
		extra[k] = v
	}

	return eqcontext.Snapshot{
		Action: eqcontext.Action{
			Action:    si.Action,
			Asset:     si.Asset,
			Amount:    si.Amount,
			Recipient: si.Recipient,
		},
		Device: eqcontext.Device{
			DeviceID:   si.DeviceID,
			DeviceType: si.DeviceType,
			OS:         si.OS,
			Trusted:    si.DeviceTrust,
		},
		Network: eqcontext.Network{
			Network:     si.Network,
			NodeTrusted: si.NodeTrusted,
		},
		User: eqcontext.User{
			UserID:             si.UserID,
			BiometricAvailable: si.Biometric,
			PINSet:             si.PINSet,
		},
		Timestamp: timestamp,
		Extra:     extra,
	}, nil
}

// signingLikeActions are the actions intent_runtime.py dispatches onto
// the signing gate; anything else is rejected before EQC is consulted.
var signingLikeActions = map[string]bool{
	"sign":         true,
	"send":         true,
	"transfer":     true,
	"mint":         true,
	"message_sign": true,
}

// recipientRequiredActions must carry a recipient and amount before EQC
// is even consulted (intent_runtime.py's basic validation step).
var recipientRequiredActions = map[string]bool{
	"send":     true,
	"transfer": true,
}

// validateBasic performs the cheap, pre-EQC shape checks from
// intent_runtime.py: unsupported actions and missing send/transfer
// fields fail fast without ever calling EQC.
func (si SigningIntent) validateBasic() error {
	if si.WalletID == "" || si.AccountID == "" {
		return errUnsupportedIntent("wallet_id and account_id are required")
	}
	action := strings.ToLower(strings.TrimSpace(si.Action))
	if !signingLikeActions[action] {
		return errUnsupportedIntent("unsupported action %q", si.Action)
	}
	if recipientRequiredActions[action] {
		if si.Recipient == "" || si.Amount == nil {
			return errUnsupportedIntent("%q requires a recipient and amount", si.Action)
		}
	}
	return nil
}
