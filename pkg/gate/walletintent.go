package gate

import (
	"time"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqc"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/guardedexec"
)

// WalletIntent is a higher-level request shape (wallet action adapter,
// grounded in core/runtime/intent_runtime.py's WalletIntent) that maps
// onto a SigningIntent before reaching the gate. It exists so callers
// outside the authority core (CLI, API handlers) don't need to know the
// gate's internal context-snapshot shape.
type WalletIntent struct {
	WalletID   string
	AccountID  string
	Action     string
	Asset      string // defaults to "DGB" when empty
	ToAddress  string
	AmountMinor *int64
	UserID     string // defaults to "user" when empty
	DeviceType string // defaults to "mobile" when empty
	Platform   string
	Network    string // defaults to "unknown" when empty
	PINSet     bool
	Biometric  bool
	Extra      map[string]any
}

// toSigningIntent applies WalletIntent's defaults and maps it onto the
// gate's SigningIntent shape.
func (wi WalletIntent) toSigningIntent() SigningIntent {
	asset := wi.Asset
	if asset == "" {
		asset = "DGB"
	}
	userID := wi.UserID
	if userID == "" {
		userID = "user"
	}
	deviceType := wi.DeviceType
	if deviceType == "" {
		deviceType = "mobile"
	}
	network := wi.Network
	if network == "" {
		network = "unknown"
	}

	return SigningIntent{
		WalletID:   wi.WalletID,
		AccountID:  wi.AccountID,
		Action:     wi.Action,
		Asset:      asset,
		Amount:     wi.AmountMinor,
		Recipient:  wi.ToAddress,
		UserID:     userID,
		DeviceType: deviceType,
		OS:         wi.Platform,
		Network:    network,
		PINSet:     wi.PINSet,
		Biometric:  wi.Biometric,
		Extra:      wi.Extra,
	}
}

// ExecuteWalletIntent adapts wi onto the signing gate and dispatches it
// by action class (intent_runtime.py's execute_intent), rejecting
// anything that isn't a recognized signing-like action before EQC is
// ever consulted.
func ExecuteWalletIntent(
	wi WalletIntent,
	executor guardedexec.Executor,
	engine *eqc.Engine,
	shield ShieldEvaluator,
	accounts WatchOnlyChecker,
	opts Options,
	now time.Time,
) (guardedexec.Result, error) {
	intent := wi.toSigningIntent()
	if err := intent.validateBasic(); err != nil {
		return guardedexec.Result{}, err
	}
	return ExecuteSigningIntent(intent, executor, engine, shield, accounts, opts, now)
}
