package gate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/basepolicy"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqc"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcerrors"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcontext"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/guardedexec"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/packs"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/session"
)

func newGateEngine(t *testing.T) *eqc.Engine {
	t.Helper()
	base, err := basepolicy.New(basepolicy.DefaultRules())
	require.NoError(t, err)
	registry := packs.NewRegistry()
	require.NoError(t, registry.Register("wallet.packs:HighValue", packs.NewHighValueStepUpPack, "1.0.0"))
	return eqc.New(base, registry, nil)
}

func okIntent() SigningIntent {
	amount := int64(500)
	return SigningIntent{
		WalletID:    "w1",
		AccountID:   "a1",
		Action:      "send",
		Asset:       "DGB",
		Amount:      &amount,
		Recipient:   "dgb1qexample",
		DeviceType:  "mobile",
		DeviceTrust: true,
		Network:     "mainnet",
		NodeTrusted: true,
		PINSet:      true,
	}
}

func echoExecutor() guardedexec.Executor {
	return func(ctx eqcontext.Snapshot) (any, error) {
		return map[string]bool{"ok": true}, nil
	}
}

// Scenario 3: happy path.
func TestExecuteSigningIntentHappyPath(t *testing.T) {
	engine := newGateEngine(t)
	now := time.Now()

	res, err := ExecuteSigningIntent(okIntent(), echoExecutor(), engine, nil, nil, Options{UseWSQK: true}, now)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"ok": true}, res.Value)
}

// Scenario 1: browser denial.
func TestExecuteSigningIntentBrowserDenialBlocksBeforeExecutor(t *testing.T) {
	engine := newGateEngine(t)
	now := time.Now()

	intent := okIntent()
	intent.DeviceType = "browser"

	calls := 0
	executor := func(ctx eqcontext.Snapshot) (any, error) {
		calls++
		return nil, nil
	}

	_, err := ExecuteSigningIntent(intent, executor, engine, nil, nil, Options{UseWSQK: true}, now)
	require.Error(t, err)

	var blocked *ExecutionBlocked
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, eqcerrors.KindEQCBlocked, blocked.Kind)
	assert.Equal(t, 0, calls)
}

// Scenario 5: watch-only veto happens before EQC is ever consulted.
func TestExecuteSigningIntentWatchOnlyVetoPrecedesEQC(t *testing.T) {
	engine := newGateEngine(t)
	now := time.Now()

	accounts := NewInMemoryAccountStore()
	accounts.MarkWatchOnly("w1", "a1")

	// A browser intent would be denied by EQC; getting WATCH_ONLY_FORBIDDEN
	// instead shows the veto ran first.
	intent := okIntent()
	intent.DeviceType = "browser"

	_, err := ExecuteSigningIntent(intent, echoExecutor(), engine, nil, accounts, Options{UseWSQK: true}, now)
	require.Error(t, err)

	var blocked *ExecutionBlocked
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, eqcerrors.KindWatchOnlyForbidden, blocked.Kind)
}

// Scenario 4: high-value tightening blocks the ALLOW-only gate path.
func TestExecuteSigningIntentHighValueBlocksUnderGate(t *testing.T) {
	engine := newGateEngine(t)
	engine.EnablePack("wallet.packs:HighValue")
	now := time.Now()

	intent := okIntent()
	amount := int64(10_000_000)
	intent.Amount = &amount

	calls := 0
	executor := func(ctx eqcontext.Snapshot) (any, error) {
		calls++
		return nil, nil
	}

	_, err := ExecuteSigningIntent(intent, executor, engine, nil, nil, Options{UseWSQK: true}, now)
	require.Error(t, err)
	var blocked *ExecutionBlocked
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, eqcerrors.KindEQCBlocked, blocked.Kind)
	assert.Equal(t, 0, calls)
}

// Scenario 6: replay.
func TestExecuteSigningIntentReplayFailsSecondTime(t *testing.T) {
	engine := newGateEngine(t)
	now := time.Now()
	sess := session.New("w1", time.Minute, now, nil)

	nonce := sess.IssueNonce()
	opts := Options{UseWSQK: true, Session: &sess, Nonce: nonce}

	res1, err := ExecuteSigningIntent(okIntent(), echoExecutor(), engine, nil, nil, opts, now)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"ok": true}, res1.Value)

	_, err = ExecuteSigningIntent(okIntent(), echoExecutor(), engine, nil, nil, opts, now)
	require.Error(t, err)
	var blocked *ExecutionBlocked
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, eqcerrors.KindNonceReplay, blocked.Kind)
}

func TestExecuteSigningIntentUnsupportedActionRejected(t *testing.T) {
	engine := newGateEngine(t)
	now := time.Now()

	intent := okIntent()
	intent.Action = "export_seed"

	_, err := ExecuteSigningIntent(intent, echoExecutor(), engine, nil, nil, Options{UseWSQK: true}, now)
	require.Error(t, err)
	var blocked *ExecutionBlocked
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, eqcerrors.KindMalformedInput, blocked.Kind)
}

func TestExecuteWalletIntentAdapterAppliesDefaults(t *testing.T) {
	engine := newGateEngine(t)
	now := time.Now()

	amount := int64(500)
	wi := WalletIntent{
		WalletID:    "w1",
		AccountID:   "a1",
		Action:      "send",
		ToAddress:   "dgb1qexample",
		AmountMinor: &amount,
		PINSet:      true,
	}

	res, err := ExecuteWalletIntent(wi, echoExecutor(), engine, nil, nil, Options{UseWSQK: true}, now)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"ok": true}, res.Value)
}

func TestUseWSQKFalseStillRunsWatchOnlyAndEQCChecks(t *testing.T) {
	engine := newGateEngine(t)
	now := time.Now()

	accounts := NewInMemoryAccountStore()
	accounts.MarkWatchOnly("w1", "a1")

	_, err := ExecuteSigningIntent(okIntent(), echoExecutor(), engine, nil, accounts, Options{UseWSQK: false}, now)
	require.Error(t, err)
	var blocked *ExecutionBlocked
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, eqcerrors.KindWatchOnlyForbidden, blocked.Kind)

	intent := okIntent()
	intent.DeviceType = "browser"
	calls := 0
	executor := func(ctx eqcontext.Snapshot) (any, error) {
		calls++
		return nil, nil
	}

	_, err = ExecuteSigningIntent(intent, executor, engine, nil, nil, Options{UseWSQK: false}, now)
	require.Error(t, err)
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, eqcerrors.KindEQCBlocked, blocked.Kind)
	assert.Equal(t, 0, calls)
}
