package packs

import (
	"strings"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcontext"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/verdict"
)

// DefaultHighValueThreshold is the default step-up threshold: 10,000
// minor units.
const DefaultHighValueThreshold = 10_000

// HighValueStepUpPack requires step-up confirmation for any "send"
// whose amount meets or exceeds its threshold. Zero-arg-constructible
// via NewHighValueStepUpPack so it satisfies the Builder contract.
type HighValueStepUpPack struct {
	Threshold int64
}

// NewHighValueStepUpPack builds the pack with the default threshold,
// suitable for direct registration as a Builder.
func NewHighValueStepUpPack() (Pack, error) {
	return &HighValueStepUpPack{Threshold: DefaultHighValueThreshold}, nil
}

// NewHighValueStepUpPackWithThreshold lets callers (tests, alternate
// wallet configurations) override the default threshold.
func NewHighValueStepUpPackWithThreshold(threshold int64) Builder {
	return func() (Pack, error) {
		return &HighValueStepUpPack{Threshold: threshold}, nil
	}
}

// Evaluate returns nil (abstains) for anything that isn't a "send" with
// a known amount; otherwise ALLOW below threshold, STEP_UP at or above it.
func (p *HighValueStepUpPack) Evaluate(ctx eqcontext.Snapshot, device eqcontext.DeviceSignals, tx eqcontext.TxSignals) (*verdict.Verdict, error) {
	if strings.ToLower(tx.Action) != "send" {
		return nil, nil
	}
	if tx.Amount == nil {
		return nil, nil
	}
	if *tx.Amount < p.Threshold {
		v := verdict.Allow("send below high-value threshold")
		return &v, nil
	}
	v := verdict.RequireStepUp(
		verdict.ReasonLargeAmount,
		"high-value send requires confirmation",
		map[string]any{"threshold": p.Threshold, "amount": *tx.Amount},
		[]string{"confirm_user_intent"},
	)
	return &v, nil
}
