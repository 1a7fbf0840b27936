//go:build property
// +build property

package eqcontext_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcontext"
)

// Fingerprint stability: identical semantic content always produces an
// identical fingerprint, regardless of map key insertion order in Extra.
func TestPropertyFingerprintStableAcrossExtraOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("fingerprint ignores extra map key order", prop.ForAll(
		func(a, b string, n int64) bool {
			s1 := eqcontext.Snapshot{
				Action: eqcontext.Action{Action: "send", Asset: "DGB"},
				Extra:  map[string]any{"a": a, "b": b, "n": n},
			}
			s2 := eqcontext.Snapshot{
				Action: eqcontext.Action{Action: "send", Asset: "DGB"},
				Extra:  map[string]any{"n": n, "b": b, "a": a},
			}
			f1, err1 := s1.Fingerprint()
			f2, err2 := s2.Fingerprint()
			if err1 != nil || err2 != nil {
				return false
			}
			return f1 == f2
		},
		gen.AlphaString(), gen.AlphaString(), gen.Int64Range(0, 1_000_000),
	))
	properties.TestingRun(t)
}
