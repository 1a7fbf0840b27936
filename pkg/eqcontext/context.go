// Package eqcontext defines the ContextSnapshot (C2) that EQC decisions
// are evaluated against, and the pure classifiers (C3) derived from it.
//
// Named eqcontext rather than context to avoid colliding with the
// standard library package of that name.
package eqcontext

import (
	"encoding/json"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/canonicalize"
)

// Action describes the wallet operation being evaluated.
type Action struct {
	Action    string `json:"action"`
	Asset     string `json:"asset"`
	Amount    *int64 `json:"amount,omitempty"`
	Recipient string `json:"recipient,omitempty"`
}

// Device describes the device the request originates from.
type Device struct {
	DeviceID    string `json:"device_id,omitempty"`
	DeviceType  string `json:"device_type"`
	OS          string `json:"os,omitempty"`
	Trusted     bool   `json:"trusted"`
	FirstSeenTS *int64 `json:"first_seen_ts,omitempty"`
	AppVersion  string `json:"app_version,omitempty"`
}

// Network describes the network the request is being issued against.
type Network struct {
	Network      string   `json:"network"`
	NodeType     string   `json:"node_type,omitempty"`
	NodeTrusted  bool     `json:"node_trusted"`
	EntropyScore *float64 `json:"entropy_score,omitempty"`
	FeeRate      *int64   `json:"fee_rate,omitempty"`
	PeerCount    *int64   `json:"peer_count,omitempty"`
}

// User describes the authenticated human behind the request.
type User struct {
	UserID             string `json:"user_id,omitempty"`
	BiometricAvailable bool   `json:"biometric_available"`
	PINSet             bool   `json:"pin_set"`
}

// Snapshot is the full, immutable context EQC decides against. It is
// never mutated after construction; callers build a new Snapshot for
// each evaluation.
type Snapshot struct {
	Action    Action         `json:"action"`
	Device    Device         `json:"device"`
	Network   Network        `json:"network"`
	User      User           `json:"user"`
	Timestamp int64          `json:"timestamp"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// Fingerprint returns the RFC 8785 canonical-JSON SHA-256 digest of the
// snapshot (spec §4.1). Two snapshots with identical field values,
// regardless of struct construction order, produce identical
// fingerprints — canonicalize.JCS sorts map keys and normalizes numbers.
func (s Snapshot) Fingerprint() (string, error) {
	// Round-trip through json.Marshal/Unmarshal first so struct field
	// tags produce the same map shape Python's dataclass.__dict__ would,
	// keeping parity with the original context_hash() implementation.
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}
	if generic["extra"] == nil {
		generic["extra"] = map[string]any{}
	}
	return canonicalize.CanonicalHash(generic)
}
