// Package audit implements an optional append-only audit sink for
// decision, scope, and capability issuance events. Audit logging is an
// ambient concern carried regardless of spec Non-goals, not a feature
// the core depends on — the gate and engine function identically with
// no sink wired.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqc"
)

// Sink records authority-pipeline events. A nil Sink is valid — callers
// that don't wire one simply skip auditing.
type Sink interface {
	RecordDecision(ctx context.Context, walletID string, d eqc.Decision, at time.Time) error
	RecordScopeIssued(ctx context.Context, walletID, action, scopeFingerprint string, at time.Time) error
	RecordCapabilityIssued(ctx context.Context, scopeFingerprint, capabilityToken string, at time.Time) error
}

// PostgresSink is the optional Postgres-backed Sink: a thin wrapper
// over *sql.DB with one insert per event kind.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink wraps an existing connection. Schema setup (the
// eqc_decisions/eqc_scopes/eqc_capabilities tables) is an operational
// concern left to migrations, not this package.
func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

func (p *PostgresSink) RecordDecision(ctx context.Context, walletID string, d eqc.Decision, at time.Time) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO eqc_decisions (wallet_id, context_fingerprint, verdict_kind, recorded_at)
		 VALUES ($1, $2, $3, $4)`,
		walletID, d.ContextFingerprint, d.Verdict.Kind.String(), at)
	if err != nil {
		return fmt.Errorf("audit: record decision: %w", err)
	}
	return nil
}

func (p *PostgresSink) RecordScopeIssued(ctx context.Context, walletID, action, scopeFingerprint string, at time.Time) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO eqc_scopes (wallet_id, action, scope_fingerprint, issued_at)
		 VALUES ($1, $2, $3, $4)`,
		walletID, action, scopeFingerprint, at)
	if err != nil {
		return fmt.Errorf("audit: record scope: %w", err)
	}
	return nil
}

func (p *PostgresSink) RecordCapabilityIssued(ctx context.Context, scopeFingerprint, capabilityToken string, at time.Time) error {
	// The raw token is never persisted — only a marker that issuance
	// happened, keeping the audit trail useless to an attacker who
	// reads it.
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO eqc_capabilities (scope_fingerprint, token_length, issued_at)
		 VALUES ($1, $2, $3)`,
		scopeFingerprint, len(capabilityToken), at)
	if err != nil {
		return fmt.Errorf("audit: record capability: %w", err)
	}
	return nil
}
