package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/config"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/crypto"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqc"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcerrors"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcontext"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/gate"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/telemetry"
)

func runServeCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("serve", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	addr := cmd.String("addr", "", "listen address (default: PORT env or :8080)")
	if err := cmd.Parse(args); err != nil {
		return 1
	}

	cfg := config.Load()
	listenAddr := *addr
	if listenAddr == "" {
		listenAddr = ":" + cfg.Port
	}

	engine, err := newEngine(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "build engine: %v\n", err)
		return 1
	}

	accounts := gate.NewInMemoryAccountStore()
	metrics := telemetry.NewPromMetrics()

	processSigner, err := crypto.NewEd25519Signer("eqcgate-v1")
	if err != nil {
		fmt.Fprintf(stderr, "generate receipt signing key: %v\n", err)
		return 1
	}
	receipts := gate.NewReceiptSignerFromKey(processSigner, "eqcgate")
	slog.Default().Info("eqcgate: receipt signer ready", "key_id", processSigner.KeyID, "public_key", processSigner.PublicKey())

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealthz)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/decide", handleDecide(engine, metrics))
	mux.HandleFunc("/gate", handleGate(engine, accounts, metrics, receipts))

	slog.Default().Info("eqcgate: listening", "addr", listenAddr)
	if err := http.ListenAndServe(listenAddr, mux); err != nil {
		fmt.Fprintf(stderr, "serve: %v\n", err)
		return 1
	}
	return 0
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleDecide(engine *eqc.Engine, metrics *telemetry.PromMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var snapshot eqcontext.Snapshot
		if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
			httpError(w, http.StatusBadRequest, fmt.Sprintf("malformed context snapshot: %v", err))
			return
		}

		start := time.Now()
		decision, err := engine.Decide(snapshot)
		metrics.DecideSecs.WithLabelValues().Observe(time.Since(start).Seconds())
		if err != nil {
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}
		metrics.Decisions.WithLabelValues(decision.Verdict.Kind.String()).Inc()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(decision)
	}
}

// gateResponse wraps a guarded-execution result with a signed
// ExecutionReceipt a caller can hand to a downstream auditor.
type gateResponse struct {
	Value              any    `json:"value"`
	ContextFingerprint string `json:"context_fingerprint"`
	Receipt            string `json:"receipt,omitempty"`
}

func handleGate(engine *eqc.Engine, accounts gate.WatchOnlyChecker, metrics *telemetry.PromMetrics, receipts *gate.ReceiptSigner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var wi gate.WalletIntent
		if err := json.NewDecoder(r.Body).Decode(&wi); err != nil {
			httpError(w, http.StatusBadRequest, fmt.Sprintf("malformed wallet intent: %v", err))
			return
		}

		now := time.Now()
		start := now
		result, err := gate.ExecuteWalletIntent(wi, noopExecutor(), engine, nil, accounts, gate.Options{UseWSQK: true}, now)
		metrics.ExecSecs.WithLabelValues().Observe(time.Since(start).Seconds())
		if err != nil {
			var blocked *gate.ExecutionBlocked
			if errors.As(err, &blocked) {
				metrics.Blocked.WithLabelValues(string(blocked.Kind)).Inc()
				httpError(w, statusForKind(blocked.Kind), blocked.Error())
				return
			}
			httpError(w, http.StatusInternalServerError, err.Error())
			return
		}

		resp := gateResponse{Value: result.Value, ContextFingerprint: result.ContextFingerprint}
		if receipt, err := receipts.Issue(wi.WalletID, wi.Action, result.ContextFingerprint, time.Hour, now); err == nil {
			resp.Receipt = receipt
		} else {
			slog.Default().Warn("eqcgate: receipt issuance failed", "error", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// statusForKind maps an eqcerrors.Kind to the HTTP status the /gate
// endpoint reports — the CLI uses exit codes for the same information
// (spec §6); this is the HTTP-transport equivalent.
func statusForKind(kind eqcerrors.Kind) int {
	switch kind {
	case eqcerrors.KindMalformedInput:
		return http.StatusBadRequest
	case eqcerrors.KindWatchOnlyForbidden, eqcerrors.KindEQCBlocked, eqcerrors.KindShieldBlocked:
		return http.StatusForbidden
	case eqcerrors.KindScopeNotActive, eqcerrors.KindScopeMismatch, eqcerrors.KindCapabilityInvalid,
		eqcerrors.KindNonceReplay, eqcerrors.KindSessionExpired:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func httpError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
