package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/config"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcerrors"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcontext"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/gate"
)

// noopExecutor stands in for the real transaction signer, which lives
// outside this module's scope (spec §1: no key derivation/signing).
// It reports what it would have done, nothing more.
func noopExecutor() func(ctx eqcontext.Snapshot) (any, error) {
	return func(ctx eqcontext.Snapshot) (any, error) {
		fp, err := ctx.Fingerprint()
		if err != nil {
			return nil, err
		}
		return map[string]string{"status": "executed", "context_fingerprint": fp}, nil
	}
}

func runGateCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("gate", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	intentFile := cmd.String("intent", "", "path to a WalletIntent JSON file (default: stdin)")
	useWSQK := cmd.Bool("use-wsqk", true, "run the scope/capability path (spec §4.8's escape hatch)")
	ttlSeconds := cmd.Int("ttl", 0, "scope TTL in seconds (0 = default)")
	if err := cmd.Parse(args); err != nil {
		return 1
	}

	raw, err := readInput(*intentFile)
	if err != nil {
		fmt.Fprintf(stderr, "read intent: %v\n", err)
		return 1
	}

	var wi gate.WalletIntent
	if err := json.Unmarshal(raw, &wi); err != nil {
		fmt.Fprintf(stderr, "malformed wallet intent: %v\n", err)
		return 1
	}

	cfg := config.Load()
	engine, err := newEngine(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "build engine: %v\n", err)
		return 1
	}

	opts := gate.Options{UseWSQK: *useWSQK}
	if *ttlSeconds > 0 {
		opts.TTL = time.Duration(*ttlSeconds) * time.Second
	}

	accounts := gate.NewInMemoryAccountStore()
	result, err := gate.ExecuteWalletIntent(wi, noopExecutor(), engine, nil, accounts, opts, time.Now())
	if err != nil {
		var blocked *gate.ExecutionBlocked
		if errors.As(err, &blocked) {
			fmt.Fprintf(stderr, "blocked: %v\n", blocked)
			if blocked.Kind == eqcerrors.KindEQCBlocked && blocked.Verdict != nil {
				return eqcerrors.ExitCodeForEQCBlocked(blocked.Verdict.Kind)
			}
			return blocked.Kind.ExitCode()
		}
		fmt.Fprintf(stderr, "gate: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(stderr, "encode result: %v\n", err)
		return 1
	}
	return 0
}
