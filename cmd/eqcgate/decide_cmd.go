package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/basepolicy"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/config"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqc"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcontext"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/packs"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/verdict"
)

// newEngine builds the process-wide EQC engine: the default base
// policy plus the registry of packs this binary ships, enabled per
// EQC_POLICY_PACKS (spec §6). If cfg.PackManifestPath is set, its
// YAML-declared WASM packs are registered alongside the built-in ones.
func newEngine(cfg *config.Config) (*eqc.Engine, error) {
	base, err := basepolicy.New(basepolicy.DefaultRules())
	if err != nil {
		return nil, fmt.Errorf("build base policy: %w", err)
	}

	registry := packs.NewRegistry()
	if err := registry.Register("wallet.packs:HighValue", packs.NewHighValueStepUpPack, "1.0.0"); err != nil {
		return nil, fmt.Errorf("register HighValue pack: %w", err)
	}

	if cfg.PackManifestPath != "" {
		raw, err := os.ReadFile(cfg.PackManifestPath)
		if err != nil {
			return nil, fmt.Errorf("read pack manifest: %w", err)
		}
		manifests, err := packs.ParseManifests(raw)
		if err != nil {
			return nil, fmt.Errorf("parse pack manifest: %w", err)
		}
		if err := packs.LoadWASMManifests(context.Background(), registry, manifests, 5*time.Second); err != nil {
			return nil, fmt.Errorf("load pack manifest: %w", err)
		}
	}

	return eqc.New(base, registry, cfg.PolicyPacks), nil
}

func runDecideCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("decide", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	contextFile := cmd.String("context", "", "path to a ContextSnapshot JSON file (default: stdin)")
	if err := cmd.Parse(args); err != nil {
		return 1
	}

	raw, err := readInput(*contextFile)
	if err != nil {
		fmt.Fprintf(stderr, "read context: %v\n", err)
		return 1
	}

	var snapshot eqcontext.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		fmt.Fprintf(stderr, "malformed context snapshot: %v\n", err)
		return 1
	}

	cfg := config.Load()
	engine, err := newEngine(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "build engine: %v\n", err)
		return 1
	}

	decision, err := engine.Decide(snapshot)
	if err != nil {
		fmt.Fprintf(stderr, "decide: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(decision); err != nil {
		fmt.Fprintf(stderr, "encode decision: %v\n", err)
		return 1
	}

	switch decision.Verdict.Kind {
	case verdict.ALLOW:
		return 0
	case verdict.STEP_UP:
		return 11
	default:
		return 10
	}
}

// readInput reads path, or stdin when path is empty.
func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
