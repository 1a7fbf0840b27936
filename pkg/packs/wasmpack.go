package packs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcontext"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/verdict"
)

// wasmInput is what a WASM pack module receives on stdin.
type wasmInput struct {
	Context eqcontext.Snapshot       `json:"context"`
	Device  eqcontext.DeviceSignals  `json:"device"`
	Tx      eqcontext.TxSignals      `json:"tx"`
}

// wasmOutput is what a WASM pack module must write to stdout: either a
// verdict, or an empty object meaning "abstain" (spec §4.4's null pack
// result). A module that writes nothing abstains.
type wasmOutput struct {
	Verdict *verdict.Verdict `json:"verdict"`
}

// WASMPack loads a policy pack compiled to a sandboxed WebAssembly
// module and evaluated via wazero — deny-by-default, no filesystem, no
// network, no ambient authority, giving packs a safe dynamic-loading
// story without Go's native plugin mechanism.
type WASMPack struct {
	runtime wazero.Runtime
	compile wazero.CompiledModule
	timeout time.Duration
}

// NewWASMPack compiles wasmBytes once; Evaluate instantiates a fresh
// module instance per call so pack state never leaks across decisions.
func NewWASMPack(ctx context.Context, wasmBytes []byte, timeout time.Duration) (*WASMPack, error) {
	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))
	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("packs: wasm compile failed: %w", err)
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &WASMPack{runtime: r, compile: compiled, timeout: timeout}, nil
}

// Close releases the wazero runtime and compiled module.
func (w *WASMPack) Close(ctx context.Context) error {
	if err := w.compile.Close(ctx); err != nil {
		return err
	}
	return w.runtime.Close(ctx)
}

// Evaluate marshals (ctx, device, tx) to JSON on the module's stdin and
// decodes a verdict (or abstention) from its stdout. No filesystem,
// network, or environment access is wired into the module config.
func (w *WASMPack) Evaluate(ctx eqcontext.Snapshot, device eqcontext.DeviceSignals, tx eqcontext.TxSignals) (*verdict.Verdict, error) {
	runCtx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	in, err := json.Marshal(wasmInput{Context: ctx, Device: device, Tx: tx})
	if err != nil {
		return nil, fmt.Errorf("packs: wasm input marshal: %w", err)
	}

	var stdout, stderr bytes.Buffer
	modCfg := wazero.NewModuleConfig().
		WithName("").
		WithStdin(bytes.NewReader(in)).
		WithStdout(&stdout).
		WithStderr(&stderr).
		WithStartFunctions("_start")

	mod, err := w.runtime.InstantiateModule(runCtx, w.compile, modCfg)
	if err != nil {
		if runCtx.Err() != nil {
			return nil, fmt.Errorf("packs: wasm pack timed out after %v", w.timeout)
		}
		return nil, fmt.Errorf("packs: wasm instantiation failed: %w", err)
	}
	defer func() { _ = mod.Close(runCtx) }()

	if stdout.Len() == 0 {
		return nil, nil
	}

	var out wasmOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("packs: wasm output decode: %w (stderr: %s)", err, stderr.String())
	}
	return out.Verdict, nil
}

// WASMBuilder adapts a compiled WASMPack into a Builder for Registry
// registration, matching the zero-arg-constructible contract.
func WASMBuilder(p *WASMPack) Builder {
	return func() (Pack, error) {
		return p, nil
	}
}
