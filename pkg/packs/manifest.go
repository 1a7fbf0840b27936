package packs

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest describes a policy pack to load without writing Go code for
// it: a semver-versioned reference pointing at a compiled WASM module.
type Manifest struct {
	Ref         string `yaml:"ref"`
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`
	WASMPath    string `yaml:"wasm_path"`
}

// ParseManifests parses a YAML document containing a list of pack
// manifests (the policy-pack bundle file operators hand to cmd/eqcgate).
func ParseManifests(data []byte) ([]Manifest, error) {
	var manifests []Manifest
	if err := yaml.Unmarshal(data, &manifests); err != nil {
		return nil, fmt.Errorf("packs: parse manifest bundle: %w", err)
	}
	return manifests, nil
}

// LoadWASMManifests reads each manifest's WASM module from disk and
// registers it against reg under its declared ref/version, using
// loadTimeout as the per-evaluation budget for the resulting pack.
func LoadWASMManifests(ctx context.Context, reg *Registry, manifests []Manifest, loadTimeout time.Duration) error {
	for _, m := range manifests {
		if m.WASMPath == "" {
			continue
		}
		wasmBytes, err := os.ReadFile(m.WASMPath)
		if err != nil {
			return fmt.Errorf("packs: read wasm module for %s: %w", m.Ref, err)
		}
		pack, err := NewWASMPack(ctx, wasmBytes, loadTimeout)
		if err != nil {
			return fmt.Errorf("packs: compile wasm module for %s: %w", m.Ref, err)
		}
		if err := reg.Register(m.Ref, WASMBuilder(pack), m.Version); err != nil {
			return fmt.Errorf("packs: register %s: %w", m.Ref, err)
		}
	}
	return nil
}
