package eqcontext

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ExtraValidator validates the free-form Extra map of a Snapshot against
// a JSON Schema before it is accepted into the engine, preventing
// malformed extras from silently reaching the fingerprint.
type ExtraValidator struct {
	schema *jsonschema.Schema
}

// NewExtraValidator compiles schemaJSON (a JSON Schema document) for
// later use against inbound snapshots.
func NewExtraValidator(schemaJSON []byte) (*ExtraValidator, error) {
	compiler := jsonschema.NewCompiler()
	const resourceName = "eqc-extra-schema.json"
	if err := compiler.AddResource(resourceName, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("eqcontext: invalid extra schema: %w", err)
	}
	sch, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("eqcontext: schema compile failed: %w", err)
	}
	return &ExtraValidator{schema: sch}, nil
}

// Validate checks snapshot.Extra against the compiled schema. A nil or
// empty Extra always passes.
func (v *ExtraValidator) Validate(s Snapshot) error {
	if v == nil || v.schema == nil || len(s.Extra) == 0 {
		return nil
	}
	raw, err := json.Marshal(s.Extra)
	if err != nil {
		return fmt.Errorf("eqcontext: marshal extra: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("eqcontext: decode extra: %w", err)
	}
	if err := v.schema.Validate(decoded); err != nil {
		return fmt.Errorf("eqcontext: extra failed schema validation: %w", err)
	}
	return nil
}
