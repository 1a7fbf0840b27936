package basepolicy

import "encoding/json"

// structToMap converts any JSON-marshalable value into a
// map[string]interface{} for use as a CEL activation variable.
func structToMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
