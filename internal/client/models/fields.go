package models

import (
	"encoding/json"
	"fmt"
)

// Fields converts an entity struct into the generic field map stored in a
// record's JSON column. Only json-tagged fields travel; zero-valued
// omitempty fields are dropped, which keeps stored rows additive-friendly.
func Fields(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fields: %w", err)
	}
	m := make(map[string]any)
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("failed to decode fields: %w", err)
	}
	return m, nil
}

// FromFields decodes a generic field map into the given entity struct.
// Unknown keys are ignored so older clients tolerate newer rows.
func FromFields(m map[string]any, v any) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to decode fields: %w", err)
	}
	return nil
}
