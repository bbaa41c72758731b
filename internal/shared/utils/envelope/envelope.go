package envelope

import (
	"encoding/json"
	"fmt"
)

// MaxDepth bounds how many nested "result" wrappers are peeled off a
// response body. Observed payloads nest at most two levels; the bound
// guards against malformed payloads that wrap indefinitely.
const MaxDepth = 4

// Unwrap strips nested {"result": ...} wrappers from a JSON object, one
// layer at a time, up to MaxDepth. Unwrapping stops as soon as the current
// value is not an object or carries no "result" key.
func Unwrap(raw json.RawMessage) json.RawMessage {
	current := raw
	for depth := 0; depth < MaxDepth; depth++ {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(current, &obj); err != nil {
			return current
		}
		inner, ok := obj["result"]
		if !ok || len(inner) == 0 || string(inner) == "null" {
			return current
		}
		current = inner
	}
	return current
}

// UnwrapInto unwraps nested "result" wrappers and decodes the innermost
// payload into dest.
func UnwrapInto(raw json.RawMessage, dest interface{}) error {
	if err := json.Unmarshal(Unwrap(raw), dest); err != nil {
		return fmt.Errorf("failed to decode unwrapped payload: %w", err)
	}
	return nil
}
