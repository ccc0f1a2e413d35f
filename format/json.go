package format

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSON is the default Format, grounded on the same encoding/json framing the teacher's transport package uses
// on the wire (transport/socket.go, transport/mux.go). It round-trips every built-in protocol in this repo.
type JSON struct{}

func (JSON) Serialize(ctx context.Context, value any) (Representation, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("format: json serialize: %w", err)
	}
	return json.RawMessage(b), nil
}

func (JSON) Deserialize(ctx context.Context, repr Representation, target any) error {
	var raw json.RawMessage
	switch v := repr.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		// round-trip through Marshal for representations that arrived as decoded `any` (e.g. from a Null-backed test transport)
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("format: json deserialize: re-marshal: %w", err)
		}
		raw = b
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("format: json deserialize: %w", err)
	}
	return nil
}
