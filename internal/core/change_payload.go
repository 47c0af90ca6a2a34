package core

import (
	"encoding/json"
	"fmt"

	"estatecore/pkg/domain"
)

// decodeChangePayload unmarshals a change payload into the requested type.
func decodeChangePayload[T any](payload domain.ChangePayload) (T, error) {
	var out T
	raw := payload.Raw()
	if raw == nil {
		return out, fmt.Errorf("change payload empty")
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode change payload: %w", err)
	}
	return out, nil
}
