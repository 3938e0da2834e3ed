// Package orders owns the order record that a voice conversation fills in,
// the policy for accepting proposed changes to it, and the append-only log
// of finished orders.
package orders

import (
	"bytes"
	"encoding/json"
)

// State is the single order record threaded through a conversation. The
// server holds no copy of it between turns: the caller round-trips it as an
// opaque value and the orchestrator reconstructs it from whatever the caller
// supplied.
type State struct {
	DrinkType  *string  `json:"drinkType"`
	Size       *string  `json:"size"`
	Milk       *string  `json:"milk"`
	Extras     []string `json:"extras"`
	Name       *string  `json:"name"`
	IsComplete bool     `json:"is_complete"`
}

// DefaultState is the canonical empty order: all slots unset, no extras.
func DefaultState() State {
	return State{Extras: []string{}}
}

// DecodeState parses a caller-supplied serialized order state. Unknown
// fields are dropped and missing fields keep their default value. Empty or
// malformed input degrades to [DefaultState] instead of failing the turn.
func DecodeState(raw []byte) State {
	if len(bytes.TrimSpace(raw)) == 0 {
		return DefaultState()
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return DefaultState()
	}
	if state.Extras == nil {
		state.Extras = []string{}
	}
	return state
}
