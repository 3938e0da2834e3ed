package orchestration

import (
	"encoding/json"
	"fmt"

	"github.com/koscakluka/barista-core/core/orders"
)

// baristaInstructions spells out the output shape as well, for backends that
// do not enforce the reflected schema server-side.
const baristaInstructions = `You are a friendly coffee shop barista. Your goal is to take a complete coffee order.

1. Update 'drinkType', 'size', 'milk', 'extras' and 'name' based on what the user said.
2. 'extras' is the full list of add-ons mentioned so far: keep every previous entry and append new ones.
3. If fields are still null, politely ask for them.
4. If all fields are filled, set 'is_complete' to true and confirm the full order.
5. Keep your 'reply' short, friendly, and conversational (max 2 sentences).

Respond ONLY in this JSON format:
{
    "updated_state": {
        "drinkType": "string or null",
        "size": "string or null",
        "milk": "string or null",
        "extras": ["string"],
        "name": "string or null",
        "is_complete": boolean
    },
    "reply": "Your response text here"
}`

// turnProposal is the schema the reasoning collaborator's output must parse
// against. No repair is attempted on violations.
type turnProposal struct {
	UpdatedState orders.Proposal `json:"updated_state" jsonschema:"description=The new order state after this utterance"`
	Reply        string          `json:"reply" jsonschema:"description=Short conversational reply to speak back to the user"`
}

func buildTurnPrompt(state orders.State, transcript string) string {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		stateJSON = []byte("{}")
	}

	return fmt.Sprintf("Current order state: %s\n\nUser just said: %q", stateJSON, transcript)
}
