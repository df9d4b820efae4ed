package websocket

import (
	"encoding/json"
	"errors"

	"github.com/kavia-common/browser-tic-tac-toe/internal/entity"
)

const (
	ActionState   = "game:state"
	ActionTurn    = "game:turn"
	ActionRestart = "game:restart"
	ActionError   = "error"
)

var errEmptyPayload = errors.New("empty payload")

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type TurnPayload struct {
	Cell *int `json:"cell"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

func newMessage(action string, payload any) (*Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Message{Action: action, Payload: raw}, nil
}

func stateMessage(snapshot entity.Snapshot) (*Message, error) {
	return newMessage(ActionState, snapshot)
}

func unmarshalPayload(message *Message, target any) error {
	if len(message.Payload) == 0 {
		return errEmptyPayload
	}

	return json.Unmarshal(message.Payload, target)
}
