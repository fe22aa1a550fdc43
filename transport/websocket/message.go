package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	actionNewGame = "game:new"
	actionTurn    = "game:turn"
	actionRestart = "game:restart"
	actionState   = "game:state"
	actionError   = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type NewGamePayload struct {
	Mode     string `json:"mode,omitempty"`
	Strategy string `json:"strategy,omitempty"`
	Mark     string `json:"mark,omitempty"`
}

type TurnPayload struct {
	GameID string `json:"game_id"`
	Player string `json:"player"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

type GamePayload struct {
	GameID string `json:"game_id"`
}

type ResponsePayload struct {
	Game  *entity.Game `json:"game,omitempty"`
	Error string       `json:"error,omitempty"`
}

func encodeMessage(action string, payload ResponsePayload) ([]byte, error) {
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	response, err := json.Marshal(Message{Action: action, Payload: rawPayload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return response, nil
}
