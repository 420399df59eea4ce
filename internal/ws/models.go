package ws

import (
	"encoding/json"
)

// Incoming is a request sent by the client.
type Incoming struct {
	Event string          `json:"event"`
	ID    int             `json:"id"`
	Data  json.RawMessage `json:"data"`
}

// Outgoing answers the Incoming message with the same ID. Exactly one of Data and
// Error is set.
type Outgoing struct {
	ID    int    `json:"id"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// GameRequest is the data of the "state" and "ai_move" events.
type GameRequest struct {
	GameID string `json:"game_id"`
}

// MoveRequest is the data of the "move" event.
type MoveRequest struct {
	GameID string `json:"game_id"`
	Move   string `json:"move"`
}
