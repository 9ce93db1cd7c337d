package websocket

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-widget/internal/entity"
)

const (
	actionConnect      = "connect"
	actionCellActivate = "cell:activate"
	actionGameRestart  = "game:restart"
	actionGameState    = "game:state"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	SessionID string           `json:"session_id,omitempty"`
	Cell      *int             `json:"cell,omitempty"`
	Game      *entity.GameView `json:"game,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// client wraps a connection; gorilla allows one concurrent writer only.
type client struct {
	conn *websocket.Conn

	writeMu   sync.Mutex
	sessionID string
}

func (that *client) send(action string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = that.conn.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
