package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-widget/internal/entity"
	"github.com/rocketscienceinc/tictactoe-widget/internal/pkg"
)

func (that *Server) handleConnect(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload
	if err := decodePayload(msg, &payloadReq); err != nil {
		return that.sendErrorResponse(c, msg.Action, "invalid payload")
	}

	sessionID := payloadReq.SessionID
	if sessionID == "" {
		sessionID = c.sessionID
	}

	if sessionID == "" {
		sessionID = pkg.GenerateNewSessionID()
		log.Info("registered new session", "sessionID", sessionID)
	}

	if err := pkg.ValidateSessionID(sessionID); err != nil {
		return that.sendErrorResponse(c, msg.Action, err.Error())
	}

	game, err := that.game.GetOrCreateGame(ctx, sessionID)
	if err != nil {
		log.Error("failed to get game", "sessionID", sessionID, "error", err)
		return that.sendErrorResponse(c, msg.Action, "failed to get the game")
	}

	that.register(c, sessionID)

	if err = c.send(actionGameState, Payload{SessionID: sessionID, Game: entity.NewGameView(game)}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("session connected", "sessionID", sessionID)

	return nil
}

func (that *Server) handleCellActivate(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleCellActivate")

	if c.sessionID == "" {
		return that.sendErrorResponse(c, msg.Action, "connect first")
	}

	var payloadReq Payload
	if err := decodePayload(msg, &payloadReq); err != nil {
		return that.sendErrorResponse(c, msg.Action, "invalid payload")
	}

	if payloadReq.Cell == nil {
		return that.sendErrorResponse(c, msg.Action, "cell is required")
	}

	game, accepted, err := that.game.ApplyMove(ctx, c.sessionID, *payloadReq.Cell)
	if errors.Is(err, entity.ErrInvalidCell) {
		return that.sendErrorResponse(c, msg.Action, err.Error())
	}

	if err != nil {
		log.Error("failed to apply move", "sessionID", c.sessionID, "error", err)
		return that.sendErrorResponse(c, msg.Action, "failed to apply move")
	}

	if !accepted {
		return c.send(actionGameState, Payload{SessionID: c.sessionID, Game: entity.NewGameView(game)})
	}

	that.broadcast(c.sessionID, game)

	return nil
}

func (that *Server) handleGameRestart(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleGameRestart")

	if c.sessionID == "" {
		return that.sendErrorResponse(c, msg.Action, "connect first")
	}

	game, err := that.game.Reset(ctx, c.sessionID)
	if err != nil {
		log.Error("failed to reset game", "sessionID", c.sessionID, "error", err)
		return that.sendErrorResponse(c, msg.Action, "failed to restart the game")
	}

	that.broadcast(c.sessionID, game)

	return nil
}

// broadcast sends the game to every connection of the session.
func (that *Server) broadcast(sessionID string, game *entity.Game) {
	log := that.logger.With("method", "broadcast", "sessionID", sessionID)

	payload := Payload{SessionID: sessionID, Game: entity.NewGameView(game)}
	for _, c := range that.sessionClients(sessionID) {
		if err := c.send(actionGameState, payload); err != nil {
			log.Error("failed to send game update", "error", err)
		}
	}
}

func (that *Server) sendErrorResponse(c *client, action, errorMsg string) error {
	if err := c.send(action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func decodePayload(msg *Message, payload *Payload) error {
	if len(msg.Payload) == 0 {
		return nil
	}

	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return nil
}
