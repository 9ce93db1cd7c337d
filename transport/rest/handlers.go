package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-widget/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-widget/internal/entity"
)

var errBadCellIndex = errors.New("cell index is not a number")

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

func (that *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	sessionID := that.session(w, r)

	game, err := that.game.GetOrCreateGame(r.Context(), sessionID)
	if err != nil {
		that.writeError(w, "handleWidget", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err = renderWidget(w, entity.NewGameView(game)); err != nil {
		that.logger.Error("failed to render widget", "error", err)
	}
}

func (that *Server) handleWidgetMove(w http.ResponseWriter, r *http.Request) {
	sessionID := that.session(w, r)

	cell, err := cellIndex(r)
	if err != nil {
		that.writeError(w, "handleWidgetMove", err)
		return
	}

	if _, _, err = that.game.ApplyMove(r.Context(), sessionID, cell); err != nil {
		that.writeError(w, "handleWidgetMove", err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (that *Server) handleWidgetRestart(w http.ResponseWriter, r *http.Request) {
	sessionID := that.session(w, r)

	if _, err := that.game.Reset(r.Context(), sessionID); err != nil {
		that.writeError(w, "handleWidgetRestart", err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sessionID := that.session(w, r)

	game, err := that.game.GetOrCreateGame(r.Context(), sessionID)
	if err != nil {
		that.writeError(w, "handleGetGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, entity.NewGameView(game))
}

func (that *Server) handleApplyMove(w http.ResponseWriter, r *http.Request) {
	sessionID := that.session(w, r)

	cell, err := cellIndex(r)
	if err != nil {
		that.writeError(w, "handleApplyMove", err)
		return
	}

	game, _, err := that.game.ApplyMove(r.Context(), sessionID, cell)
	if err != nil {
		that.writeError(w, "handleApplyMove", err)
		return
	}

	that.writeJSON(w, http.StatusOK, entity.NewGameView(game))
}

func (that *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sessionID := that.session(w, r)

	game, err := that.game.Reset(r.Context(), sessionID)
	if err != nil {
		that.writeError(w, "handleRestart", err)
		return
	}

	that.writeJSON(w, http.StatusOK, entity.NewGameView(game))
}

func (that *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	sessionID := that.session(w, r)

	if err := that.game.EndGame(r.Context(), sessionID); err != nil {
		that.writeError(w, "handleEndGame", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func cellIndex(r *http.Request) (int, error) {
	raw := r.PathValue("index")

	cell, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadCellIndex, raw)
	}

	return cell, nil
}

func (that *Server) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps caller mistakes to 400 and everything else to 500.
func (that *Server) writeError(w http.ResponseWriter, method string, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, entity.ErrInvalidCell) || errors.Is(err, errBadCellIndex) || errors.Is(err, apperror.ErrInvalidSession) {
		code = http.StatusBadRequest
	}

	if code == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
	} else {
		that.logger.Debug("bad request", "method", method, "error", err)
	}

	that.writeJSON(w, code, map[string]string{"error": err.Error()})
}
