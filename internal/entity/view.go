package entity

import "github.com/rocketscienceinc/tictactoe-widget/internal/tictactoe"

// GameView is the read model handed to renderers.
type GameView struct {
	ID          string          `json:"id"`
	Board       tictactoe.Board `json:"board"`
	Turn        tictactoe.Mark  `json:"player_turn"`
	Status      tictactoe.Phase `json:"status"`
	Winner      tictactoe.Mark  `json:"winner,omitempty"`
	WinningLine *tictactoe.Line `json:"winning_line,omitempty"`
	LastMove    *int            `json:"last_move,omitempty"`
	Text        string          `json:"text"`
}

func NewGameView(game *Game) *GameView {
	status := game.Status()

	view := &GameView{
		ID:     game.ID,
		Board:  game.Cells(),
		Turn:   game.CurrentTurn(),
		Status: status.Phase,
		Text:   status.Text(game.CurrentTurn()),
	}

	if status.IsWon() {
		line := status.Line
		view.Winner = status.Winner
		view.WinningLine = &line
	}

	if last, ok := game.LastMoveIndex(); ok {
		view.LastMove = &last
	}

	return view
}

// InLine reports whether index is part of the winning line.
func (that *GameView) InLine(index int) bool {
	if that.WinningLine == nil {
		return false
	}
	for _, i := range that.WinningLine {
		if i == index {
			return true
		}
	}
	return false
}

func (that *GameView) IsLastMove(index int) bool {
	return that.LastMove != nil && *that.LastMove == index
}

func (that *GameView) IsOver() bool {
	return that.Status != tictactoe.PhaseInProgress
}
