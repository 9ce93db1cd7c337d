package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-widget/internal/tictactoe"
)

var ErrInvalidCell = errors.New("invalid cell index")

// Game is the state of one board. The status is not stored; it is derived
// from Board on every read. A Game is owned by a single caller at a time.
type Game struct {
	ID       string          `json:"id"`
	Board    tictactoe.Board `json:"board"`
	Turn     tictactoe.Mark  `json:"player_turn"`
	LastMove *int            `json:"last_move,omitempty"`
}

func NewGame(id string) *Game {
	game := &Game{ID: id}
	game.Reset()

	return game
}

// ApplyMove - places the current turn's mark on index. A move on an occupied
// cell or after the game ended is ignored and reports false. An index outside
// the board is a caller error.
func (that *Game) ApplyMove(index int) (bool, error) {
	if !tictactoe.IsValid(index) {
		return false, fmt.Errorf("%w: cell %d", ErrInvalidCell, index)
	}

	if !that.Board.IsEmpty(index) || that.Status().IsTerminal() {
		return false, nil
	}

	that.Board[index] = that.Turn
	that.Turn = tictactoe.Opponent(that.Turn)
	that.LastMove = &index

	return true, nil
}

// Reset - clears the board and hands the first move to X.
func (that *Game) Reset() {
	that.Board = tictactoe.Board{}
	that.Turn = tictactoe.MarkX
	that.LastMove = nil
}

func (that *Game) Status() tictactoe.Status {
	return tictactoe.Evaluate(that.Board)
}

func (that *Game) Cells() tictactoe.Board {
	return that.Board
}

func (that *Game) CurrentTurn() tictactoe.Mark {
	return that.Turn
}

func (that *Game) LastMoveIndex() (int, bool) {
	if that.LastMove == nil {
		return 0, false
	}
	return *that.LastMove, true
}
