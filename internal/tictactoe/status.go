package tictactoe

type Phase string

const (
	PhaseInProgress Phase = "in_progress"
	PhaseWon        Phase = "won"
	PhaseDraw       Phase = "draw"
)

// Status is one of InProgress, Won(winner, line) or Draw.
// Winner and Line are zero unless Phase is PhaseWon.
type Status struct {
	Phase  Phase
	Winner Mark
	Line   Line
}

func InProgress() Status {
	return Status{Phase: PhaseInProgress}
}

func Won(winner Mark, line Line) Status {
	return Status{Phase: PhaseWon, Winner: winner, Line: line}
}

func Draw() Status {
	return Status{Phase: PhaseDraw}
}

func (that Status) IsInProgress() bool {
	return that.Phase == PhaseInProgress
}

func (that Status) IsWon() bool {
	return that.Phase == PhaseWon
}

func (that Status) IsDraw() bool {
	return that.Phase == PhaseDraw
}

// IsTerminal reports whether the game accepts no further moves.
func (that Status) IsTerminal() bool {
	return !that.IsInProgress()
}

// InLine reports whether index is part of the winning line.
func (that Status) InLine(index int) bool {
	if !that.IsWon() {
		return false
	}
	for _, i := range that.Line {
		if i == index {
			return true
		}
	}
	return false
}

// Text - human readable status line.
func (that Status) Text(turn Mark) string {
	switch that.Phase {
	case PhaseWon:
		return "Player " + string(that.Winner) + " wins!"
	case PhaseDraw:
		return "It's a draw!"
	default:
		return "Player " + string(turn) + "'s turn"
	}
}
