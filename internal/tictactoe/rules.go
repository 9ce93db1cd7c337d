package tictactoe

// Mark is the content of a single cell.
type Mark string

const (
	Empty Mark = ""
	MarkX Mark = "X"
	MarkO Mark = "O"
)

// CellCount is the number of cells on the board.
const CellCount = 9

// Board holds nine cells in row-major order: row = index / 3, column = index % 3.
type Board [CellCount]Mark

// Line is an ordered triple of cell indices.
type Line [3]int

// WinLines - lines checked by Evaluate, in priority order.
var WinLines = [8]Line{
	// rows
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	// columns
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	// diagonals
	{0, 4, 8},
	{2, 4, 6},
}

// Opponent returns the mark that moves after m.
func Opponent(m Mark) Mark {
	if m == MarkX {
		return MarkO
	}
	return MarkX
}

// IsValid reports whether index addresses a cell.
func IsValid(index int) bool {
	return index >= 0 && index < CellCount
}

func (that Board) IsEmpty(index int) bool {
	return that[index] == Empty
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}
	return true
}

func (that Board) Count(m Mark) int {
	n := 0
	for _, cell := range that {
		if cell == m {
			n++
		}
	}
	return n
}

// Evaluate - derives the status of the board. The first complete line in
// WinLines order wins; a full board without one is a draw.
func Evaluate(board Board) Status {
	for _, line := range WinLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != Empty && a == b && b == c {
			return Won(a, line)
		}
	}

	if board.IsFull() {
		return Draw()
	}

	return InProgress()
}
