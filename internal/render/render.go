package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-widget/internal/entity"
	"github.com/rocketscienceinc/tictactoe-widget/internal/tictactoe"
)

const (
	colorX = "205"
	colorO = "105"

	rowSeparator = "---+---+---"
)

// Renderer draws a game view as a 3x3 grid. Empty cells show the key that
// activates them.
type Renderer struct {
	out       *termenv.Output
	zeroBased bool
}

func NewRenderer(out *termenv.Output, zeroBased bool) *Renderer {
	return &Renderer{
		out:       out,
		zeroBased: zeroBased,
	}
}

// CellKey - the label typed to activate index.
func (that *Renderer) CellKey(index int) string {
	if that.zeroBased {
		return strconv.Itoa(index)
	}
	return strconv.Itoa(index + 1)
}

// ParseCell - inverse of CellKey. ok is false for anything that is not a number.
func (that *Renderer) ParseCell(key string) (int, bool) {
	n, err := strconv.Atoi(key)
	if err != nil {
		return 0, false
	}

	if that.zeroBased {
		return n, true
	}
	return n - 1, true
}

func (that *Renderer) Render(w io.Writer, view *entity.GameView) error {
	var b strings.Builder

	for row := 0; row < 3; row++ {
		if row > 0 {
			b.WriteString(rowSeparator + "\n")
		}

		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			index := row*3 + col
			cells[col] = " " + that.cell(view, index) + " "
		}
		b.WriteString(strings.Join(cells, "|") + "\n")
	}

	b.WriteString("\n" + that.status(view) + "\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write board: %w", err)
	}

	return nil
}

func (that *Renderer) cell(view *entity.GameView, index int) string {
	mark := view.Board[index]
	if mark == tictactoe.Empty {
		return that.out.String(that.CellKey(index)).Faint().String()
	}

	style := that.out.String(string(mark)).Foreground(that.out.Color(markColor(mark)))
	if view.InLine(index) {
		style = style.Bold().Reverse()
	}
	if view.IsLastMove(index) {
		style = style.Underline()
	}

	return style.String()
}

func (that *Renderer) status(view *entity.GameView) string {
	style := that.out.String(view.Text).Bold()
	if view.Winner != tictactoe.Empty {
		style = style.Foreground(that.out.Color(markColor(view.Winner)))
	}

	return style.String()
}

func markColor(mark tictactoe.Mark) string {
	if mark == tictactoe.MarkX {
		return colorX
	}
	return colorO
}
