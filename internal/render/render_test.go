package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-widget/internal/entity"
	"github.com/rocketscienceinc/tictactoe-widget/internal/tictactoe"
)

func newPlainRenderer(buf *bytes.Buffer, zeroBased bool) *Renderer {
	return NewRenderer(termenv.NewOutput(buf, termenv.WithProfile(termenv.Ascii)), zeroBased)
}

func TestRenderer_Render(t *testing.T) {
	t.Run("Empty cells show their keys", func(t *testing.T) {
		// Given: a new game
		var buf bytes.Buffer
		renderer := newPlainRenderer(&buf, false)

		// When: the board is rendered
		err := renderer.Render(&buf, entity.NewGameView(entity.NewGame("t")))

		// Then: cells are numbered 1-9 and X is to move
		require.NoError(t, err)
		expected := " 1 | 2 | 3 \n" +
			"---+---+---\n" +
			" 4 | 5 | 6 \n" +
			"---+---+---\n" +
			" 7 | 8 | 9 \n" +
			"\n" +
			"Player X's turn\n"
		assert.Equal(t, expected, buf.String())
	})

	t.Run("Marks and result", func(t *testing.T) {
		// Given: X has won the top row
		game := entity.NewGame("t")
		for _, cell := range []int{0, 3, 1, 4, 2} {
			_, err := game.ApplyMove(cell)
			require.NoError(t, err)
		}

		var buf bytes.Buffer
		renderer := newPlainRenderer(&buf, true)

		// When: the board is rendered
		require.NoError(t, renderer.Render(&buf, entity.NewGameView(game)))

		// Then: marks replace keys and the winner is announced
		lines := strings.Split(buf.String(), "\n")
		assert.Equal(t, " X | X | X ", lines[0])
		assert.Equal(t, " O | O | 5 ", lines[2])
		assert.Equal(t, " 6 | 7 | 8 ", lines[4])
		assert.Equal(t, "Player X wins!", lines[6])
	})
}

func TestRenderer_ParseCell(t *testing.T) {
	var buf bytes.Buffer

	oneBased := newPlainRenderer(&buf, false)
	cell, ok := oneBased.ParseCell("1")
	assert.True(t, ok)
	assert.Equal(t, 0, cell)
	assert.Equal(t, "9", oneBased.CellKey(8))

	zeroBased := newPlainRenderer(&buf, true)
	cell, ok = zeroBased.ParseCell("8")
	assert.True(t, ok)
	assert.Equal(t, 8, cell)

	_, ok = zeroBased.ParseCell("x")
	assert.False(t, ok)
}

func TestConsole_Run(t *testing.T) {
	t.Run("Plays to a draw, restarts and quits", func(t *testing.T) {
		// Given: a console reading a scripted session
		var out bytes.Buffer
		game := entity.NewGame("t")
		console := NewConsole(newPlainRenderer(&out, false), game)
		input := strings.Join([]string{"1", "2", "3", "5", "4", "6", "8", "7", "9", "5", "r", "5", "q", "1"}, "\n")

		// When: the session runs
		err := console.Run(strings.NewReader(input), &out)

		// Then: the draw is shown, the extra move is ignored and play resumes after restart
		require.NoError(t, err)
		assert.Contains(t, out.String(), "It's a draw!")
		assert.Contains(t, out.String(), "move ignored")
		assert.Equal(t, tictactoe.MarkX, game.Board[4])
		assert.Equal(t, 1, game.Board.Count(tictactoe.MarkX)+game.Board.Count(tictactoe.MarkO))
	})

	t.Run("Bad input is reported", func(t *testing.T) {
		var out bytes.Buffer
		console := NewConsole(newPlainRenderer(&out, false), entity.NewGame("t"))

		err := console.Run(strings.NewReader("hello\n10\n"), &out)

		require.NoError(t, err)
		assert.Contains(t, out.String(), `unknown command "hello"`)
		assert.Contains(t, out.String(), "no cell 10")
	})
}
