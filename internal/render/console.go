package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rocketscienceinc/tictactoe-widget/internal/entity"
)

const (
	keyRestart = "r"
	keyQuit    = "q"
)

// Console runs a hot-seat game over a line based terminal.
type Console struct {
	renderer *Renderer
	game     *entity.Game
}

func NewConsole(renderer *Renderer, game *entity.Game) *Console {
	return &Console{
		renderer: renderer,
		game:     game,
	}
}

// Run - reads one command per line until quit or end of input.
func (that *Console) Run(in io.Reader, out io.Writer) error {
	if err := that.draw(out); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		quit, err := that.handle(out, strings.TrimSpace(scanner.Text()))
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

func (that *Console) handle(out io.Writer, line string) (bool, error) {
	switch strings.ToLower(line) {
	case "":
		return false, nil
	case keyQuit:
		return true, nil
	case keyRestart:
		that.game.Reset()
		return false, that.draw(out)
	}

	cell, ok := that.renderer.ParseCell(line)
	if !ok {
		return false, that.hint(out, fmt.Sprintf("unknown command %q", line))
	}

	accepted, err := that.game.ApplyMove(cell)
	if errors.Is(err, entity.ErrInvalidCell) {
		return false, that.hint(out, fmt.Sprintf("no cell %s", line))
	}
	if err != nil {
		return false, fmt.Errorf("failed to apply move: %w", err)
	}

	if !accepted {
		return false, that.hint(out, "move ignored")
	}

	return false, that.draw(out)
}

func (that *Console) draw(out io.Writer) error {
	if err := that.renderer.Render(out, entity.NewGameView(that.game)); err != nil {
		return err
	}

	prompt := fmt.Sprintf("cell %s-%s, %s restart, %s quit> ",
		that.renderer.CellKey(0), that.renderer.CellKey(8), keyRestart, keyQuit)
	if _, err := io.WriteString(out, prompt); err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}

	return nil
}

func (that *Console) hint(out io.Writer, text string) error {
	if _, err := fmt.Fprintf(out, "%s\n", text); err != nil {
		return fmt.Errorf("failed to write hint: %w", err)
	}

	return nil
}
