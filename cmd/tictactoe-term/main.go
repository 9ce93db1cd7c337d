package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-widget/internal/entity"
	"github.com/rocketscienceinc/tictactoe-widget/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-widget/internal/render"
)

// main - runs a hot-seat game in the terminal.
func main() {
	zeroBased := flag.Bool("zero", false, "address cells 0-8 instead of 1-9")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	output := termenv.NewOutput(os.Stdout)
	restore, err := termenv.EnableVirtualTerminalProcessing(output)
	if err != nil {
		logger.Warn("could not enable terminal colors", "error", err)
		restore = func() error { return nil }
	}

	console := render.NewConsole(render.NewRenderer(output, *zeroBased), entity.NewGame(pkg.GenerateNewSessionID()))
	runErr := console.Run(os.Stdin, output)

	if err = restore(); err != nil {
		logger.Warn("could not restore terminal", "error", err)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "tictactoe: %v\n", runErr)
		os.Exit(1)
	}
}
