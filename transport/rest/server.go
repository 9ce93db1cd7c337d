package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-widget/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	GetOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error)
	ApplyMove(ctx context.Context, sessionID string, cell int) (*entity.Game, bool, error)
	Reset(ctx context.Context, sessionID string) (*entity.Game, error)
	EndGame(ctx context.Context, sessionID string) error
}

// Server serves the board widget and its JSON API.
type Server struct {
	logger     *slog.Logger
	game       gameUseCase
	sessionTTL time.Duration
}

func New(logger *slog.Logger, game gameUseCase, sessionTTL time.Duration) *Server {
	return &Server{
		logger:     logger.With("component", "rest"),
		game:       game,
		sessionTTL: sessionTTL,
	}
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", that.handlePing)

	mux.HandleFunc("GET /{$}", that.handleWidget)
	mux.HandleFunc("POST /cells/{index}", that.handleWidgetMove)
	mux.HandleFunc("POST /restart", that.handleWidgetRestart)

	mux.HandleFunc("GET /api/game", that.handleGetGame)
	mux.HandleFunc("POST /api/game/cells/{index}", that.handleApplyMove)
	mux.HandleFunc("POST /api/game/restart", that.handleRestart)
	mux.HandleFunc("DELETE /api/game", that.handleEndGame)

	return mux
}

// Start - runs the HTTP server until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	return that.Serve(ctx, ln)
}

// Serve - serves on ln and returns once the shutdown triggered by ctx has
// drained in-flight requests.
func (that *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	<-shutdownDone

	return nil
}
