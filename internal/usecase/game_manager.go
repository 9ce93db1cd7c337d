package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-widget/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-widget/internal/entity"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager hosts one game per session. Every load, mutate and save cycle
// runs under a single lock, so moves are applied in the order they arrive.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo

	mu sync.Mutex
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo: gameRepo,
	}
}

// GetOrCreateGame - returns the session's game, creating an empty one on first use.
func (that *GameManager) GetOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.getOrCreateGame(ctx, sessionID)
}

// ApplyMove - activates a cell in the session's game. The returned flag is
// false when the move was ignored (occupied cell or finished game).
func (that *GameManager) ApplyMove(ctx context.Context, sessionID string, cell int) (*entity.Game, bool, error) {
	log := that.logger.With("method", "ApplyMove", "sessionID", sessionID, "cell", cell)

	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.getOrCreateGame(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	accepted, err := game.ApplyMove(cell)
	if err != nil {
		return game, false, fmt.Errorf("failed to apply move: %w", err)
	}

	if !accepted {
		log.Debug("move ignored", "status", game.Status().Phase)
		return game, false, nil
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, false, fmt.Errorf("failed to update game: %w", err)
	}

	if status := game.Status(); status.IsTerminal() {
		log.Info("game finished", "status", status.Phase, "winner", status.Winner)
	}

	return game, true, nil
}

// Reset - clears the session's game.
func (that *GameManager) Reset(ctx context.Context, sessionID string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.getOrCreateGame(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	game.Reset()

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.logger.Debug("game reset", "sessionID", sessionID)

	return game, nil
}

// EndGame - forgets the session's game.
func (that *GameManager) EndGame(ctx context.Context, sessionID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.gameRepo.DeleteByID(ctx, sessionID); err != nil && !errors.Is(err, apperror.ErrGameNotFound) {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

func (that *GameManager) getOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error) {
	if sessionID == "" {
		return nil, apperror.ErrInvalidSession
	}

	game, err := that.gameRepo.GetByID(ctx, sessionID)
	if err == nil {
		return game, nil
	}

	if !errors.Is(err, apperror.ErrGameNotFound) {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game = entity.NewGame(sessionID)
	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Debug("game created", "sessionID", sessionID)

	return game, nil
}
