package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-widget/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-widget/internal/entity"
)

type memoryRecord struct {
	game      entity.Game
	expiresAt time.Time
}

type memoryGame struct {
	mu    sync.Mutex
	games map[string]memoryRecord
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryGameRepository - keeps games in process memory. Reads and writes
// both push the expiry forward; expired games are dropped lazily on read and
// a zero ttl keeps games forever.
func NewMemoryGameRepository(ttl time.Duration) GameRepository {
	return &memoryGame{
		games: make(map[string]memoryRecord),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	record := memoryRecord{game: copyGame(game)}
	if that.ttl > 0 {
		record.expiresAt = that.now().Add(that.ttl)
	}

	that.games[game.ID] = record

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	record, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	if !record.expiresAt.IsZero() && that.now().After(record.expiresAt) {
		delete(that.games, id)
		return nil, apperror.ErrGameNotFound
	}

	if that.ttl > 0 {
		record.expiresAt = that.now().Add(that.ttl)
		that.games[id] = record
	}

	game := copyGame(&record.game)

	return &game, nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return apperror.ErrGameNotFound
	}

	delete(that.games, id)

	return nil
}

// copyGame detaches LastMove so stored games never alias the caller's.
func copyGame(game *entity.Game) entity.Game {
	stored := *game
	if game.LastMove != nil {
		last := *game.LastMove
		stored.LastMove = &last
	}
	return stored
}
