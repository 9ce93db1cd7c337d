package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-widget/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-widget/internal/config"
	"github.com/rocketscienceinc/tictactoe-widget/internal/repository"
	"github.com/rocketscienceinc/tictactoe-widget/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-widget/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-widget/transport/rest"
	"github.com/rocketscienceinc/tictactoe-widget/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	gameRepo, closeStorage, err := newGameRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeStorage(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	gameManager := usecase.NewGameManager(logger, gameRepo)
	restServer := rest.New(logger, gameManager, conf.SessionTTL)
	wsServer := websocket.New(logger, gameManager, conf.AllowedOrigins)

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	log.Info("Starting WebSocket server", "port", conf.SocketPort)

	// storage is closed by the deferred call only after both servers returned
	return runServers(ctx, log,
		namedServer{name: "HTTP", start: func(ctx context.Context) error {
			return restServer.Start(ctx, conf.HTTPPort)
		}},
		namedServer{name: "WebSocket", start: func(ctx context.Context) error {
			return wsServer.Start(ctx, conf.SocketPort)
		}},
	)
}

type namedServer struct {
	name  string
	start func(ctx context.Context) error
}

// runServers - runs every server until ctx is canceled or one of them fails,
// then stops the rest and waits for all of them to return.
func runServers(ctx context.Context, log *slog.Logger, servers ...namedServer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, len(servers))

	for _, server := range servers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := server.start(ctx); err != nil {
				log.Error(server.name+" server error", "error", err)
				errCh <- fmt.Errorf("%s server error: %w", server.name, err)
			}
		}()
	}

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	cancel()
	wg.Wait()

	return err
}

// newGameRepository - picks the session store named in the config.
func newGameRepository(ctx context.Context, conf *config.Config) (repository.GameRepository, func() error, error) {
	switch conf.Storage {
	case config.StorageMemory:
		return repository.NewMemoryGameRepository(conf.SessionTTL), func() error { return nil }, nil
	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewGameRepository(redisStorage, conf.SessionTTL), redisStorage.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", apperror.ErrUnknownStorage, conf.Storage)
	}
}
