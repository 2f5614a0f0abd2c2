package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/chzyer/readline"

	"github.com/rocketscienceinc/connectfour-backend/internal/config"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository/storage"
	"github.com/rocketscienceinc/connectfour-backend/internal/usecase"
	"github.com/rocketscienceinc/connectfour-backend/transport/cli"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gameRepo, closeStorage, err := newGameRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeStorage()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("could not open terminal: %w", err)
	}
	closeTerminal := sync.OnceFunc(func() { _ = rl.Close() })
	defer closeTerminal()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
			closeTerminal()
		case <-ctx.Done():
		}
	}()

	gameManager := usecase.NewGameManager(logger, gameRepo)
	handler := cli.New(logger, gameManager, rl, rl.Stdout())

	settings := cli.Settings{
		Height:   conf.Board.Height,
		Width:    conf.Board.Width,
		OneColor: conf.Players.OneColor,
		TwoColor: conf.Players.TwoColor,
	}

	log.Info("Starting game shell", "storage", conf.Storage)
	if err = handler.Run(ctx, settings); err != nil {
		return fmt.Errorf("game shell error: %w", err)
	}

	return nil
}

func newGameRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.GameRepository, func(), error) {
	if conf.Storage != config.StorageRedis {
		return repository.NewMemoryGameRepository(), func() {}, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStorage := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewGameRepository(redisStorage.Connection), closeStorage, nil
}
