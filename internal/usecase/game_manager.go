package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager owns the lifecycle of games: it creates them, serializes moves
// per game and drops them from the store once they finish or are discarded.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo

	locksMutex sync.Mutex
	locks      map[string]*sync.Mutex
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo: gameRepo,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (that *GameManager) StartGame(ctx context.Context, height, width int, color1, color2 string) (*entity.Game, error) {
	log := that.logger.With("method", "StartGame")

	game, err := connectfour.NewGame(height, width, color1, color2)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	game.ID = uuid.New().String()

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	log.Info("game started", "gameID", game.ID, "height", height, "width", width)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// MakeTurn - plays the active player's piece into col. An invalid move returns
// the unchanged game together with the error. A finished game is removed
// from the store before it is returned.
func (that *GameManager) MakeTurn(ctx context.Context, id string, col int) (*entity.Game, entity.Move, error) {
	unlock := that.lock(id)
	defer unlock()

	game, err := that.GetGame(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrGameNotFound) {
			that.forgetLock(id)
		}

		return nil, entity.Move{}, err
	}

	move, err := connectfour.ApplyMove(game, col)
	if err != nil {
		return game, entity.Move{}, fmt.Errorf("failed to make turn: %w", err)
	}

	if game.IsTerminal() {
		that.finishGame(ctx, game)

		return game, move, nil
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, entity.Move{}, fmt.Errorf("failed to update game: %w", err)
	}

	return game, move, nil
}

// RestartGame - discards game and starts a fresh one with the same board size and colors.
func (that *GameManager) RestartGame(ctx context.Context, game *entity.Game) (*entity.Game, error) {
	if err := that.DiscardGame(ctx, game.ID); err != nil && !errors.Is(err, apperror.ErrGameNotFound) {
		return nil, err
	}

	newGame, err := that.StartGame(ctx, game.Height(), game.Width(), game.Players[0].Color, game.Players[1].Color)
	if err != nil {
		return nil, fmt.Errorf("failed to restart game: %w", err)
	}

	return newGame, nil
}

func (that *GameManager) DiscardGame(ctx context.Context, id string) error {
	log := that.logger.With("method", "DiscardGame", "gameID", id)

	unlock := that.lock(id)
	defer unlock()

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to discard game: %w", err)
	}

	that.forgetLock(id)

	log.Info("game discarded")

	return nil
}

func (that *GameManager) finishGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "finishGame", "gameID", game.ID)

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil && !errors.Is(err, apperror.ErrGameNotFound) {
		log.Error("failed to delete game", "error", err)
	}

	that.forgetLock(game.ID)

	log.Info("game finished", "winner", game.Winner, "moves", game.Moves)
}

func (that *GameManager) lock(id string) func() {
	that.locksMutex.Lock()
	mu, ok := that.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		that.locks[id] = mu
	}
	that.locksMutex.Unlock()

	mu.Lock()

	return mu.Unlock
}

func (that *GameManager) forgetLock(id string) {
	that.locksMutex.Lock()
	delete(that.locks, id)
	that.locksMutex.Unlock()
}
