package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository"
)

var errRedisDown = errors.New("redis down")

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T) (*GameManager, repository.GameRepository) {
	t.Helper()

	gameRepo := repository.NewMemoryGameRepository()

	return NewGameManager(newTestLogger(), gameRepo), gameRepo
}

func TestGameManager_StartGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates and stores a new game", func(t *testing.T) {
		manager, gameRepo := newTestManager(t)

		// When: a game is started
		game, err := manager.StartGame(ctx, 6, 7, "red", "yellow")
		require.NoError(t, err)

		// Then: it has a uuid and is stored
		_, err = uuid.Parse(game.ID)
		require.NoError(t, err)

		stored, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, game, stored)
	})

	t.Run("Returns configuration errors", func(t *testing.T) {
		manager, _ := newTestManager(t)

		_, err := manager.StartGame(ctx, 0, 7, "red", "yellow")
		require.ErrorIs(t, err, apperror.ErrConfiguration)

		_, err = manager.StartGame(ctx, 6, 7, "red", "red")
		require.ErrorIs(t, err, apperror.ErrConfiguration)
	})

	t.Run("Returns storage errors", func(t *testing.T) {
		gameRepo := &mockGameRepo{}
		gameRepo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(errRedisDown)
		manager := NewGameManager(newTestLogger(), gameRepo)

		_, err := manager.StartGame(ctx, 6, 7, "red", "yellow")

		require.ErrorIs(t, err, errRedisDown)
		gameRepo.AssertExpectations(t)
	})
}

func TestGameManager_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies the move and stores the game", func(t *testing.T) {
		manager, gameRepo := newTestManager(t)
		game, err := manager.StartGame(ctx, 6, 7, "red", "yellow")
		require.NoError(t, err)

		// When: player one plays column 3
		updated, move, err := manager.MakeTurn(ctx, game.ID, 3)
		require.NoError(t, err)

		// Then: the move is returned and persisted
		assert.Equal(t, entity.Move{Row: 5, Column: 3, Mark: entity.MarkPlayerOne}, move)
		assert.Equal(t, entity.MarkPlayerTwo, updated.Turn)

		stored, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("Invalid move leaves the stored game unchanged", func(t *testing.T) {
		manager, gameRepo := newTestManager(t)
		game, err := manager.StartGame(ctx, 6, 7, "red", "yellow")
		require.NoError(t, err)

		// When: an out of range column is played
		returned, _, err := manager.MakeTurn(ctx, game.ID, 7)

		// Then: the move is rejected and nothing changed
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		assert.Equal(t, game, returned)

		stored, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, game, stored)
	})

	t.Run("Finished game is returned and removed from the store", func(t *testing.T) {
		manager, gameRepo := newTestManager(t)
		game, err := manager.StartGame(ctx, 6, 7, "red", "yellow")
		require.NoError(t, err)

		for _, col := range []int{0, 6, 0, 6, 0, 6} {
			_, _, err = manager.MakeTurn(ctx, game.ID, col)
			require.NoError(t, err)
		}

		// When: player one completes the vertical line
		finished, move, err := manager.MakeTurn(ctx, game.ID, 0)
		require.NoError(t, err)

		// Then: the winner is reported and the game is gone
		assert.Equal(t, 2, move.Row)
		assert.True(t, finished.IsTerminal())
		assert.Equal(t, entity.MarkPlayerOne, finished.Winner)

		_, err = gameRepo.GetByID(ctx, game.ID)
		require.ErrorIs(t, err, apperror.ErrGameNotFound)

		_, _, err = manager.MakeTurn(ctx, game.ID, 1)
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Unknown game", func(t *testing.T) {
		manager, _ := newTestManager(t)

		_, _, err := manager.MakeTurn(ctx, "missing", 0)

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Storage failure on update", func(t *testing.T) {
		game := &entity.Game{
			ID:      "123",
			Board:   entity.NewBoard(6, 7),
			Players: [2]entity.Player{{Mark: entity.MarkPlayerOne, Color: "red"}, {Mark: entity.MarkPlayerTwo, Color: "yellow"}},
			Turn:    entity.MarkPlayerOne,
			Status:  entity.StatusOngoing,
		}

		gameRepo := &mockGameRepo{}
		gameRepo.On("GetByID", mock.Anything, "123").Return(game, nil)
		gameRepo.On("CreateOrUpdate", mock.Anything, game).Return(errRedisDown)
		manager := NewGameManager(newTestLogger(), gameRepo)

		_, _, err := manager.MakeTurn(ctx, "123", 0)

		require.ErrorIs(t, err, errRedisDown)
		gameRepo.AssertExpectations(t)
	})

	t.Run("Concurrent moves on one game are serialized", func(t *testing.T) {
		manager, _ := newTestManager(t)
		game, err := manager.StartGame(ctx, 6, 7, "red", "yellow")
		require.NoError(t, err)

		// When: ten callers race to play the same column
		const callers = 10

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
			full      int
		)

		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				_, _, err := manager.MakeTurn(ctx, game.ID, 0)

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, apperror.ErrColumnFull):
					full++
				}
			}()
		}
		wg.Wait()

		// Then: exactly one column's worth of moves landed
		assert.Equal(t, 6, succeeded)
		assert.Equal(t, callers-6, full)

		stored, err := manager.GetGame(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, 6, stored.Moves)
		for row := 0; row < 6; row++ {
			assert.NotEqual(t, entity.EmptyCell, stored.Board[row][0])
		}
	})
}

func TestGameManager_RestartGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Replaces an ongoing game", func(t *testing.T) {
		manager, gameRepo := newTestManager(t)
		game, err := manager.StartGame(ctx, 5, 8, "blue", "green")
		require.NoError(t, err)
		game, _, err = manager.MakeTurn(ctx, game.ID, 2)
		require.NoError(t, err)

		// When: the game is restarted
		restarted, err := manager.RestartGame(ctx, game)
		require.NoError(t, err)

		// Then: a fresh game with the same setup replaces it
		assert.NotEqual(t, game.ID, restarted.ID)
		assert.Equal(t, 5, restarted.Height())
		assert.Equal(t, 8, restarted.Width())
		assert.Equal(t, game.Players, restarted.Players)
		assert.Equal(t, 0, restarted.Moves)

		_, err = gameRepo.GetByID(ctx, game.ID)
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Works after the game already finished", func(t *testing.T) {
		manager, _ := newTestManager(t)
		game, err := manager.StartGame(ctx, 1, 4, "red", "yellow")
		require.NoError(t, err)

		for _, col := range []int{0, 1, 2, 3} {
			game, _, err = manager.MakeTurn(ctx, game.ID, col)
			require.NoError(t, err)
		}
		require.True(t, game.IsTie())

		restarted, err := manager.RestartGame(ctx, game)

		require.NoError(t, err)
		assert.False(t, restarted.IsTerminal())
	})
}

func TestGameManager_DiscardGame(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	game, err := manager.StartGame(ctx, 6, 7, "red", "yellow")
	require.NoError(t, err)

	require.NoError(t, manager.DiscardGame(ctx, game.ID))

	_, err = manager.GetGame(ctx, game.ID)
	require.ErrorIs(t, err, apperror.ErrGameNotFound)

	err = manager.DiscardGame(ctx, game.ID)
	require.ErrorIs(t, err, apperror.ErrGameNotFound)
}
