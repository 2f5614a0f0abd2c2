package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const helpText = `Commands:
  1..N      drop a piece into column N
  restart   start a new game with the same settings
  help      show this help
  quit      leave the game
`

// LineReader is satisfied by *readline.Instance.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

type gameManager interface {
	StartGame(ctx context.Context, height, width int, color1, color2 string) (*entity.Game, error)
	MakeTurn(ctx context.Context, id string, col int) (*entity.Game, entity.Move, error)
	RestartGame(ctx context.Context, game *entity.Game) (*entity.Game, error)
	DiscardGame(ctx context.Context, id string) error
}

// Settings describe the game the handler starts.
type Settings struct {
	Height   int
	Width    int
	OneColor string
	TwoColor string
}

type Handler struct {
	logger  *slog.Logger
	manager gameManager
	reader  LineReader
	out     io.Writer

	game *entity.Game
}

func New(logger *slog.Logger, manager gameManager, reader LineReader, out io.Writer) *Handler {
	return &Handler{
		logger:  logger.With("component", "cli"),
		manager: manager,
		reader:  reader,
		out:     out,
	}
}

// Run - plays games until the user quits, input ends or ctx is canceled.
func (that *Handler) Run(ctx context.Context, settings Settings) error {
	game, err := that.manager.StartGame(ctx, settings.Height, settings.Width, settings.OneColor, settings.TwoColor)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	that.game = game

	defer that.discard(ctx)

	that.printf("Connect Four on a %dx%d board. Type 'help' for commands.\n", game.Height(), game.Width())
	renderBoard(that.out, that.game)

	for ctx.Err() == nil {
		that.reader.SetPrompt(that.prompt())

		line, err := that.reader.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		quit, err := that.processCommand(ctx, strings.TrimSpace(line))
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}

	return nil
}

// processCommand - handles one input line; returns true when the user wants to leave.
func (that *Handler) processCommand(ctx context.Context, line string) (bool, error) {
	switch strings.ToLower(line) {
	case "":
		return false, nil
	case "q", "quit", "exit":
		return true, nil
	case "h", "help":
		that.printf("%s", helpText)
		return false, nil
	case "r", "restart":
		return false, that.restart(ctx)
	}

	col, err := strconv.Atoi(line)
	if err != nil {
		that.printf("Unknown command %q. Type 'help' for commands.\n", line)
		return false, nil
	}

	return false, that.play(ctx, col-1)
}

func (that *Handler) play(ctx context.Context, col int) error {
	log := that.logger.With("method", "play", "gameID", that.game.ID)

	if that.game.IsTerminal() {
		that.printf("The game is over. Type 'restart' to play again.\n")
		return nil
	}

	game, move, err := that.manager.MakeTurn(ctx, that.game.ID, col)
	switch {
	case errors.Is(err, apperror.ErrColumnOutOfRange):
		that.printf("Pick a column between 1 and %d.\n", that.game.Width())
		return nil
	case errors.Is(err, apperror.ErrColumnFull):
		that.printf("Column %d is full.\n", col+1)
		return nil
	case errors.Is(err, apperror.ErrInvalidMove):
		that.printf("That move is not allowed.\n")
		return nil
	case err != nil:
		return fmt.Errorf("failed to play column %d: %w", col+1, err)
	}

	log.Debug("piece dropped", "row", move.Row, "column", move.Column, "mark", move.Mark)

	that.game = game
	renderBoard(that.out, that.game)

	if msg := resultMessage(that.game); msg != "" {
		that.printf("%s\n", msg)
	}

	return nil
}

func (that *Handler) restart(ctx context.Context) error {
	game, err := that.manager.RestartGame(ctx, that.game)
	if err != nil {
		return fmt.Errorf("failed to restart game: %w", err)
	}

	that.game = game
	that.printf("New game.\n")
	renderBoard(that.out, that.game)

	return nil
}

// discard drops an unfinished game so nothing outlives the session.
func (that *Handler) discard(ctx context.Context) {
	if that.game == nil || that.game.IsTerminal() {
		return
	}

	if err := that.manager.DiscardGame(context.WithoutCancel(ctx), that.game.ID); err != nil {
		that.logger.Error("failed to discard game", "gameID", that.game.ID, "error", err)
	}
}

func (that *Handler) prompt() string {
	if that.game.IsTerminal() {
		return "> "
	}

	return playerLabel(that.game.ActivePlayer()) + " > "
}

func (that *Handler) printf(format string, args ...any) {
	fmt.Fprintf(that.out, format, args...)
}
