package connectfour

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const lineLength = 4

// directions are the four line orientations through a cell: horizontal,
// vertical, diagonal down-right and diagonal down-left.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// NewGame - creates a game with an empty height x width board and player one to move.
func NewGame(height, width int, color1, color2 string) (*entity.Game, error) {
	if height < 1 || width < 1 {
		return nil, fmt.Errorf("%w: board size %dx%d must be positive", apperror.ErrConfiguration, height, width)
	}

	color1, color2 = strings.TrimSpace(color1), strings.TrimSpace(color2)
	if color1 == "" || color2 == "" {
		return nil, fmt.Errorf("%w: player colors must not be empty", apperror.ErrConfiguration)
	}

	if strings.EqualFold(color1, color2) {
		return nil, fmt.Errorf("%w: players share the color %q", apperror.ErrConfiguration, color1)
	}

	return &entity.Game{
		Board: entity.NewBoard(height, width),
		Players: [2]entity.Player{
			{Mark: entity.MarkPlayerOne, Color: color1},
			{Mark: entity.MarkPlayerTwo, Color: color2},
		},
		Turn:   entity.MarkPlayerOne,
		Status: entity.StatusOngoing,
		Winner: entity.EmptyCell,
	}, nil
}

// FindLandingRow - returns the lowest empty row of the column, or false when
// the column is full or out of range.
func FindLandingRow(game *entity.Game, col int) (int, bool) {
	if col < 0 || col >= game.Width() {
		return 0, false
	}

	for row := game.Height() - 1; row >= 0; row-- {
		if game.Board[row][col] == entity.EmptyCell {
			return row, true
		}
	}

	return 0, false
}

// ApplyMove - drops the active player's piece into the column. On error the game is left untouched.
func ApplyMove(game *entity.Game, col int) (entity.Move, error) {
	row, err := validateMove(game, col)
	if err != nil {
		return entity.Move{}, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	move := entity.Move{Row: row, Column: col, Mark: game.Turn}

	game.Board[row][col] = move.Mark
	game.Moves++
	game.LastMove = &move

	updateGameStatus(game, move)

	return move, nil
}

// validateMove - checks the move is legal and returns its landing row.
func validateMove(game *entity.Game, col int) (int, error) {
	if game.IsTerminal() {
		return 0, apperror.ErrGameFinished
	}

	if col < 0 || col >= game.Width() {
		return 0, fmt.Errorf("%w: column %d", apperror.ErrColumnOutOfRange, col)
	}

	row, ok := FindLandingRow(game, col)
	if !ok {
		return 0, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, col)
	}

	return row, nil
}

// updateGameStatus - a win is checked before a full board, so a winning last piece is not a tie.
func updateGameStatus(game *entity.Game, move entity.Move) {
	switch {
	case checkWin(game.Board, move.Row, move.Column, move.Mark):
		game.Winner = move.Mark
		game.Status = entity.StatusFinished
	case game.Board.IsFull():
		game.Winner = entity.MarkTie
		game.Status = entity.StatusFinished
	default:
		game.Turn = move.Mark.Opponent()
	}
}

// checkWin reports whether any four-cell window through (row, col) is owned by mark.
func checkWin(board entity.Board, row, col int, mark entity.Mark) bool {
	for _, dir := range directions {
		for offset := -(lineLength - 1); offset <= 0; offset++ {
			if isLine(board, row+offset*dir[0], col+offset*dir[1], dir, mark) {
				return true
			}
		}
	}

	return false
}

func isLine(board entity.Board, row, col int, dir [2]int, mark entity.Mark) bool {
	for step := 0; step < lineLength; step++ {
		r, c := row+step*dir[0], col+step*dir[1]
		if !board.InBounds(r, c) || board[r][c] != mark {
			return false
		}
	}

	return true
}
