package apperror

import "errors"

var (
	ErrConfiguration = errors.New("invalid game configuration")
	ErrInvalidMove   = errors.New("invalid move")

	ErrGameFinished     = errors.New("game is already finished")
	ErrColumnOutOfRange = errors.New("column is out of range")
	ErrColumnFull       = errors.New("column is full")

	ErrGameNotFound = errors.New("game not found")
)
