package apperror

import "errors"

var (
	ErrInvalidMove      = errors.New("invalid move")
	ErrNoMovesAvailable = errors.New("no moves available")
	ErrInvalidBoard     = errors.New("invalid board")

	ErrGameFinished    = errors.New("game is already finished")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrGameNotFound    = errors.New("game not found")
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrUnknownMode     = errors.New("unknown game mode")
)
