package ai

import (
	"math/rand/v2"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

// RandomMove picks uniformly among the empty cells.
func RandomMove(board tictactoe.Board, rng *rand.Rand) (Move, error) {
	cells := board.EmptyCells()
	if len(cells) == 0 {
		return Move{}, apperror.ErrNoMovesAvailable
	}

	var n int
	if rng == nil {
		n = rand.IntN(len(cells)) //nolint: gosec // it's ok
	} else {
		n = rng.IntN(len(cells))
	}

	return Move{Row: cells[n][0], Col: cells[n][1]}, nil
}
