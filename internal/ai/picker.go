package ai

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type Strategy string

const (
	StrategyMinimax Strategy = "minimax"
	StrategyRandom  Strategy = "random"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyMinimax, "hard", "":
		return StrategyMinimax, nil
	case StrategyRandom, "easy":
		return StrategyRandom, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownStrategy, s)
	}
}

// Picker selects moves with a fixed strategy.
type Picker struct {
	strategy Strategy

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker builds a picker. rng may be nil, in which case the global source is used.
func NewPicker(strategy Strategy, rng *rand.Rand) *Picker {
	return &Picker{
		strategy: strategy,
		rng:      rng,
	}
}

func (that *Picker) Strategy() Strategy {
	return that.strategy
}

func (that *Picker) PickMove(board tictactoe.Board, player tictactoe.Player) (Move, error) {
	switch that.strategy {
	case StrategyMinimax:
		return BestMove(board, player)
	case StrategyRandom:
		// *rand.Rand is not safe for concurrent use
		that.mu.Lock()
		defer that.mu.Unlock()

		return RandomMove(board, that.rng)
	default:
		return Move{}, fmt.Errorf("%w: %q", apperror.ErrUnknownStrategy, that.strategy)
	}
}
