package ai

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const (
	winScore = 10
	infinity = 1 << 10
)

// Move is a (row, col) coordinate on the board.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Result describes a finished search.
type Result struct {
	Move  Move
	Score int
	Nodes int
}

// moveOrder is center first, then corners, then edges. Among equally scored moves the
// first one in this order wins.
var moveOrder = [9]Move{
	{1, 1},
	{0, 0}, {0, 2}, {2, 0}, {2, 2},
	{0, 1}, {1, 0}, {1, 2}, {2, 1},
}

// BestMove returns the optimal move for player under mutual optimal play.
func BestMove(board tictactoe.Board, player tictactoe.Player) (Move, error) {
	result, err := Search(board, player)
	if err != nil {
		return Move{}, err
	}

	return result.Move, nil
}

// Search runs a full-depth minimax with alpha-beta pruning. Wins score 10-depth and
// losses depth-10, so faster wins and slower losses are preferred.
func Search(board tictactoe.Board, player tictactoe.Player) (Result, error) {
	if !player.Valid() {
		return Result{}, fmt.Errorf("%w: unknown player %q", apperror.ErrInvalidMove, player)
	}

	if board.IsFull() {
		return Result{}, apperror.ErrNoMovesAvailable
	}

	s := searcher{me: player, board: board}

	var (
		found bool
		best  Result
		alpha = -infinity
	)

	for _, mv := range moveOrder {
		if s.board[mv.Row][mv.Col] != tictactoe.Empty {
			continue
		}

		s.board[mv.Row][mv.Col] = player.Mark()
		score := s.minimax(player.Opponent(), 1, alpha, infinity)
		s.board[mv.Row][mv.Col] = tictactoe.Empty

		if !found || score > best.Score {
			found = true
			best.Move = mv
			best.Score = score
		}

		if best.Score > alpha {
			alpha = best.Score
		}
	}

	best.Nodes = s.nodes

	return best, nil
}

// searcher owns a private copy of the board for backtracking.
type searcher struct {
	me    tictactoe.Player
	board tictactoe.Board
	nodes int
}

func (that *searcher) minimax(toMove tictactoe.Player, depth, alpha, beta int) int {
	that.nodes++

	if outcome := tictactoe.Classify(that.board); outcome.IsTerminal() {
		return that.score(outcome, depth)
	}

	maximizing := toMove == that.me

	best := infinity
	if maximizing {
		best = -infinity
	}

	for _, mv := range moveOrder {
		if that.board[mv.Row][mv.Col] != tictactoe.Empty {
			continue
		}

		that.board[mv.Row][mv.Col] = toMove.Mark()
		score := that.minimax(toMove.Opponent(), depth+1, alpha, beta)
		that.board[mv.Row][mv.Col] = tictactoe.Empty

		if maximizing {
			best = max(best, score)
			alpha = max(alpha, best)
			if best >= beta {
				break
			}
			continue
		}

		best = min(best, score)
		beta = min(beta, best)
		if best <= alpha {
			break
		}
	}

	return best
}

func (that *searcher) score(outcome tictactoe.Outcome, depth int) int {
	winner, ok := outcome.Winner()
	switch {
	case !ok:
		return 0
	case winner == that.me:
		return winScore - depth
	default:
		return depth - winScore
	}
}
