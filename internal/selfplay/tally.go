package selfplay

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type Tally struct {
	XWins int `json:"x_wins"`
	OWins int `json:"o_wins"`
	Draws int `json:"draws"`
}

func (that *Tally) Add(outcome tictactoe.Outcome) {
	switch outcome {
	case tictactoe.XWins:
		that.XWins++
	case tictactoe.OWins:
		that.OWins++
	case tictactoe.Draw:
		that.Draws++
	}
}

func (that Tally) Games() int {
	return that.XWins + that.OWins + that.Draws
}

// PlayMany plays games games from the same start position and counts the results.
func (that *Runner) PlayMany(ctx context.Context, games int, board tictactoe.Board, first tictactoe.Player) (Tally, error) {
	var tally Tally

	for range games {
		report, err := that.Play(ctx, board, first)
		if err != nil {
			return tally, err
		}

		tally.Add(report.Outcome)
	}

	return tally, nil
}
