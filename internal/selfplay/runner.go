package selfplay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/ai"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type MovePicker interface {
	PickMove(board tictactoe.Board, player tictactoe.Player) (ai.Move, error)
}

type PlayedMove struct {
	Player tictactoe.Player
	Move   ai.Move
}

// Report is the result of one automated game.
type Report struct {
	Outcome tictactoe.Outcome
	Moves   []PlayedMove
	Board   tictactoe.Board
}

// Runner plays both sides automatically, at most one move per delay.
type Runner struct {
	logger *slog.Logger

	x, o  MovePicker
	delay time.Duration
}

func NewRunner(logger *slog.Logger, x, o MovePicker, delay time.Duration) *Runner {
	return &Runner{
		logger: logger.With("component", "selfplay"),
		x:      x,
		o:      o,
		delay:  delay,
	}
}

// Play runs a game from board with first to move until it is terminal. It returns
// ctx.Err() when cancelled between moves, together with the partial report.
func (that *Runner) Play(ctx context.Context, board tictactoe.Board, first tictactoe.Player) (Report, error) {
	log := that.logger.With("method", "Play")

	report := Report{Board: board, Outcome: tictactoe.Classify(board)}

	var tick <-chan time.Time
	if that.delay > 0 {
		ticker := time.NewTicker(that.delay)
		defer ticker.Stop()

		tick = ticker.C
	}

	toMove := first
	for !report.Outcome.IsTerminal() {
		if err := that.wait(ctx, tick); err != nil {
			return report, err
		}

		move, err := that.picker(toMove).PickMove(report.Board, toMove)
		if err != nil {
			return report, fmt.Errorf("%s failed to pick move: %w", toMove, err)
		}

		report.Board, err = tictactoe.PlaceMark(report.Board, move.Row, move.Col, toMove)
		if err != nil {
			return report, fmt.Errorf("%s picked an illegal move: %w", toMove, err)
		}

		report.Moves = append(report.Moves, PlayedMove{Player: toMove, Move: move})
		report.Outcome = tictactoe.Classify(report.Board)

		log.Debug("move played", "player", toMove, "row", move.Row, "col", move.Col, "board", report.Board.String())

		toMove = toMove.Opponent()
	}

	log.Info(report.Outcome.Summary(), "moves", len(report.Moves), "board", report.Board.String())

	return report, nil
}

func (that *Runner) picker(player tictactoe.Player) MovePicker {
	if player == tictactoe.PlayerX {
		return that.x
	}
	return that.o
}

func (that *Runner) wait(ctx context.Context, tick <-chan time.Time) error {
	if tick == nil {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-tick:
		return nil
	}
}
