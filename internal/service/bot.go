package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/ai"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

var ErrNotBotTurn = errors.New("it's not the bot's turn")

type BotService interface {
	MakeTurn(game *entity.Game) (ai.Move, error)
}

type MovePicker interface {
	PickMove(board tictactoe.Board, player tictactoe.Player) (ai.Move, error)
}

type botService struct {
	logger  *slog.Logger
	pickers map[ai.Strategy]MovePicker
}

// NewBotService plays bot turns with the picker registered for the game's strategy.
func NewBotService(logger *slog.Logger, pickers map[ai.Strategy]MovePicker) BotService {
	return &botService{
		logger:  logger.With("component", "bot"),
		pickers: pickers,
	}
}

func (that *botService) MakeTurn(game *entity.Game) (ai.Move, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", game.ID)

	if !game.IsBotTurn() {
		return ai.Move{}, ErrNotBotTurn
	}

	picker, ok := that.pickers[game.Strategy]
	if !ok {
		return ai.Move{}, fmt.Errorf("%w: %q", apperror.ErrUnknownStrategy, game.Strategy)
	}

	move, err := picker.PickMove(game.Board, game.BotMark)
	if err != nil {
		return ai.Move{}, fmt.Errorf("failed to pick move: %w", err)
	}

	if err = game.MakeTurn(game.BotMark, move.Row, move.Col); err != nil {
		return ai.Move{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	log.Debug("bot moved", "row", move.Row, "col", move.Col, "strategy", game.Strategy, "board", game.Board.String())

	return move, nil
}
