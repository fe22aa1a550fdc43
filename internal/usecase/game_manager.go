package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/ai"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	MakeTurn(game *entity.Game) (ai.Move, error)
}

// GameManager drives game sessions: it owns turn alternation and asks the bot for
// its reply in bot games.
type GameManager struct {
	logger *slog.Logger

	gameRepo   gameRepo
	botService botService
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, botService botService) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo:   gameRepo,
		botService: botService,
	}
}

// CreateGame starts a session. In bot games the bot takes the mark the human did not
// choose and opens when that mark is X.
func (that *GameManager) CreateGame(ctx context.Context, mode entity.Mode, strategy ai.Strategy, humanMark tictactoe.Player) (*entity.Game, error) {
	if humanMark == "" {
		humanMark = tictactoe.PlayerX
	}

	if !humanMark.Valid() {
		return nil, fmt.Errorf("%w: unknown mark %q", apperror.ErrInvalidMove, humanMark)
	}

	game := entity.NewGame(uuid.NewString(), mode, strategy, humanMark.Opponent())

	log := that.logger.With("method", "CreateGame", "gameID", game.ID, "mode", mode)

	if err := that.playBot(game); err != nil {
		return nil, err
	}

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	log.Info("game created", "strategy", game.Strategy, "botMark", game.BotMark)

	return game, nil
}

// MakeTurn applies a human move and, in bot games, the bot's reply.
func (that *GameManager) MakeTurn(ctx context.Context, gameID string, player tictactoe.Player, row, col int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", gameID)

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.IsWithBot() && player == game.BotMark {
		return nil, fmt.Errorf("%w: %s is played by the bot", apperror.ErrNotYourTurn, player)
	}

	if err = game.MakeTurn(player, row, col); err != nil {
		return nil, fmt.Errorf("failed make turn: %w", err)
	}

	if err = that.playBot(game); err != nil {
		return nil, err
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	if game.IsFinished() {
		log.Info("game finished", "outcome", game.Outcome, "board", game.Board.String())
	}

	return game, nil
}

// Restart empties the board of an existing session and keeps its settings.
func (that *GameManager) Restart(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	game.Reset()

	if err = that.playBot(game); err != nil {
		return nil, err
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	that.logger.Info("game restarted", "method", "Restart", "gameID", gameID)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	return that.getGameByID(ctx, gameID)
}

func (that *GameManager) DeleteGame(ctx context.Context, gameID string) error {
	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

func (that *GameManager) playBot(game *entity.Game) error {
	if !game.IsBotTurn() {
		return nil
	}

	if _, err := that.botService.MakeTurn(game); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	existingGame, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return existingGame, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
